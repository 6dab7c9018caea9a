package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"uilibs/internal/auth"
	"uilibs/internal/config"
	"uilibs/internal/favorites"
	"uilibs/internal/httpx"
	"uilibs/internal/library"
	"uilibs/internal/logger"
	"uilibs/internal/platform/discord"
	"uilibs/internal/platform/objectstore"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		logger.Setup("info", "text")
		logger.For(context.Background()).WithError(err).Fatal("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log := logger.For(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool := mustOpenDB(ctx, cfg.DBDSN)
	defer dbPool.Close()

	storage := objectstore.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	resolver := objectstore.NewResolver(cfg.StorageURL, cfg.StorageBucket)
	discordClient := discord.NewClient(cfg.DiscordClientID, cfg.DiscordClientSecret, cfg.DiscordRedirectURL)

	libraryRepository := library.NewPostgresRepo(dbPool, cfg.DBTimeout)
	authRepository := auth.NewPostgresRepo(dbPool, cfg.DBTimeout)

	libraryService := library.NewService(libraryRepository, storage)
	authService := auth.NewService(cfg.JWTSecret, cfg.SessionTTL, authRepository, discordClient)

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rateLimiter.Close()

	srv := &server{
		libraries: library.NewHTTPHandler(libraryService, resolver, authService, cfg.MaxUploadBytes),
		favorites: favorites.NewHTTPHandler(cfg.CookieSecure),
		auth:      auth.NewHTTPHandler(authService, cfg.CookieSecure),
		admins:    authService,
		ready:     dbPool.Ping,
	}

	handler := httpx.Chain(srv.routes(),
		httpx.RecoveryMiddleware,
		httpx.RequestIDMiddleware,
		httpx.CORSMiddleware(cfg.CORSOrigins),
		httpx.SecurityHeadersMiddleware(cfg.HSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxUploadBytes),
		rateLimiter.Middleware,
		httpx.AuthMiddleware(cfg.JWTSecret),
		httpx.AccessLogMiddleware,
	)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("graceful shutdown")
		}
	}()

	log.WithField("addr", cfg.Addr).Info("starting server")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server error")
	}
	log.Info("server stopped")
}

func mustOpenDB(ctx context.Context, dsn string) *pgxpool.Pool {
	log := logger.For(ctx)
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.WithError(err).Fatal("cannot create db pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.WithError(err).WithField("dsn", redactDSN(dsn)).Fatal("cannot ping database")
	}
	log.Info("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
