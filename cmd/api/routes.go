package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"uilibs/internal/auth"
	"uilibs/internal/favorites"
	"uilibs/internal/httpx"
	"uilibs/internal/library"
)

type server struct {
	libraries *library.HTTPHandler
	favorites *favorites.HTTPHandler
	auth      *auth.HTTPHandler
	admins    httpx.AdminChecker
	ready     func(ctx context.Context) error
}

func (s *server) routes() *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", promhttp.Handler())

	router.HandleFunc("GET /v1/libraries", s.libraries.List)
	router.HandleFunc("GET /v1/libraries/tags", s.libraries.Tags)
	router.HandleFunc("GET /v1/libraries/{id}", s.libraries.Get)

	router.HandleFunc("GET /v1/favorites", s.favorites.List)
	router.HandleFunc("PUT /v1/favorites/{id}", s.favorites.Add)
	router.HandleFunc("DELETE /v1/favorites/{id}", s.favorites.Remove)

	router.HandleFunc("GET /auth/discord/login", s.auth.Login)
	router.HandleFunc("GET /auth/discord/callback", s.auth.Callback)
	router.HandleFunc("POST /auth/logout", s.auth.Logout)
	router.Handle("GET /v1/me", httpx.RequireUser(http.HandlerFunc(s.auth.Me)))

	admin := httpx.RequireAdmin(s.admins)
	router.Handle("GET /v1/admin/libraries", admin(http.HandlerFunc(s.libraries.AdminList)))
	router.Handle("POST /v1/admin/libraries", admin(http.HandlerFunc(s.libraries.Create)))
	router.Handle("PUT /v1/admin/libraries/{id}", admin(http.HandlerFunc(s.libraries.Update)))
	router.Handle("DELETE /v1/admin/libraries/{id}", admin(http.HandlerFunc(s.libraries.Delete)))

	return router
}
