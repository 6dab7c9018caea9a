package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"uilibs/internal/logger"
	"uilibs/internal/platform/discord"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) UpsertUser(ctx context.Context, du discord.User) (User, error) {
	const query = `
	INSERT INTO users (id, discord_id, username, avatar)
	VALUES (gen_random_uuid(), $1, $2, $3)
	ON CONFLICT (discord_id) DO UPDATE
	SET username = EXCLUDED.username,
		avatar = EXCLUDED.avatar,
		last_login_at = now()
	RETURNING id, discord_id, username, COALESCE(avatar, ''), created_at, last_login_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	err := r.db.QueryRow(timeoutCtx, query, du.ID, du.DisplayName(), du.Avatar).Scan(
		&u.ID,
		&u.DiscordID,
		&u.Username,
		&u.Avatar,
		&u.CreatedAt,
		&u.LastLoginAt,
	)
	return u, err
}

func (r *PostgresRepo) GetUser(ctx context.Context, id string) (User, error) {
	const query = `
	SELECT id, discord_id, username, COALESCE(avatar, ''), created_at, last_login_at
	FROM users
	WHERE id = $1
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u User
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&u.ID,
		&u.DiscordID,
		&u.Username,
		&u.Avatar,
		&u.CreatedAt,
		&u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) LinkAdmin(ctx context.Context, discordID, userID string) (bool, error) {
	const query = `UPDATE admins SET user_id = $2 WHERE discord_id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, discordID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`
	defer logger.Track(ctx, "admins.check")()
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var ok bool
	err := r.db.QueryRow(timeoutCtx, query, userID).Scan(&ok)
	return ok, err
}
