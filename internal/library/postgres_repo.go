package library

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"uilibs/internal/logger"
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

const selectColumns = `
	id, name, description, about, author, author_bio, website, github,
	tags, is_paid, is_mobile_friendly, preview, gallery, created_at, updated_at`

// record mirrors a row. Everything but the key and timestamps may be NULL
// in rows written by older clients.
type record struct {
	ID               string
	Name             *string
	Description      *string
	About            *string
	Author           *string
	AuthorBio        *string
	Website          *string
	GitHub           *string
	Tags             []string
	IsPaid           *bool
	IsMobileFriendly *bool
	Preview          *string
	Gallery          []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (rec *record) targets() []any {
	return []any{
		&rec.ID,
		&rec.Name,
		&rec.Description,
		&rec.About,
		&rec.Author,
		&rec.AuthorBio,
		&rec.Website,
		&rec.GitHub,
		&rec.Tags,
		&rec.IsPaid,
		&rec.IsMobileFriendly,
		&rec.Preview,
		&rec.Gallery,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// decode applies the defaults for missing columns: empty strings, no tags,
// not paid, not mobile friendly, no gallery.
func (rec record) decode() Library {
	l := Library{
		ID:               rec.ID,
		Name:             deref(rec.Name),
		Description:      deref(rec.Description),
		About:            deref(rec.About),
		Author:           deref(rec.Author),
		AuthorBio:        deref(rec.AuthorBio),
		Website:          deref(rec.Website),
		GitHub:           deref(rec.GitHub),
		Tags:             rec.Tags,
		IsPaid:           deref(rec.IsPaid),
		IsMobileFriendly: deref(rec.IsMobileFriendly),
		Gallery:          rec.Gallery,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	if l.Tags == nil {
		l.Tags = []string{}
	}
	if l.Gallery == nil {
		l.Gallery = []string{}
	}
	if rec.Preview != nil && *rec.Preview != "" {
		l.Preview = rec.Preview
	}
	return l
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]Library, error) {
	query := `SELECT ` + selectColumns + ` FROM libraries ORDER BY created_at DESC`
	defer logger.Track(ctx, "libraries.list_all")()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	libs := []Library{}
	for rows.Next() {
		var rec record
		if err := rows.Scan(rec.targets()...); err != nil {
			return nil, err
		}
		libs = append(libs, rec.decode())
	}
	return libs, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Library, error) {
	query := `SELECT ` + selectColumns + ` FROM libraries WHERE id = $1`
	defer logger.Track(ctx, "libraries.get")()

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rec record
	if err := r.db.QueryRow(timeoutCtx, query, id).Scan(rec.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Library{}, ErrNotFound
		}
		return Library{}, err
	}
	return rec.decode(), nil
}

func (r *PostgresRepo) Create(ctx context.Context, l *Library) error {
	const query = `
	INSERT INTO libraries (id, name, description, about, author, author_bio, website, github,
		tags, is_paid, is_mobile_friendly, preview, gallery)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		l.Name,
		l.Description,
		l.About,
		l.Author,
		l.AuthorBio,
		l.Website,
		l.GitHub,
		l.Tags,
		l.IsPaid,
		l.IsMobileFriendly,
		l.Preview,
		l.Gallery,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, l *Library) error {
	const query = `
	UPDATE libraries
	SET name = $2, description = $3, about = $4, author = $5, author_bio = $6,
		website = $7, github = $8, tags = $9, is_paid = $10, is_mobile_friendly = $11,
		preview = $12, gallery = $13, updated_at = now()
	WHERE id = $1
	RETURNING created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		l.ID,
		l.Name,
		l.Description,
		l.About,
		l.Author,
		l.AuthorBio,
		l.Website,
		l.GitHub,
		l.Tags,
		l.IsPaid,
		l.IsMobileFriendly,
		l.Preview,
		l.Gallery,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM libraries WHERE id = $1`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
