package scan

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *Scan) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO scans (id, user_id, image_url, language, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`, s.ID, s.UserID, s.ImageURL, s.Language, s.Status, s.CreatedAt)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Scan, error) {
	s := &Scan{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, image_url, language, status, menu_id, error, created_at, updated_at
		FROM scans
		WHERE id = $1
	`, id).Scan(
		&s.ID, &s.UserID, &s.ImageURL, &s.Language, &s.Status,
		&s.MenuID, &s.Error, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ClaimPending claims the oldest uploaded scan atomically so several
// workers never grab the same row.
func (r *PostgresRepository) ClaimPending(ctx context.Context) (*Scan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	s := &Scan{}
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, image_url, language, status, menu_id, error, created_at, updated_at
		FROM scans
		WHERE status = $1
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`, StatusUploaded).Scan(
		&s.ID, &s.UserID, &s.ImageURL, &s.Language, &s.Status,
		&s.MenuID, &s.Error, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE scans
		SET status = $1, updated_at = now()
		WHERE id = $2
	`, StatusParsing, s.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.Status = StatusParsing
	return s, nil
}

func (r *PostgresRepository) MarkParsed(ctx context.Context, id, menuID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE scans
		SET status = $1, menu_id = $2, error = NULL, updated_at = now()
		WHERE id = $3
	`, StatusParsed, menuID, id)
	return err
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE scans
		SET status = $1, error = $2, updated_at = now()
		WHERE id = $3
	`, StatusFailed, reason, id)
	return err
}

func (r *PostgresRepository) Retry(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE scans
		SET status = $1, error = NULL, updated_at = now()
		WHERE id = $2 AND status = $3
	`, StatusUploaded, id, StatusFailed)
	return err
}
