// Package postgres stores visitor preferences in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used by the repository.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const createPreferencesSQL = `
CREATE TABLE IF NOT EXISTS user_preferences (
    visitor_id TEXT PRIMARY KEY,
    zipcode    TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const loadPreferenceSQL = `SELECT zipcode FROM user_preferences WHERE visitor_id = $1`

const upsertPreferenceSQL = `
INSERT INTO user_preferences (visitor_id, zipcode, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (visitor_id) DO UPDATE
SET zipcode = EXCLUDED.zipcode,
    updated_at = EXCLUDED.updated_at`

const deletePreferenceSQL = `DELETE FROM user_preferences WHERE visitor_id = $1`

// PreferenceRepository keeps one zipcode per visitor id.
type PreferenceRepository struct {
	db    querier
	close func()
}

// New connects to databaseURL and ensures the preferences table exists.
func New(ctx context.Context, databaseURL string) (*PreferenceRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	repo := &PreferenceRepository{db: pool, close: pool.Close}
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the preferences table when missing.
func (r *PreferenceRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createPreferencesSQL); err != nil {
		return fmt.Errorf("create user_preferences: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Load(ctx context.Context, visitorID string) (string, bool, error) {
	var zip string
	err := r.db.QueryRow(ctx, loadPreferenceSQL, visitorID).Scan(&zip)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load preference: %w", err)
	}
	return zip, true, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, visitorID, zipcode string) error {
	if _, err := r.db.Exec(ctx, upsertPreferenceSQL, visitorID, zipcode); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepository) Delete(ctx context.Context, visitorID string) error {
	if _, err := r.db.Exec(ctx, deletePreferenceSQL, visitorID); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *PreferenceRepository) Close() {
	if r.close != nil {
		r.close()
	}
}
