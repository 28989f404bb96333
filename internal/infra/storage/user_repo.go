package storage

import (
	"context"
	"database/sql"
	"errors"
)

type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// SetTimezone upserts the user's zone; setting it again overwrites.
func (r *UserRepo) SetTimezone(ctx context.Context, userID, zone string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, timezone) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET timezone = EXCLUDED.timezone
`, userID, zone)
	return err
}

func (r *UserRepo) GetTimezone(ctx context.Context, userID string) (string, error) {
	var zone string
	err := r.db.QueryRowContext(ctx, `SELECT timezone FROM users WHERE id = $1`, userID).Scan(&zone)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return zone, err
}
