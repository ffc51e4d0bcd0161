package bookmark

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore keeps bookmarks in the bookmarks table (see migrations/).
type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Get(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT label, location
		FROM bookmarks
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var label, location string
		if err := rows.Scan(&label, &location); err != nil {
			return nil, err
		}
		out[label] = location
	}
	return out, rows.Err()
}

// Set replaces the user's rows in one transaction.
func (s *PgStore) Set(ctx context.Context, userID string, bookmarks map[string]string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM bookmarks WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear bookmarks: %w", err)
	}
	for label, location := range bookmarks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO bookmarks (user_id, label, location, created_at)
			VALUES ($1, $2, $3, now())`, userID, label, location); err != nil {
			return fmt.Errorf("insert bookmark %q: %w", label, err)
		}
	}
	return tx.Commit(ctx)
}
