// README: assist_usage persistence with atomic monthly rollover.
package assistquota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles assist_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseCall atomically checks the monthly quota and deducts one call.
// It resets the counter to DefaultAllowance when last_reset_month is behind
// the current month. Returns ErrInsufficientTokens when 0 rows are updated
// (quota exhausted or user absent).
func (s *Store) UseCall(ctx context.Context, uid string) error {
	now := time.Now().Format("2006-01")

	tag, err := s.db.Exec(ctx, `
		UPDATE assist_usage SET
			calls_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE calls_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR calls_remaining > 0)
	`, now, DefaultAllowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientTokens
	}
	return nil
}

// EnsureUser inserts a new assist_usage row for uid with the default
// allowance. If the row already exists the insert is silently skipped.
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO assist_usage (uid, calls_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, DefaultAllowance, time.Now().Format("2006-01"))
	return err
}
