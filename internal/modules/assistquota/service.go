// README: Quota service consumed by the dialogue controller.
package assistquota

import (
	"context"
	"errors"
)

// Storage is satisfied by the postgres Store and by in-memory stores in tests.
type Storage interface {
	UseCall(ctx context.Context, uid string) error
	EnsureUser(ctx context.Context, uid string) error
}

// Service orchestrates assist-allowance logic.
type Service struct {
	store Storage
}

// NewService creates a Service backed by the given Store.
func NewService(store Storage) *Service {
	return &Service{store: store}
}

// Use deducts one extraction call from the user's monthly allowance.
// If the user row does not exist yet it is initialised and the call is
// immediately consumed. Returns ErrInsufficientTokens when the quota for
// the current month is exhausted.
func (s *Service) Use(ctx context.Context, uid string) error {
	err := s.store.UseCall(ctx, uid)
	if !errors.Is(err, ErrInsufficientTokens) {
		return err
	}

	// Row may be missing: try to create it, then retry the deduction once.
	if initErr := s.store.EnsureUser(ctx, uid); initErr != nil {
		return initErr
	}
	return s.store.UseCall(ctx, uid)
}
