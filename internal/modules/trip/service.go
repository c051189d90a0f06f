// README: Trip service: builds persisted trips from completed dialogue requests.
package trip

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"time"

	"wayfare/internal/modules/dialogue"
	"wayfare/internal/types"
)

// RouteEstimator provides a travel estimate between two place names.
type RouteEstimator interface {
	EstimateTravel(ctx context.Context, origin, destination string) (time.Duration, string, error)
}

// Storage is satisfied by the postgres Store and by in-memory stores in tests.
type Storage interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	ListByOwner(ctx context.Context, owner types.ID) ([]*Trip, error)
}

type Service struct {
	store  Storage
	routes RouteEstimator
}

// NewService creates the trip factory. routes may be nil; trips are then
// created without a travel estimate.
func NewService(store Storage, routes RouteEstimator) *Service {
	return &Service{store: store, routes: routes}
}

// CreateFromRequest persists a trip for a completed dialogue request and
// returns its id. The route estimate is best effort: a maps failure is
// logged and the trip is created without one.
func (s *Service) CreateFromRequest(ctx context.Context, owner types.ID, req dialogue.CompletedRequest) (types.ID, error) {
	if owner == "" {
		return "", ErrBadRequest
	}

	t := &Trip{
		ID:          newID(),
		OwnerID:     owner,
		Source:      req.Source,
		Destination: req.Destination,
		Budget:      req.Budget,
		Members:     req.Members,
		CreatedAt:   time.Now(),
	}

	if s.routes != nil {
		dur, distance, err := s.routes.EstimateTravel(ctx, req.Source, req.Destination)
		if err != nil {
			log.Printf("route estimate failed (%s -> %s): %v", req.Source, req.Destination, err)
		} else {
			secs := int64(dur.Seconds())
			t.RouteSeconds = &secs
			t.RouteDistance = &distance
		}
	}

	if err := s.store.Create(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// GetForOwner fetches a trip and enforces ownership; a trip belonging to
// someone else is indistinguishable from a missing one.
func (s *Service) GetForOwner(ctx context.Context, owner, id types.ID) (*Trip, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != owner {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *Service) ListForOwner(ctx context.Context, owner types.ID) ([]*Trip, error) {
	return s.store.ListByOwner(ctx, owner)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
