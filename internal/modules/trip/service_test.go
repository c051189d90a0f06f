// README: Trip service tests with an in-memory store and stub route estimator.
package trip

import (
	"context"
	"errors"
	"testing"
	"time"

	"wayfare/internal/modules/dialogue"
	"wayfare/internal/types"
)

type memStore struct {
	trips map[types.ID]*Trip
}

func newMemStore() *memStore {
	return &memStore{trips: make(map[types.ID]*Trip)}
}

func (s *memStore) Create(_ context.Context, t *Trip) error {
	cp := *t
	s.trips[t.ID] = &cp
	return nil
}

func (s *memStore) Get(_ context.Context, id types.ID) (*Trip, error) {
	t, ok := s.trips[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (s *memStore) ListByOwner(_ context.Context, owner types.ID) ([]*Trip, error) {
	var out []*Trip
	for _, t := range s.trips {
		if t.OwnerID == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubRoutes struct {
	dur      time.Duration
	distance string
	err      error
}

func (r *stubRoutes) EstimateTravel(_ context.Context, _, _ string) (time.Duration, string, error) {
	return r.dur, r.distance, r.err
}

var testReq = dialogue.CompletedRequest{
	Source:      "Chennai",
	Destination: "Dubai",
	Budget:      50000,
	Members:     4,
}

func TestCreateFromRequest(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, &stubRoutes{dur: 4 * time.Hour, distance: "3,049 km"})

	id, err := svc.CreateFromRequest(ctx, "user-1", testReq)
	if err != nil {
		t.Fatal(err)
	}
	if len(id) != 32 {
		t.Errorf("id = %q, want 32 hex chars", id)
	}

	created, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if created.OwnerID != "user-1" || created.Source != "Chennai" || created.Destination != "Dubai" {
		t.Errorf("trip = %+v", created)
	}
	if created.Budget != 50000 || created.Members != 4 {
		t.Errorf("trip = %+v", created)
	}
	if created.RouteSeconds == nil || *created.RouteSeconds != int64((4 * time.Hour).Seconds()) {
		t.Errorf("route seconds = %v, want 14400", created.RouteSeconds)
	}
	if created.RouteDistance == nil || *created.RouteDistance != "3,049 km" {
		t.Errorf("route distance = %v", created.RouteDistance)
	}
	if created.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

// TestCreateFromRequestRouteFailure verifies the estimate is best effort:
// a maps outage never blocks trip creation.
func TestCreateFromRequestRouteFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, &stubRoutes{err: errors.New("maps unavailable")})

	id, err := svc.CreateFromRequest(ctx, "user-1", testReq)
	if err != nil {
		t.Fatal(err)
	}
	created, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if created.RouteSeconds != nil || created.RouteDistance != nil {
		t.Errorf("trip has a route estimate despite failure: %+v", created)
	}
}

func TestCreateFromRequestNoEstimator(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	if _, err := svc.CreateFromRequest(context.Background(), "user-1", testReq); err != nil {
		t.Fatal(err)
	}
}

func TestCreateFromRequestMissingOwner(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	if _, err := svc.CreateFromRequest(context.Background(), "", testReq); !errors.Is(err, ErrBadRequest) {
		t.Errorf("err = %v, want ErrBadRequest", err)
	}
}

// TestGetForOwner verifies someone else's trip reads as not found.
func TestGetForOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, nil)

	id, err := svc.CreateFromRequest(ctx, "user-1", testReq)
	if err != nil {
		t.Fatal(err)
	}

	if got, err := svc.GetForOwner(ctx, "user-1", id); err != nil || got.ID != id {
		t.Fatalf("owner fetch: trip=%v err=%v", got, err)
	}
	if _, err := svc.GetForOwner(ctx, "user-2", id); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign fetch: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetForOwner(ctx, "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing fetch: err = %v, want ErrNotFound", err)
	}
}
