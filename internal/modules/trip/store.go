// README: Trip store backed by PostgreSQL.
package trip

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wayfare/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, t *Trip) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO trips (
            id, owner_id, source, destination, budget, members,
            route_seconds, route_distance, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(t.ID),
		string(t.OwnerID),
		t.Source,
		t.Destination,
		t.Budget,
		t.Members,
		t.RouteSeconds,
		t.RouteDistance,
		t.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, owner_id, source, destination, budget, members,
               route_seconds, route_distance, created_at
        FROM trips
        WHERE id = $1`, string(id),
	)
	return scanTrip(row)
}

func (s *Store) ListByOwner(ctx context.Context, owner types.ID) ([]*Trip, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, owner_id, source, destination, budget, members,
               route_seconds, route_distance, created_at
        FROM trips
        WHERE owner_id = $1
        ORDER BY created_at DESC`, string(owner),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var t Trip
	var routeSeconds sql.NullInt64
	var routeDistance sql.NullString

	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Source, &t.Destination, &t.Budget, &t.Members,
		&routeSeconds, &routeDistance, &t.CreatedAt,
	)
	// pgx returns its own ErrNoRows sentinel, not database/sql's.
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if routeSeconds.Valid {
		v := routeSeconds.Int64
		t.RouteSeconds = &v
	}
	if routeDistance.Valid {
		v := routeDistance.String
		t.RouteDistance = &v
	}
	return &t, nil
}
