// README: Google Maps directions client for trip travel estimates.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// EstimateTravel returns the driving duration and a human-readable distance
// for a trip from origin to destination.
func (s *RouteService) EstimateTravel(ctx context.Context, origin, destination string) (time.Duration, string, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Language:    "en",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, "", fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, "", fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return leg.Duration, leg.Distance.HumanReadable, nil
}
