package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"terra/internal/types"
)

// ErrNoTransitLeg means the router answered but no itinerary uses public transit.
var ErrNoTransitLeg = errors.New("no public transit leg in itinerary")

// Itinerary summarizes the first transit route returned for a trip.
type Itinerary struct {
	Duration time.Duration
	Modes    []string
}

// directionsAPI is the subset of *maps.Client used for routing.
type directionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// RouteService handles transit routing through the Google Directions API.
type RouteService struct {
	client directionsAPI
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// TransitItinerary requests a public transit route departing now.
func (s *RouteService) TransitItinerary(ctx context.Context, origin, destination types.Point) (Itinerary, error) {
	r := &maps.DirectionsRequest{
		Origin:        origin.String(),
		Destination:   destination.String(),
		Mode:          maps.TravelModeTransit,
		DepartureTime: "now",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Itinerary{}, fmt.Errorf("maps api error: %w", err)
	}
	return itineraryFromRoutes(routes)
}

// itineraryFromRoutes reads the first route. Duration sums all legs; modes
// are the vehicle types of the transit steps in travel order.
func itineraryFromRoutes(routes []maps.Route) (Itinerary, error) {
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Itinerary{}, ErrNoTransitLeg
	}

	var it Itinerary
	for _, leg := range routes[0].Legs {
		if leg == nil {
			continue
		}
		it.Duration += leg.Duration
		for _, step := range leg.Steps {
			if step == nil || step.TravelMode != "TRANSIT" {
				continue
			}
			mode := "TRANSIT"
			if td := step.TransitDetails; td != nil && td.Line.Vehicle.Type != "" {
				mode = td.Line.Vehicle.Type
			}
			it.Modes = append(it.Modes, mode)
		}
	}

	if len(it.Modes) == 0 {
		return Itinerary{}, ErrNoTransitLeg
	}
	return it, nil
}
