package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"googlemaps.github.io/maps"

	"terra/internal/metrics"
	"terra/internal/types"
)

// ErrNotFound is returned when a location name resolves to nothing.
var ErrNotFound = errors.New("location not found")

const (
	geocodeCacheSize = 512
	geocodeProvider  = "geocode"
)

// Location is a resolved place name.
type Location struct {
	Position         types.Point `json:"position"`
	FormattedAddress string      `json:"formatted_address"`
}

type geocodeAPI interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GeocodeService resolves names to coordinates, remembering recent answers.
type GeocodeService struct {
	client geocodeAPI
	cache  *lru.Cache[string, Location]
}

func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return newGeocodeService(client)
}

func newGeocodeService(client geocodeAPI) (*GeocodeService, error) {
	cache, err := lru.New[string, Location](geocodeCacheSize)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: %w", err)
	}
	return &GeocodeService{client: client, cache: cache}, nil
}

// Resolve geocodes name. Names are matched case-insensitively against the cache.
// A result outside the lat/lng domain counts as not found.
func (s *GeocodeService) Resolve(ctx context.Context, name string) (Location, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Location{}, ErrNotFound
	}
	if loc, ok := s.cache.Get(key); ok {
		metrics.Observe(geocodeProvider, metrics.OutcomeCached)
		return loc, nil
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		metrics.Observe(geocodeProvider, metrics.OutcomeError)
		return Location{}, fmt.Errorf("geocode %q: %w", name, err)
	}

	var loc Location
	if len(results) > 0 {
		r := results[0]
		loc = Location{
			Position:         types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			FormattedAddress: r.FormattedAddress,
		}
	}
	if len(results) == 0 || !loc.Position.Valid() {
		metrics.Observe(geocodeProvider, metrics.OutcomeNotFound)
		return Location{}, fmt.Errorf("geocode %q: %w", name, ErrNotFound)
	}

	metrics.Observe(geocodeProvider, metrics.OutcomeOK)
	s.cache.Add(key, loc)
	return loc, nil
}
