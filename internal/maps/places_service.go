package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"terra/internal/types"
)

// DefaultOverpassURL is the public Overpass interpreter endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// MaxCandidates caps the elements considered from a single place query.
const MaxCandidates = 15

// ErrUnavailable is returned when a provider answers with a non-success status.
var ErrUnavailable = errors.New("provider unavailable")

// Place is a named point of interest near the searched point.
type Place struct {
	Name     string      `json:"name"`
	Position types.Point `json:"position"`
	Tags     []string    `json:"tags"`
	Address  string      `json:"address"`
}

// Stop is a public transport stop or station.
type Stop struct {
	Name     string      `json:"name"`
	Position types.Point `json:"position"`
	Kinds    []string    `json:"kinds"`
}

// OverpassService searches OpenStreetMap data through the Overpass API.
type OverpassService struct {
	endpoint string
	client   *http.Client
}

// NewOverpassService returns a client for endpoint. An empty endpoint uses
// DefaultOverpassURL and a zero timeout defaults to 30s.
func NewOverpassService(endpoint string, timeout time.Duration) *OverpassService {
	if endpoint == "" {
		endpoint = DefaultOverpassURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OverpassService{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// position returns the node coordinate, or the centroid for ways and relations.
func (e overpassElement) position() (types.Point, bool) {
	if e.Lat != nil && e.Lon != nil {
		return types.Point{Lat: *e.Lat, Lng: *e.Lon}, true
	}
	if e.Center != nil {
		return types.Point{Lat: e.Center.Lat, Lng: e.Center.Lon}, true
	}
	return types.Point{}, false
}

// SearchPlaces returns named places within radiusM of center. tags are the
// synonyms of the requested category; nil tags select the default set.
func (s *OverpassService) SearchPlaces(ctx context.Context, center types.Point, radiusM int, tags []string) ([]Place, error) {
	query := BuildPlaceQuery(center, radiusM, tags)
	resp, err := s.run(ctx, query)
	if err != nil {
		return nil, err
	}
	return parsePlaces(resp.Elements), nil
}

// NearbyStops returns transit stops and stations within radiusM of center.
func (s *OverpassService) NearbyStops(ctx context.Context, center types.Point, radiusM int) ([]Stop, error) {
	resp, err := s.run(ctx, BuildStopQuery(center, radiusM))
	if err != nil {
		return nil, err
	}

	stops := make([]Stop, 0, len(resp.Elements))
	for _, el := range resp.Elements {
		pos, ok := el.position()
		if !ok {
			continue
		}
		name := el.Tags["name"]
		if name == "" {
			name = "Unknown stop"
		}
		var kinds []string
		for _, key := range []string{"public_transport", "highway", "railway"} {
			if v, ok := el.Tags[key]; ok {
				kinds = append(kinds, v)
			}
		}
		stops = append(stops, Stop{Name: name, Position: pos, Kinds: kinds})
	}
	return stops, nil
}

func (s *OverpassService) run(ctx context.Context, query string) (*overpassResponse, error) {
	u := s.endpoint + "?" + url.Values{"data": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("overpass: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("overpass: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var out overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("overpass: decode response: %w", err)
	}
	return &out, nil
}

// parsePlaces keeps the first MaxCandidates elements and drops any without a
// name or a resolvable position.
func parsePlaces(elements []overpassElement) []Place {
	if len(elements) > MaxCandidates {
		elements = elements[:MaxCandidates]
	}

	places := make([]Place, 0, len(elements))
	for _, el := range elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}
		pos, ok := el.position()
		if !ok {
			continue
		}
		var tags []string
		for _, key := range []string{"tourism", "leisure", "amenity", "shop"} {
			if v, ok := el.Tags[key]; ok {
				tags = append(tags, v)
			}
		}
		places = append(places, Place{
			Name:     name,
			Position: pos,
			Tags:     tags,
			Address:  strings.TrimSpace(el.Tags["addr:street"] + " " + el.Tags["addr:housenumber"]),
		})
	}
	return places
}
