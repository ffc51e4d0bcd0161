// README: Current weather from OpenWeather plus calendar-derived season and display time.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"terra/internal/metrics"
	"terra/internal/types"
)

// DefaultEndpoint is the OpenWeather current weather endpoint.
const DefaultEndpoint = "https://api.openweathermap.org/data/2.5/weather"

const (
	cacheTTL     = 10 * time.Minute
	cacheCleanup = 20 * time.Minute
	provider     = "openweather"
)

// ErrUnavailable covers a missing key, a failed call and a non-success status.
var ErrUnavailable = errors.New("weather unavailable")

// Conditions is the current weather at a point, in metric units.
type Conditions struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature"`
	FeelsLikeC   float64 `json:"feels_like"`
	Humidity     int     `json:"humidity"`
}

type Service struct {
	endpoint string
	apiKey   string
	client   *http.Client
	cache    *cache.Cache
}

// NewService returns an OpenWeather client. An empty apiKey makes every
// lookup return ErrUnavailable without a network call.
func NewService(apiKey string, timeout time.Duration) *Service {
	return newService(DefaultEndpoint, apiKey, timeout)
}

func newService(endpoint, apiKey string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		cache:    cache.New(cacheTTL, cacheCleanup),
	}
}

type currentResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// Current returns the weather at p. Nearby points share a cache slot for ten minutes.
func (s *Service) Current(ctx context.Context, p types.Point) (Conditions, error) {
	if s.apiKey == "" {
		return Conditions{}, fmt.Errorf("weather: no api key: %w", ErrUnavailable)
	}

	key := cacheKey(p)
	if c, ok := s.cache.Get(key); ok {
		metrics.Observe(provider, metrics.OutcomeCached)
		return c.(Conditions), nil
	}

	c, err := s.fetch(ctx, p)
	metrics.ObserveCall(provider, err)
	if err != nil {
		return Conditions{}, err
	}
	s.cache.Set(key, c, cache.DefaultExpiration)
	return c, nil
}

func (s *Service) fetch(ctx context.Context, p types.Point) (Conditions, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return Conditions{}, fmt.Errorf("weather: do request: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Conditions{}, fmt.Errorf("weather: status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Conditions{}, fmt.Errorf("weather: decode response: %w", err)
	}
	if len(body.Weather) == 0 {
		return Conditions{}, fmt.Errorf("weather: empty conditions: %w", ErrUnavailable)
	}

	return Conditions{
		Description:  body.Weather[0].Description,
		TemperatureC: body.Main.Temp,
		FeelsLikeC:   body.Main.FeelsLike,
		Humidity:     body.Main.Humidity,
	}, nil
}

func cacheKey(p types.Point) string {
	round := func(v float64) float64 { return math.Round(v*100) / 100 }
	return fmt.Sprintf("%.2f,%.2f", round(p.Lat), round(p.Lng))
}

// Season maps the calendar month to a northern-hemisphere season name.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "Winter"
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	default:
		return "Fall"
	}
}

// DisplayTime formats t as e.g. "Monday, 03:04 PM".
func DisplayTime(t time.Time) string {
	return t.Format("Monday, 03:04 PM")
}
