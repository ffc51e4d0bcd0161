// README: Reachability service routes by transit first and falls back to nearest-stop proximity.
package reachability

import (
	"context"
	"errors"
	"log/slog"

	"terra/internal/logger"
	"terra/internal/maps"
	"terra/internal/metrics"
	"terra/internal/types"
)

// StopRadiusM bounds the fallback stop search around the destination.
const StopRadiusM = 1000

type TransitRouter interface {
	TransitItinerary(ctx context.Context, origin, destination types.Point) (maps.Itinerary, error)
}

type StopFinder interface {
	NearbyStops(ctx context.Context, center types.Point, radiusM int) ([]maps.Stop, error)
}

type Service struct {
	router TransitRouter
	stops  StopFinder
	log    *slog.Logger
}

// NewService wires the primary router and the fallback stop search. A nil
// router skips straight to the fallback.
func NewService(router TransitRouter, stops StopFinder, log *slog.Logger) *Service {
	return &Service{router: router, stops: stops, log: logger.OrDefault(log)}
}

// Reachability never fails; provider errors degrade to the next strategy.
func (s *Service) Reachability(ctx context.Context, origin, destination types.Point) Result {
	res := s.resolve(ctx, origin, destination)
	metrics.Reachability.WithLabelValues(res.Kind.String()).Inc()
	return res
}

func (s *Service) resolve(ctx context.Context, origin, destination types.Point) Result {
	if s.router != nil {
		it, err := s.router.TransitItinerary(ctx, origin, destination)
		metrics.ObserveCall("directions", ignoreNoTransit(err))
		if err == nil && len(it.Modes) > 0 {
			return routed(it.Duration.Minutes(), it.Modes)
		}
		if err != nil && !errors.Is(err, maps.ErrNoTransitLeg) {
			s.log.Warn("transit routing failed, using nearby stops",
				slog.String("provider", "directions"), slog.Any("error", err))
		}
	}
	return s.nearestStop(ctx, destination)
}

func (s *Service) nearestStop(ctx context.Context, destination types.Point) Result {
	if s.stops == nil {
		return unreachable()
	}
	stops, err := s.stops.NearbyStops(ctx, destination, StopRadiusM)
	metrics.ObserveCall("overpass_stops", err)
	if err != nil {
		s.log.Warn("stop search failed", slog.String("provider", "overpass"), slog.Any("error", err))
		return unreachable()
	}
	if len(stops) == 0 {
		return unreachable()
	}

	best, bestKm := stops[0], haversineKm(destination, stops[0].Position)
	for _, st := range stops[1:] {
		if d := haversineKm(destination, st.Position); d < bestKm {
			best, bestKm = st, d
		}
	}
	return approximated(best.Name, best.Kinds, float64(int(bestKm*1000)))
}

func ignoreNoTransit(err error) error {
	if errors.Is(err, maps.ErrNoTransitLeg) {
		return nil
	}
	return err
}
