// README: Scores candidate places by transit duration and keeps the top few.
package ranking

import (
	"sort"

	"terra/internal/maps"
	"terra/internal/modules/reachability"
)

// MaxResults caps the ranked list.
const MaxResults = 5

const (
	baseScore   = 1.0
	goodScore   = 1.5
	sweetScore  = 2.0
	goodMinMin  = 20.0
	goodMaxMin  = 60.0
	sweetMinMin = 25.0
	sweetMaxMin = 45.0
)

type Candidate struct {
	Place        maps.Place
	Reachability reachability.Result
}

type RankedPlace struct {
	Place        maps.Place          `json:"place"`
	Reachability reachability.Result `json:"reachability"`
	Score        float64             `json:"score"`
}

// Score rates a reachable candidate. Only routed durations move the score
// off the base; approximate results always score the base.
func Score(r reachability.Result) float64 {
	if r.Kind != reachability.Available || !r.HasDuration {
		return baseScore
	}
	d := r.DurationMinutes
	switch {
	case d >= sweetMinMin && d <= sweetMaxMin:
		return sweetScore
	case d >= goodMinMin && d <= goodMaxMin:
		return goodScore
	default:
		return baseScore
	}
}

// Rank drops unreachable candidates, sorts by descending score keeping input
// order among ties, and truncates to MaxResults.
func Rank(candidates []Candidate) []RankedPlace {
	ranked := make([]RankedPlace, 0, len(candidates))
	for _, c := range candidates {
		if !c.Reachability.Reachable() {
			continue
		}
		ranked = append(ranked, RankedPlace{
			Place:        c.Place,
			Reachability: c.Reachability,
			Score:        Score(c.Reachability),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked
}
