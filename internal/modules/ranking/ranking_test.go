package ranking

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terra/internal/maps"
	"terra/internal/modules/reachability"
)

func routed(minutes float64) reachability.Result {
	return reachability.Result{Kind: reachability.Available, DurationMinutes: minutes, HasDuration: true, Modes: []string{"BUS"}}
}

func approx() reachability.Result {
	return reachability.Result{Kind: reachability.Approximate, StopName: "s", DistanceMeters: 150}
}

func candidate(name string, r reachability.Result) Candidate {
	return Candidate{Place: maps.Place{Name: name}, Reachability: r}
}

func TestScore_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		res  reachability.Result
		want float64
	}{
		{"30 minutes", routed(30), 2.0},
		{"25 minutes", routed(25), 2.0},
		{"45 minutes", routed(45), 2.0},
		{"20 minutes", routed(20), 1.5},
		{"60 minutes", routed(60), 1.5},
		{"24.9 minutes", routed(24.9), 1.5},
		{"46 minutes", routed(46), 1.5},
		{"19 minutes", routed(19), 1.0},
		{"61 minutes", routed(61), 1.0},
		{"approximate", approx(), 1.0},
		{"available without duration", reachability.Result{Kind: reachability.Available, Modes: []string{"BUS"}}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.res))
		})
	}
}

func TestRank_DropsUnavailableAndSorts(t *testing.T) {
	got := Rank([]Candidate{
		candidate("far", routed(90)),
		candidate("none", reachability.Result{Kind: reachability.Unavailable}),
		candidate("sweet", routed(30)),
		candidate("good", routed(55)),
	})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"sweet", "good", "far"}, names(got))
	assert.Equal(t, []float64{2.0, 1.5, 1.0}, scores(got))
}

func TestRank_StableAmongTies(t *testing.T) {
	got := Rank([]Candidate{
		candidate("a", approx()),
		candidate("b", routed(30)),
		candidate("c", routed(10)),
		candidate("d", routed(40)),
		candidate("e", approx()),
	})
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, names(got))
}

func TestRank_CapsAtMaxResults(t *testing.T) {
	var cands []Candidate
	for i := 0; i < 12; i++ {
		cands = append(cands, candidate(fmt.Sprintf("p%d", i), approx()))
	}
	cands = append(cands, candidate("best", routed(35)))

	got := Rank(cands)
	require.Len(t, got, MaxResults)
	assert.Equal(t, []string{"best", "p0", "p1", "p2", "p3"}, names(got))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
	assert.Empty(t, Rank([]Candidate{candidate("x", reachability.Result{})}))
}

func TestRank_SortedNonIncreasing(t *testing.T) {
	durations := []float64{5, 22, 61, 44, 20, 60, 25, 19, 30, 100}
	var cands []Candidate
	for i, d := range durations {
		cands = append(cands, candidate(fmt.Sprintf("p%d", i), routed(d)))
	}
	got := Rank(cands)
	assert.LessOrEqual(t, len(got), MaxResults)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func names(rs []RankedPlace) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Place.Name
	}
	return out
}

func scores(rs []RankedPlace) []float64 {
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i] = r.Score
	}
	return out
}
