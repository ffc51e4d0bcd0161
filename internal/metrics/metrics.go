// README: Prometheus collectors for pipeline outcomes and external provider calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the collectors below.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeCached   = "cached"
)

var (
	// ProviderCalls counts calls to external collaborators by provider and outcome.
	ProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terra",
		Name:      "provider_calls_total",
		Help:      "External provider calls partitioned by provider and outcome.",
	}, []string{"provider", "outcome"})

	// Reachability counts reachability results by kind.
	Reachability = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terra",
		Name:      "reachability_results_total",
		Help:      "Reachability lookups partitioned by result kind.",
	}, []string{"kind"})

	// PipelineRuns counts handled requests by terminal route.
	PipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "terra",
		Name:      "pipeline_runs_total",
		Help:      "Recommendation pipeline runs partitioned by the route taken.",
	}, []string{"route"})
)

// ObserveCall records one provider call; a nil error counts as ok.
func ObserveCall(provider string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	Observe(provider, outcome)
}

// Observe records a provider lookup with an explicit outcome, for clients
// that can tell cache hits and empty answers apart from failures.
func Observe(provider, outcome string) {
	ProviderCalls.WithLabelValues(provider, outcome).Inc()
}
