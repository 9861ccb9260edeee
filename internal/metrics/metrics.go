package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded on analysis runs.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeNoData    = "no_data"
	OutcomeInvariant = "invariant"
	OutcomeError     = "error"
)

var (
	analysisRuns         *prometheus.CounterVec
	analysisDuration     *prometheus.HistogramVec
	curtailedHours       *prometheus.CounterVec
	monteCarloIterations prometheus.Counter
	externalFallbacks    *prometheus.CounterVec
)

func newCollectors() (*prometheus.CounterVec, *prometheus.HistogramVec, *prometheus.CounterVec, prometheus.Counter, *prometheus.CounterVec) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_runs_total",
			Help: "Number of curtailment analysis runs by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_duration_seconds",
			Help:    "Wall time of a curtailment analysis run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"strategy"},
	)
	hours := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curtailed_hours_total",
			Help: "Hours selected for curtailment",
		},
		[]string{"strategy"},
	)
	mc := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "montecarlo_iterations_total",
			Help: "Monte Carlo iterations simulated",
		},
	)
	fb := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_fallbacks_total",
			Help: "Times an external dependency failed and a fallback was used",
		},
		[]string{"service"},
	)
	return runs, dur, hours, mc, fb
}

func init() {
	analysisRuns, analysisDuration, curtailedHours, monteCarloIterations, externalFallbacks = newCollectors()
	MustRegister(nil)
}

// MustRegister registers the collectors on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegister(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(analysisRuns, analysisDuration, curtailedHours, monteCarloIterations, externalFallbacks)
}

// Reset reinitializes collectors for tests and registers them on reg if not nil.
func Reset(reg prometheus.Registerer) {
	analysisRuns, analysisDuration, curtailedHours, monteCarloIterations, externalFallbacks = newCollectors()
	if reg != nil {
		MustRegister(reg)
	}
}

// ObserveRun records one analysis run.
func ObserveRun(strategy, outcome string, seconds float64, hours int) {
	analysisRuns.WithLabelValues(strategy, outcome).Inc()
	analysisDuration.WithLabelValues(strategy).Observe(seconds)
	if hours > 0 {
		curtailedHours.WithLabelValues(strategy).Add(float64(hours))
	}
}

// AddMonteCarloIterations counts simulated iterations.
func AddMonteCarloIterations(n int) {
	monteCarloIterations.Add(float64(n))
}

// ExternalFallback counts a fallback taken for service.
func ExternalFallback(service string) {
	externalFallbacks.WithLabelValues(service).Inc()
}
