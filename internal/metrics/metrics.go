package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search modes
const (
	ModeScout    = "scout"
	ModeWildcard = "wildcard"
)

// Search and fetch outcomes
const (
	OutcomeFound     = "found"
	OutcomeEmpty     = "empty"
	OutcomeCancelled = "cancelled"
	OutcomeError     = "error"
	OutcomeSuccess   = "success"
)

// Recorder owns the service's Prometheus collectors on a private registry.
// All methods are safe on a nil Recorder, which records nothing.
type Recorder struct {
	registry *prometheus.Registry

	scoutRuns         *prometheus.CounterVec
	scoutDuration     *prometheus.HistogramVec
	nodesExplored     prometheus.Histogram
	feedFetches       *prometheus.CounterVec
	transfersExecuted *prometheus.CounterVec
}

// NewRecorder creates and registers every collector
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		scoutRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squad_scout_runs_total",
			Help: "Transfer searches by mode and outcome.",
		}, []string{"mode", "outcome"}),
		scoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "squad_scout_duration_seconds",
			Help:    "Wall time of transfer searches.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"mode"}),
		nodesExplored: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "squad_scout_nodes_explored",
			Help:    "Search nodes visited per scout run.",
			Buckets: prometheus.ExponentialBuckets(10, 10, 8),
		}),
		feedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squad_feed_fetch_total",
			Help: "Player feed fetches by outcome.",
		}, []string{"outcome"}),
		transfersExecuted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "squad_transfers_executed_total",
			Help: "Roster membership changes by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.scoutRuns,
		r.scoutDuration,
		r.nodesExplored,
		r.feedFetches,
		r.transfersExecuted,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordSearch tracks one scout or wildcard run
func (r *Recorder) RecordSearch(mode, outcome string, duration time.Duration, explored int64) {
	if r == nil {
		return
	}
	r.scoutRuns.WithLabelValues(mode, outcome).Inc()
	r.scoutDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if mode == ModeScout && explored > 0 {
		r.nodesExplored.Observe(float64(explored))
	}
}

// RecordFeedFetch tracks one feed load
func (r *Recorder) RecordFeedFetch(err error) {
	if r == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.feedFetches.WithLabelValues(outcome).Inc()
}

// RecordTransfer tracks one executed roster change
func (r *Recorder) RecordTransfer(kind string) {
	if r == nil {
		return
	}
	r.transfersExecuted.WithLabelValues(kind).Inc()
}
