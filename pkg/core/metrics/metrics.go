// Package metrics provides Prometheus metrics for filing loads and statement queries.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"xbrl_statements/pkg/core/xbrl"
)

// Query outcomes.
const (
	OutcomeResolved   = "resolved"
	OutcomeNoConcepts = "no_concepts"
	OutcomeNoContexts = "no_contexts"
	OutcomeError      = "error"
)

// Metrics holds all Prometheus metrics of the statement engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsLoaded *prometheus.CounterVec
	FactsIndexed    prometheus.Counter
	FactsSkipped    *prometheus.CounterVec
	QueriesTotal    *prometheus.CounterVec
	RowsEmitted     prometheus.Counter
	QueryDuration   prometheus.Histogram
	StoreOperations *prometheus.CounterVec
}

// New creates and registers all metrics on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.DocumentsLoaded = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xbrl_documents_loaded_total",
			Help: "Total number of filing documents loaded, by kind",
		},
		[]string{"kind"},
	)

	m.FactsIndexed = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "xbrl_facts_indexed_total",
			Help: "Total number of facts indexed from instance documents",
		},
	)

	m.FactsSkipped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xbrl_facts_skipped_total",
			Help: "Facts dropped at load time, by reason",
		},
		[]string{"reason"},
	)

	m.QueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xbrl_queries_total",
			Help: "Total number of statement queries, by outcome",
		},
		[]string{"outcome"},
	)

	m.RowsEmitted = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "xbrl_rows_emitted_total",
			Help: "Total number of statement rows produced",
		},
	)

	m.QueryDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xbrl_query_duration_seconds",
			Help:    "Duration of statement queries in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	m.StoreOperations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xbrl_store_operations_total",
			Help: "Statement persistence operations, by backend and status",
		},
		[]string{"backend", "status"},
	)

	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome classifies a Resolve error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeResolved
	case errors.Is(err, xbrl.ErrNoConcepts):
		return OutcomeNoConcepts
	case errors.Is(err, xbrl.ErrNoContexts):
		return OutcomeNoContexts
	default:
		return OutcomeError
	}
}

// ObserveFiling records the documents and facts of a freshly loaded filing.
func (m *Metrics) ObserveFiling(f *xbrl.Filing) {
	if m == nil || f == nil {
		return
	}
	for _, kind := range []string{"labels", "presentation", "instance"} {
		m.DocumentsLoaded.WithLabelValues(kind).Inc()
	}
	repo := f.Repository()
	m.FactsIndexed.Add(float64(repo.FactCount()))
	m.FactsSkipped.WithLabelValues("namespace").Add(float64(repo.SkippedNamespace))
	m.FactsSkipped.WithLabelValues("context").Add(float64(repo.SkippedContext))
}

// ObserveQuery records one query: its outcome, latency and the rows it produced.
func (m *Metrics) ObserveQuery(err error, rows int, d time.Duration) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(Outcome(err)).Inc()
	m.QueryDuration.Observe(d.Seconds())
	m.RowsEmitted.Add(float64(rows))
}

// ObserveStore records a persistence attempt.
func (m *Metrics) ObserveStore(backend string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreOperations.WithLabelValues(backend, status).Inc()
}
