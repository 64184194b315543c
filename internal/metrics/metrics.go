// Package metrics exposes prometheus instrumentation for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal       *prometheus.CounterVec
	VerificationsTotal  *prometheus.CounterVec
	ContradictionsTotal prometheus.Counter
	AnalysisDuration    prometheus.Histogram
	KBLoadWarnings      prometheus.Counter
	KBEntities          prometheus.Gauge
	KBRelationships     prometheus.Gauge
}

// New creates the metrics registry and collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()

	return &Metrics{
		registry: registry,

		AnalysesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "greenveil_analyses_total",
				Help: "Total analyses completed, by severity band",
			},
			[]string{"severity"},
		),
		VerificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "greenveil_verifications_total",
				Help: "Certification verifications, by status",
			},
			[]string{"status"},
		),
		ContradictionsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "greenveil_contradictions_total",
				Help: "Contradiction records found across all analyses",
			},
		),
		AnalysisDuration: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "greenveil_analysis_duration_seconds",
				Help:    "Duration of single-bundle analyses",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
		KBLoadWarnings: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "greenveil_kb_load_warnings_total",
				Help: "Malformed reference-data records skipped during load",
			},
		),
		KBEntities: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "greenveil_kb_entities",
				Help: "Entities in the current knowledge-graph snapshot",
			},
		),
		KBRelationships: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "greenveil_kb_relationships",
				Help: "Relationships in the current knowledge-graph snapshot",
			},
		),
	}
}

// Registry returns the underlying registry for exposition by callers
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
