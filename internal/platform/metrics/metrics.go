package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the snapshot service.
type Metrics struct {
	registry *prometheus.Registry

	SnapshotsComputed *prometheus.CounterVec
	SnapshotDuration  prometheus.Histogram
	RuleEvaluations   *prometheus.CounterVec
	AuditPublishError prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SnapshotsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "renalcare",
			Name:      "snapshots_computed_total",
			Help:      "Number of decision snapshots computed, labeled by risk tier and action level.",
		}, []string{"tier", "action"}),
		SnapshotDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "renalcare",
			Name:      "snapshot_duration_seconds",
			Help:      "Wall time spent assembling and computing a snapshot.",
			Buckets:   prometheus.DefBuckets,
		}),
		RuleEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "renalcare",
			Name:      "rule_evaluations_total",
			Help:      "Number of rule tree evaluations, labeled by outcome.",
		}, []string{"outcome"}),
		AuditPublishError: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "renalcare",
			Name:      "audit_publish_errors_total",
			Help:      "Number of audit events that failed to publish.",
		}),
	}
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
