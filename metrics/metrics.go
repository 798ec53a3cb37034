// Package metrics provides Prometheus metrics for visitboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CounterIncrementsTotal counts increment-and-fetch calls by outcome.
	CounterIncrementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitboard",
			Name:      "counter_increments_total",
			Help:      "Total number of hit counter increments",
		},
		[]string{"backend", "status"},
	)

	// CounterRetriesTotal counts attempts that failed transiently and were retried.
	CounterRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitboard",
			Name:      "counter_retries_total",
			Help:      "Total number of retried counter store attempts",
		},
		[]string{"backend"},
	)

	// CounterIncrementDuration measures increment-and-fetch latency including retries.
	CounterIncrementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visitboard",
			Name:      "counter_increment_duration_seconds",
			Help:      "Duration of hit counter increments in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
		[]string{"backend"},
	)

	// SummaryBuildsTotal counts summary page builds by outcome.
	SummaryBuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitboard",
			Name:      "summary_builds_total",
			Help:      "Total number of dataset summary builds",
		},
		[]string{"status"},
	)

	// ChartRendersTotal counts chart renders by outcome.
	ChartRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visitboard",
			Name:      "chart_renders_total",
			Help:      "Total number of survival chart renders",
		},
		[]string{"status"},
	)

	// CounterStoreStatus tracks counter store reachability.
	CounterStoreStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "visitboard",
			Name:      "counter_store_status",
			Help:      "Counter store status (1 = reachable, 0 = unreachable)",
		},
	)
)

// RecordIncrement records a finished increment-and-fetch call.
func RecordIncrement(backend, status string, duration float64) {
	CounterIncrementsTotal.WithLabelValues(backend, status).Inc()
	CounterIncrementDuration.WithLabelValues(backend).Observe(duration)
}

// RecordRetry records one retried attempt.
func RecordRetry(backend string) {
	CounterRetriesTotal.WithLabelValues(backend).Inc()
}

// RecordSummaryBuild records a summary build.
func RecordSummaryBuild(status string) {
	SummaryBuildsTotal.WithLabelValues(status).Inc()
}

// RecordChartRender records a chart render attempt.
func RecordChartRender(status string) {
	ChartRendersTotal.WithLabelValues(status).Inc()
}

// SetCounterStoreUp marks the counter store reachable or not.
func SetCounterStoreUp(up bool) {
	if up {
		CounterStoreStatus.Set(1)
		return
	}
	CounterStoreStatus.Set(0)
}
