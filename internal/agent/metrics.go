package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkepool",
			Subsystem: "agent",
			Name:      "reconcile_total",
			Help:      "Total number of node pool reconciliations by action and result",
		},
		[]string{"action", "result"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gkepool",
			Subsystem: "agent",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of node pool reconciliations in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
		},
		[]string{"action"},
	)

	driftedFields = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gkepool",
			Subsystem: "agent",
			Name:      "drifted_fields",
			Help:      "Number of fields that differed from the declaration in the last pass",
		},
		[]string{"node_pool"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		driftedFields,
	)
}

func recordReconcile(r Result) {
	result := "success"
	if r.Err != nil {
		result = "error"
	}
	reconcileTotal.WithLabelValues(string(r.Action), result).Inc()
	reconcileDuration.WithLabelValues(string(r.Action)).Observe(r.Duration.Seconds())
	if r.Err == nil {
		driftedFields.WithLabelValues(r.NodePool).Set(float64(len(r.Changes)))
	}
}
