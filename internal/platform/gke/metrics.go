package gke

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Operation results recorded by operationsTotal.
const (
	resultDone    = "done"
	resultFailed  = "failed"
	resultTimeout = "timeout"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkepool",
			Subsystem: "gke",
			Name:      "api_calls_total",
			Help:      "Total number of GKE API calls by method and HTTP status code",
		},
		[]string{"method", "code"},
	)

	apiLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gkepool",
			Subsystem: "gke",
			Name:      "api_latency_seconds",
			Help:      "Latency of GKE API calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6s
		},
		[]string{"method"},
	)

	operationPollsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "gkepool",
			Subsystem: "gke",
			Name:      "operation_polls_total",
			Help:      "Total number of long-running operation status fetches",
		},
	)

	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gkepool",
			Subsystem: "gke",
			Name:      "operations_total",
			Help:      "Total number of awaited long-running operations by result",
		},
		[]string{"result"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		apiCallsTotal,
		apiLatency,
		operationPollsTotal,
		operationsTotal,
	)
}

// recordAPICall records an API call. A zero status code means the request
// never got a response.
func recordAPICall(method string, statusCode int, duration time.Duration) {
	code := "error"
	if statusCode != 0 {
		code = strconv.Itoa(statusCode)
	}
	apiCallsTotal.WithLabelValues(method, code).Inc()
	apiLatency.WithLabelValues(method).Observe(duration.Seconds())
}

func recordOperation(result string) {
	operationsTotal.WithLabelValues(result).Inc()
}
