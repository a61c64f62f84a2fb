package simulator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "did_sandbox"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Operation names used as metric labels and log fields.
const (
	OperationGenerate = "generate"
	OperationIssue    = "issue"
	OperationVerify   = "verify"
	OperationResolve  = "resolve"
)

type metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of simulated identity operations.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of simulated identity operations, including artificial latency.",
			Buckets:   []float64{0.01, 0.1, 0.25, 0.5, 1, 1.5, 2, 5},
		}, []string{"operation"}),
	}

	reg.MustRegister(m.operations, m.duration)

	return m
}

func (m *metrics) observe(operation string, start time.Time, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}

	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
