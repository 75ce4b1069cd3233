package saga

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"
)

// Metrics collects saga execution metrics. A nil *Metrics is a valid no-op
// collector so tests and tools can run without a registry.
type Metrics struct {
	executions    *prometheus.CounterVec
	compensations *prometheus.CounterVec
	duration      prometheus.Histogram
}

// NewMetrics creates and registers saga metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_system",
			Subsystem: "saga",
			Name:      "executions_total",
			Help:      "Total number of saga executions by terminal result.",
		}, []string{"result"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_system",
			Subsystem: "saga",
			Name:      "compensations_total",
			Help:      "Total number of compensating actions invoked, by step.",
		}, []string{"step"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "order_system",
			Subsystem: "saga",
			Name:      "execution_duration_seconds",
			Help:      "Wall-clock duration of saga executions.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.executions, m.compensations, m.duration)
	return m
}

func (m *Metrics) observeExecution(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.executions.WithLabelValues(result).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeCompensation(step string) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(step).Inc()
}
