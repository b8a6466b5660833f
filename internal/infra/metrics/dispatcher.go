package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		dispatchOutcomeTotal,
		dispatchBatchSize,
		dispatchAttemptLatencyMs,
	)
}

var (
	dispatchOutcomeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_outcome_total",
			Help: "Terminal outcome of each dispatch attempt.",
		},
		[]string{"outcome"}, // sent | already_applied | retry | error | parked | skipped
	)

	dispatchBatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_batch_size",
			Help:    "Number of queued applications claimed per dispatcher pass.",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		},
	)

	dispatchAttemptLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_attempt_latency_ms",
			Help:    "Latency of a single apply attempt against the job board.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2000, 5000, 10000},
		},
	)
)

func IncDispatchOutcome(outcome string) {
	dispatchOutcomeTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObserveDispatchBatch(n int) {
	dispatchBatchSize.Observe(float64(n))
}

func ObserveApplyLatency(ms int64) {
	dispatchAttemptLatencyMs.Observe(float64(ms))
}
