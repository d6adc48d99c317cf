package validate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// candidatesTotal counts candidates by how they resolved.
	candidatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kousei_validate_candidates_total",
		Help: "Validated candidates by outcome",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kousei_validate_run_duration_seconds",
		Help:    "Duration of a ValidateCandidates call",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kousei_validate_request_duration_seconds",
		Help:    "LLM request latency per batch",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	}, []string{"result"})

	batchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kousei_validate_batch_failures_total",
		Help: "Failed validation batches by reason",
	}, []string{"reason"})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kousei_validate_cache_lookups_total",
		Help: "Verdict cache lookups by result",
	}, []string{"result"})

	cancelledRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kousei_validate_cancelled_runs_total",
		Help: "Validation runs that ended by cancellation",
	})
)

func observeRun(res Result, d time.Duration) {
	runDuration.Observe(d.Seconds())
	candidatesTotal.WithLabelValues("confirmed").Add(float64(res.Stats.Confirmed))
	candidatesTotal.WithLabelValues("rejected").Add(float64(res.Stats.Rejected))
	candidatesTotal.WithLabelValues("unverified").Add(float64(res.Stats.Unverified))
	candidatesTotal.WithLabelValues("dropped").Add(float64(res.Stats.Dropped))
	candidatesTotal.WithLabelValues("discarded").Add(float64(res.Stats.Discarded))
	if res.Cancelled {
		cancelledRuns.Inc()
	}
}

func observeRequest(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	requestDuration.WithLabelValues(result).Observe(d.Seconds())
}

func recordBatchFailure(reason string) {
	batchFailures.WithLabelValues(reason).Inc()
}

func recordCache(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}
