package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aitools_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aitools_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route"},
	)

	// Gate decisions: allowed_pro, allowed_free, denied, error
	GateDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aitools_gate_decisions_total",
			Help: "Usage gate decisions by feature and outcome",
		},
		[]string{"feature", "decision"},
	)

	UsageRecordedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aitools_usage_recorded_total",
			Help: "Metered calls recorded against the free tier, by feature and result",
		},
		[]string{"feature", "result"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aitools_upstream_calls_total",
			Help: "Calls to generative AI providers by provider, operation and outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aitools_upstream_call_duration_seconds",
			Help:    "Latency of generative AI provider calls",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 50, 120, 300},
		},
		[]string{"provider", "operation"},
	)

	ImageCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aitools_image_cache_total",
			Help: "Image cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

// RecordGateDecision counts one gate outcome.
func RecordGateDecision(feature, decision string) {
	GateDecisionsTotal.WithLabelValues(feature, decision).Inc()
}

// RecordUsage counts one recorder write.
func RecordUsage(feature string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UsageRecordedTotal.WithLabelValues(feature, result).Inc()
}

// RecordUpstreamCall counts one provider call and observes its latency.
func RecordUpstreamCall(provider, operation, outcome string, seconds float64) {
	UpstreamCallsTotal.WithLabelValues(provider, operation, outcome).Inc()
	UpstreamCallDuration.WithLabelValues(provider, operation).Observe(seconds)
}

// RecordImageCache counts one cache lookup.
func RecordImageCache(result string) {
	ImageCacheTotal.WithLabelValues(result).Inc()
}
