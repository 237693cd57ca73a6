package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the AI status / optimize HTTP handlers
	AIStatusLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ai_status_latency_seconds",
		Help:    "Latency of the AI status handler",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of light control requests served
	LightControlRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "light_control_requests_total",
		Help: "Total number of light control requests by action",
	}, []string{"action"})
)

func Init() {
	prometheus.MustRegister(
		AIStatusLatency,
		LightControlRequests,
	)
}
