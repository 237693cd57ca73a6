package behavior

import "github.com/prometheus/client_golang/prometheus"

var ActivityEventsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "behavior_activity_events_total",
		Help: "Count of learned light interactions by room.",
	},
	[]string{"room"},
)

func init() {
	prometheus.MustRegister(ActivityEventsTotal)
}
