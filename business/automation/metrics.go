package automation

import "github.com/prometheus/client_golang/prometheus"

var DecisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "automation_decisions_total",
		Help: "Count of automation on/off decisions by room.",
	},
	[]string{"room", "action"},
)

func init() {
	prometheus.MustRegister(DecisionsTotal)
}
