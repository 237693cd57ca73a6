package brightness

import "github.com/prometheus/client_golang/prometheus"

var OptimizationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "brightness_optimizations_total",
		Help: "Count of brightness optimizations by room.",
	},
	[]string{"room"},
)

func init() {
	prometheus.MustRegister(OptimizationsTotal)
}
