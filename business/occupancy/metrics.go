package occupancy

import "github.com/prometheus/client_golang/prometheus"

var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "occupancy_predictions_total",
			Help: "Count of occupancy predictions by room.",
		},
		[]string{"room"},
	)

	TrainingRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "occupancy_training_runs_total",
			Help: "Count of completed batch training runs.",
		},
	)

	OnlineRetrainsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "occupancy_online_retrains_total",
			Help: "Count of retrains triggered from the online-learning buffer.",
		},
	)
)

func init() {
	prometheus.MustRegister(PredictionsTotal, TrainingRunsTotal, OnlineRetrainsTotal)
}
