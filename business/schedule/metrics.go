package schedule

import "github.com/prometheus/client_golang/prometheus"

var (
	SchedulesGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_generations_total",
			Help: "Count of generated room schedules.",
		},
		[]string{"room"},
	)

	EventsExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "schedule_events_executed_total",
			Help: "Count of executed schedule events by room and action.",
		},
		[]string{"room", "action"},
	)
)

func init() {
	prometheus.MustRegister(SchedulesGenerated, EventsExecuted)
}
