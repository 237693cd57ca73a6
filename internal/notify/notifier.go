package notify

import "smartlights/domain"

// Notifier fans decision-engine events out to interested transports. All
// methods are fire-and-forget: implementations log failures and never block
// or propagate errors back into the engine.
type Notifier interface {
	LightChanged(room string, state domain.LightState)
	ScheduleExecuted(room, action string, brightness int)
	AIModeChanged(enabled bool)
	Prediction(room string, probability float64, occupied bool)
	ActivityLogged(entry domain.ActivityLog)
}

// Noop discards everything. Used in tests and when no transport is
// configured.
type Noop struct{}

func (Noop) LightChanged(string, domain.LightState) {}
func (Noop) ScheduleExecuted(string, string, int)   {}
func (Noop) AIModeChanged(bool)                     {}
func (Noop) Prediction(string, float64, bool)       {}
func (Noop) ActivityLogged(domain.ActivityLog)      {}

// Multi fans out to several notifiers in order.
type Multi []Notifier

var (
	_ Notifier = Noop{}
	_ Notifier = Multi{}
	_ Notifier = (*Hub)(nil)
	_ Notifier = (*MQTTPublisher)(nil)
)

func (m Multi) LightChanged(room string, state domain.LightState) {
	for _, n := range m {
		n.LightChanged(room, state)
	}
}

func (m Multi) ScheduleExecuted(room, action string, brightness int) {
	for _, n := range m {
		n.ScheduleExecuted(room, action, brightness)
	}
}

func (m Multi) AIModeChanged(enabled bool) {
	for _, n := range m {
		n.AIModeChanged(enabled)
	}
}

func (m Multi) Prediction(room string, probability float64, occupied bool) {
	for _, n := range m {
		n.Prediction(room, probability, occupied)
	}
}

func (m Multi) ActivityLogged(entry domain.ActivityLog) {
	for _, n := range m {
		n.ActivityLogged(entry)
	}
}
