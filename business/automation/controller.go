package automation

import (
	"sync"
	"time"

	"smartlights/business/behavior"
	"smartlights/business/brightness"
	"smartlights/business/occupancy"
	"smartlights/domain"
	"smartlights/pkg/logger"
)

// Environment supplies cached weather context. Implementations must not
// block; the automation loop performs no network I/O.
type Environment interface {
	Current() *domain.WeatherSnapshot
	NaturalLight(now time.Time) float64
}

// DecisionNotifier receives automation events after they are applied.
type DecisionNotifier interface {
	Prediction(room string, probability float64, occupied bool)
	AIModeChanged(enabled bool)
}

// Controller drives occupancy-based on/off decisions. RunOnce processes one
// tick; an external ticker owns the cadence.
type Controller struct {
	cfg       Config
	predictor *occupancy.Predictor
	optimizer *brightness.Optimizer
	learner   *behavior.Learner
	store     *Store
	env       Environment
	notifier  DecisionNotifier

	mu      sync.Mutex
	enabled bool
}

func NewController(
	cfg Config,
	predictor *occupancy.Predictor,
	optimizer *brightness.Optimizer,
	learner *behavior.Learner,
	store *Store,
	env Environment,
	notifier DecisionNotifier,
) *Controller {
	return &Controller{
		cfg:       cfg,
		predictor: predictor,
		optimizer: optimizer,
		learner:   learner,
		store:     store,
		env:       env,
		notifier:  notifier,
	}
}

func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled flips AI mode and returns the previous value.
func (c *Controller) SetEnabled(enabled bool) bool {
	c.mu.Lock()
	previous := c.enabled
	c.enabled = enabled
	c.mu.Unlock()

	if previous != enabled && c.notifier != nil {
		c.notifier.AIModeChanged(enabled)
	}
	return previous
}

// RunOnce processes one automation tick across all rooms. A failure in one
// room is logged and does not stop the others. No-op while AI mode is off.
func (c *Controller) RunOnce(now time.Time) {
	if !c.Enabled() {
		return
	}

	weather := c.env.Current()
	for _, room := range domain.Rooms {
		c.runRoom(room, now, weather)
	}
}

func (c *Controller) runRoom(room string, now time.Time, weather *domain.WeatherSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("automation tick panicked", "panic", r, "room", room)
		}
	}()

	activity := &domain.ActivitySnapshot{
		Probability: c.learner.PredictUserBehavior(c.cfg.User, room, now),
	}
	probability := c.predictor.Predict(now, room, weather, activity)
	occupied := probability > c.cfg.OccupancyThreshold

	if c.notifier != nil {
		c.notifier.Prediction(room, probability, occupied)
	}

	state, ok := c.store.Get(room)
	if !ok {
		return
	}

	if occupied {
		if state.Status == domain.LightOn {
			return
		}

		preference := c.learner.GetUserPreferences(c.cfg.User, room, domain.TimeBucketFor(now))
		target := c.optimizer.Optimize(
			room,
			now,
			c.env.NaturalLight(now),
			probability,
			weather,
			&preference,
		)

		if err := c.store.SetLight(room, true, target); err != nil {
			logger.Error("failed to turn on light", err, "room", room)
			return
		}
		DecisionsTotal.WithLabelValues(room, domain.LightOn).Inc()
		logger.Info("automation turned light on",
			"room", room,
			"brightness", target,
			"probability", probability,
		)
		return
	}

	if state.Status != domain.LightOn {
		return
	}
	if err := c.store.SetLight(room, false, 0); err != nil {
		logger.Error("failed to turn off light", err, "room", room)
		return
	}
	DecisionsTotal.WithLabelValues(room, domain.LightOff).Inc()
	logger.Info("automation turned light off", "room", room, "probability", probability)
}

// ObserveOccupancy feeds an actual occupancy observation back into the
// predictor and mirrors the motion flag on the shared state.
func (c *Controller) ObserveOccupancy(room string, occupied bool, now time.Time) {
	activity := &domain.ActivitySnapshot{
		Probability: c.learner.PredictUserBehavior(c.cfg.User, room, now),
	}
	c.predictor.OnlineLearn(occupied, now, room, c.env.Current(), activity)

	if _, err := c.store.Apply(room, func(state *domain.LightState) {
		state.MotionDetected = occupied
	}); err != nil {
		logger.Warn("failed to record motion state", "room", room, "error", err)
	}
}
