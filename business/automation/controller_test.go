package automation

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/business/behavior"
	"smartlights/business/brightness"
	"smartlights/business/occupancy"
	"smartlights/domain"
)

type recordingNotifier struct {
	mu          sync.Mutex
	lightEvents []string
	predictions []string
	modeChanges []bool
}

func (n *recordingNotifier) LightChanged(room string, state domain.LightState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lightEvents = append(n.lightEvents, room+":"+state.Status)
}

func (n *recordingNotifier) Prediction(room string, probability float64, occupied bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.predictions = append(n.predictions, room)
}

func (n *recordingNotifier) AIModeChanged(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.modeChanges = append(n.modeChanges, enabled)
}

type staticEnvironment struct {
	weather *domain.WeatherSnapshot
	light   float64
}

func (e *staticEnvironment) Current() *domain.WeatherSnapshot { return e.weather }
func (e *staticEnvironment) NaturalLight(time.Time) float64   { return e.light }

func newTestController(notifier *recordingNotifier) (*Controller, *Store, *occupancy.Predictor) {
	predictor := occupancy.NewPredictor(occupancy.DefaultConfig(), nil)
	optimizer := brightness.NewOptimizer(brightness.DefaultConfig())
	learner := behavior.NewLearner(behavior.DefaultConfig())
	store := NewStore(notifier)
	env := &staticEnvironment{}

	c := NewController(DefaultConfig(), predictor, optimizer, learner, store, env, notifier)
	return c, store, predictor
}

func trainOccupied(t *testing.T, predictor *occupancy.Predictor) {
	t.Helper()

	samples := make([]domain.OccupancySample, 0, 60)
	base := time.Now().Add(-30 * 24 * time.Hour)
	for i := 0; i < 60; i++ {
		samples = append(samples, domain.OccupancySample{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Room:      domain.Rooms[i%len(domain.Rooms)],
			Occupied:  true,
		})
	}
	// all-positive labels make the trained model predict occupied everywhere
	acc := predictor.Train(t.Context(), samples)
	require.Greater(t, acc, 0.9)
}

func TestRunOnceNoOpWhileDisabled(t *testing.T) {
	notifier := &recordingNotifier{}
	c, store, _ := newTestController(notifier)

	c.RunOnce(time.Now())

	assert.Empty(t, notifier.predictions)
	state, _ := store.Get(domain.RoomKitchen)
	assert.Equal(t, domain.LightOff, state.Status)
}

func TestRunOnceTurnsLightsOnWhenOccupied(t *testing.T) {
	notifier := &recordingNotifier{}
	c, store, predictor := newTestController(notifier)
	trainOccupied(t, predictor)
	c.SetEnabled(true)

	c.RunOnce(time.Now())

	for _, room := range domain.Rooms {
		state, ok := store.Get(room)
		require.True(t, ok)
		assert.Equal(t, domain.LightOn, state.Status, room)
		assert.GreaterOrEqual(t, state.Brightness, 15)
		assert.LessOrEqual(t, state.Brightness, 100)
	}
	assert.Len(t, notifier.predictions, len(domain.Rooms))
	assert.Len(t, notifier.lightEvents, len(domain.Rooms))
}

func TestRunOnceLeavesLitRoomsAlone(t *testing.T) {
	notifier := &recordingNotifier{}
	c, _, predictor := newTestController(notifier)
	trainOccupied(t, predictor)
	c.SetEnabled(true)

	c.RunOnce(time.Now())
	firstEvents := len(notifier.lightEvents)

	// second tick predicts occupied again but everything is already on
	c.RunOnce(time.Now())
	assert.Len(t, notifier.lightEvents, firstEvents)
}

func TestRunOnceUntrainedPredictorKeepsLightsOff(t *testing.T) {
	notifier := &recordingNotifier{}
	c, store, _ := newTestController(notifier)
	c.SetEnabled(true)

	// untrained predictions are exactly 0.5, not above the threshold
	c.RunOnce(time.Now())

	for _, room := range domain.Rooms {
		state, _ := store.Get(room)
		assert.Equal(t, domain.LightOff, state.Status, room)
	}
	assert.Empty(t, notifier.lightEvents)
}

func TestSetEnabledNotifiesOnTransitionOnly(t *testing.T) {
	notifier := &recordingNotifier{}
	c, _, _ := newTestController(notifier)

	assert.False(t, c.SetEnabled(true))
	assert.True(t, c.SetEnabled(true))
	assert.True(t, c.SetEnabled(false))

	assert.Equal(t, []bool{true, false}, notifier.modeChanges)
}

func TestObserveOccupancySetsMotionFlag(t *testing.T) {
	notifier := &recordingNotifier{}
	c, store, _ := newTestController(notifier)

	c.ObserveOccupancy(domain.RoomBedroom, true, time.Now())

	state, _ := store.Get(domain.RoomBedroom)
	assert.True(t, state.MotionDetected)
}

func TestStoreApplyUnknownRoom(t *testing.T) {
	store := NewStore(nil)
	_, err := store.Apply("garage", func(*domain.LightState) {})
	assert.Error(t, err)
}

func TestStoreSetLight(t *testing.T) {
	notifier := &recordingNotifier{}
	store := NewStore(notifier)

	require.NoError(t, store.SetLight(domain.RoomOffice, true, 75))
	state, _ := store.Get(domain.RoomOffice)
	assert.Equal(t, domain.LightOn, state.Status)
	assert.Equal(t, 75, state.Brightness)

	require.NoError(t, store.SetLight(domain.RoomOffice, false, 0))
	state, _ = store.Get(domain.RoomOffice)
	assert.Equal(t, domain.LightOff, state.Status)
	assert.Zero(t, state.Brightness)

	assert.Equal(t, []string{"office:on", "office:off"}, notifier.lightEvents)
}

func TestStoreLoadDoesNotNotify(t *testing.T) {
	notifier := &recordingNotifier{}
	store := NewStore(notifier)

	store.Load(map[string]domain.LightState{
		domain.RoomKitchen: {Status: domain.LightOn, Brightness: 40, ColorTemperature: "cool"},
	})

	state, _ := store.Get(domain.RoomKitchen)
	assert.Equal(t, 40, state.Brightness)
	assert.Empty(t, notifier.lightEvents)
}
