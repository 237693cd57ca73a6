package lights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/business/automation"
	"smartlights/business/behavior"
	"smartlights/domain"
)

type memoryActivityRepo struct {
	entries []domain.ActivityLog
}

func (r *memoryActivityRepo) Save(_ context.Context, entry domain.ActivityLog) (domain.ActivityLog, error) {
	entry.ID = "test-id"
	r.entries = append(r.entries, entry)
	return entry, nil
}

func newTestService() (*Service, *automation.Store, *behavior.Learner, *memoryActivityRepo) {
	store := automation.NewStore(nil)
	learner := behavior.NewLearner(behavior.DefaultConfig())
	activity := &memoryActivityRepo{}
	svc := NewService(store, learner, activity, nil, nil)
	return svc, store, learner, activity
}

func TestToggleOnAndOff(t *testing.T) {
	svc, _, _, activity := newTestService()
	ctx := context.Background()

	state, err := svc.Toggle(ctx, domain.RoomKitchen, "admin", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, domain.LightOn, state.Status)
	assert.Equal(t, 80, state.Brightness) // default when none set

	state, err = svc.Toggle(ctx, domain.RoomKitchen, "admin", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, domain.LightOff, state.Status)
	assert.Zero(t, state.Brightness)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, "light_toggle", activity.entries[0].Action)
	assert.Equal(t, domain.RoomKitchen, activity.entries[0].Room)
}

func TestToggleUnknownRoom(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Toggle(context.Background(), "garage", "admin", "")
	assert.Error(t, err)
}

func TestSetBrightnessFeedsLearner(t *testing.T) {
	svc, _, learner, _ := newTestService()

	_, err := svc.SetBrightness(context.Background(), domain.RoomBedroom, 60, "alice", "")
	require.NoError(t, err)

	bucket := domain.TimeBucketFor(time.Now())
	assert.InDelta(t, 60.0, learner.GetUserPreferences("alice", domain.RoomBedroom, bucket), 1e-9)
}

func TestSetBrightnessValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.SetBrightness(context.Background(), domain.RoomBedroom, 150, "admin", "")
	assert.Error(t, err)

	state, err := svc.SetBrightness(context.Background(), domain.RoomBedroom, 0, "admin", "")
	require.NoError(t, err)
	assert.Equal(t, domain.LightOff, state.Status)
}

func TestSetColorTemperature(t *testing.T) {
	svc, store, _, _ := newTestService()

	state, err := svc.SetColorTemperature(context.Background(), domain.RoomOffice, "cool", "admin", "")
	require.NoError(t, err)
	assert.Equal(t, "cool", state.ColorTemperature)

	stored, _ := store.Get(domain.RoomOffice)
	assert.Equal(t, "cool", stored.ColorTemperature)

	_, err = svc.SetColorTemperature(context.Background(), domain.RoomOffice, "purple", "admin", "")
	assert.Error(t, err)
}

func TestBulkControl(t *testing.T) {
	svc, _, _, activity := newTestService()

	states, err := svc.Bulk(context.Background(), domain.LightOn, 90, "admin", "")
	require.NoError(t, err)
	require.Len(t, states, len(domain.Rooms))
	for room, state := range states {
		assert.Equal(t, domain.LightOn, state.Status, room)
		assert.Equal(t, 90, state.Brightness, room)
	}

	states, err = svc.Bulk(context.Background(), domain.LightOff, 0, "admin", "")
	require.NoError(t, err)
	for _, state := range states {
		assert.Equal(t, domain.LightOff, state.Status)
	}

	_, err = svc.Bulk(context.Background(), "dim", 50, "admin", "")
	assert.Error(t, err)

	// one log entry per bulk call
	assert.Len(t, activity.entries, 2)
}
