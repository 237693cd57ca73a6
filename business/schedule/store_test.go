package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/domain"
)

func TestStoreSetAndGet(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("office")
	assert.False(t, ok)

	sched := domain.EmptyRoomSchedule()
	sched.Enabled = true
	s.Set("office", sched)

	got, ok := s.Get("office")
	require.True(t, ok)
	assert.True(t, got.Enabled)
}

func TestStoreSchedulesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Set("kitchen", domain.EmptyRoomSchedule())

	all := s.Schedules()
	delete(all, "kitchen")

	_, ok := s.Get("kitchen")
	assert.True(t, ok)
}

func TestStoreLoadReplaces(t *testing.T) {
	s := NewStore()
	s.Set("kitchen", domain.EmptyRoomSchedule())

	s.Load(map[string]domain.RoomSchedule{
		"bedroom": domain.EmptyRoomSchedule(),
	})

	_, ok := s.Get("kitchen")
	assert.False(t, ok)
	_, ok = s.Get("bedroom")
	assert.True(t, ok)
}
