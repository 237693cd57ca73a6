package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/domain"
)

func TestGenerateScheduleFromTemplates(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	sched := o.GenerateSchedule(domain.RoomLivingRoom, nil, nil)

	assert.True(t, sched.Enabled)
	assert.True(t, sched.SunriseSunset)
	assert.False(t, sched.VacationMode)
	require.Len(t, sched.DailySchedule, 7)

	monday := sched.DailySchedule["monday"]
	require.Len(t, monday, 8) // four periods, paired on/off
	assert.Equal(t, domain.ScheduleEvent{Time: "06:00", Action: domain.LightOn, Brightness: 80}, monday[0])
	assert.Equal(t, domain.ScheduleEvent{Time: "09:00", Action: domain.LightOff}, monday[1])

	saturday := sched.DailySchedule["saturday"]
	require.Len(t, saturday, 8)
	assert.Equal(t, "08:00", saturday[0].Time)
	assert.Equal(t, 70, saturday[0].Brightness)
}

func TestGenerateScheduleEventsArePaired(t *testing.T) {
	o := NewOptimizer(DefaultConfig())
	sched := o.GenerateSchedule(domain.RoomKitchen, nil, nil)

	for _, day := range domain.Weekdays {
		events := sched.DailySchedule[day]
		require.NotEmpty(t, events)
		for i := 0; i < len(events); i += 2 {
			assert.Equal(t, domain.LightOn, events[i].Action)
			assert.Equal(t, domain.LightOff, events[i+1].Action)
			assert.Zero(t, events[i+1].Brightness)
		}
	}
}

func TestGenerateSchedulePreferenceOverlay(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	sched := o.GenerateSchedule(domain.RoomBedroom, nil, map[string]int{"evening": 40})

	monday := sched.DailySchedule["monday"]
	// evening is the third period
	assert.Equal(t, "18:00", monday[4].Time)
	assert.Equal(t, 40, monday[4].Brightness)
	// other periods keep template brightness
	assert.Equal(t, 80, monday[0].Brightness)
}

func TestGenerateSchedulePeakShift(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	patterns := []domain.UsageEvent{
		{Timestamp: day.Add(7 * time.Hour), Action: "on"},
		{Timestamp: day.Add(20 * time.Hour), Action: "on"},
	}

	sched := o.GenerateSchedule(domain.RoomOffice, patterns, nil)

	monday := sched.DailySchedule["monday"]
	// peak start 07 is inside the morning period [6,9): start moves to 06:00
	assert.Equal(t, "06:00", monday[0].Time)
	// peak end 20 is inside the evening period [18,22): end moves to 21:00
	assert.Equal(t, "21:00", monday[5].Time)
	// the day period contains neither peak bound and is untouched
	assert.Equal(t, "09:00", monday[2].Time)
	assert.Equal(t, "18:00", monday[3].Time)
}

func TestGenerateSchedulePeakShiftClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PeakShiftHours = 2
	o := NewOptimizer(cfg)

	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	patterns := []domain.UsageEvent{
		{Timestamp: day.Add(1 * time.Hour), Action: "on"},
		{Timestamp: day.Add(23 * time.Hour), Action: "on"},
	}

	sched := o.GenerateSchedule(domain.RoomBathroom, patterns, nil)

	monday := sched.DailySchedule["monday"]
	// both peak hours fall in the wrapping night period [22,6); its start
	// clamps at 0-2=0... shifted from hour 1, its end extends from hour 23
	night := monday[6:]
	assert.Equal(t, "00:00", night[0].Time)
	assert.Equal(t, "23:00", night[1].Time)
}

func TestPeakWindow(t *testing.T) {
	_, _, ok := peakWindow(nil)
	assert.False(t, ok)

	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	start, end, ok := peakWindow([]domain.UsageEvent{
		{Timestamp: day.Add(9 * time.Hour)},
		{Timestamp: day.Add(14 * time.Hour)},
		{Timestamp: day.Add(11 * time.Hour)},
	})
	require.True(t, ok)
	assert.Equal(t, 9, start)
	assert.Equal(t, 14, end)
}

func TestFallbackSchedule(t *testing.T) {
	o := NewOptimizer(DefaultConfig())
	sched := o.fallbackSchedule()

	assert.False(t, sched.Enabled)
	require.Len(t, sched.DailySchedule, 7)
	// every day uses the weekday template
	assert.Equal(t, sched.DailySchedule["monday"], sched.DailySchedule["sunday"])
}
