package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/domain"
)

type fakeScheduleSource struct {
	schedules map[string]domain.RoomSchedule
}

func (f *fakeScheduleSource) Schedules() map[string]domain.RoomSchedule {
	return f.schedules
}

type lightCall struct {
	Room       string
	On         bool
	Brightness int
}

type fakeLights struct {
	calls []lightCall
	err   map[string]error
}

func (f *fakeLights) SetLight(room string, on bool, brightness int) error {
	if err := f.err[room]; err != nil {
		return err
	}
	f.calls = append(f.calls, lightCall{Room: room, On: on, Brightness: brightness})
	return nil
}

type fakeWeather struct {
	snapshot *domain.WeatherSnapshot
}

func (f *fakeWeather) Current() *domain.WeatherSnapshot { return f.snapshot }

type passthroughAdjuster struct{}

func (passthroughAdjuster) AdjustForWeather(value int, _ *domain.WeatherSnapshot) int {
	return value
}

func kitchenAt(schedule map[string][]domain.ScheduleEvent) *fakeScheduleSource {
	return &fakeScheduleSource{
		schedules: map[string]domain.RoomSchedule{
			domain.RoomKitchen: {
				Enabled:       true,
				DailySchedule: schedule,
			},
		},
	}
}

// mondayAt returns a Monday timestamp at the given clock time.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2025, time.June, 2, hour, minute, 0, 0, time.UTC)
}

func TestExecutorFiresEventOncePerDay(t *testing.T) {
	lights := &fakeLights{}
	source := kitchenAt(map[string][]domain.ScheduleEvent{
		"monday": {{Time: "07:00", Action: domain.LightOn, Brightness: 80}},
	})
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	// a minute-granularity tick sweeping through 07:00-07:05
	for minute := 0; minute <= 5; minute++ {
		e.RunOnce(mondayAt(7, minute))
	}

	require.Len(t, lights.calls, 1)
	assert.Equal(t, lightCall{Room: domain.RoomKitchen, On: true, Brightness: 80}, lights.calls[0])

	// repeated ticks landing on 07:00 again the same day stay deduped
	for i := 0; i < 3; i++ {
		e.RunOnce(mondayAt(7, 0))
	}
	assert.Len(t, lights.calls, 1)
}

func TestExecutorFiresAgainNextDay(t *testing.T) {
	lights := &fakeLights{}
	source := kitchenAt(map[string][]domain.ScheduleEvent{
		"monday":  {{Time: "07:00", Action: domain.LightOn, Brightness: 80}},
		"tuesday": {{Time: "07:00", Action: domain.LightOn, Brightness: 80}},
	})
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	e.RunOnce(mondayAt(7, 0))
	e.RunOnce(mondayAt(7, 0).AddDate(0, 0, 1))

	assert.Len(t, lights.calls, 2)
}

func TestExecutorMissesSkippedMinute(t *testing.T) {
	lights := &fakeLights{}
	source := kitchenAt(map[string][]domain.ScheduleEvent{
		"monday": {{Time: "07:00", Action: domain.LightOn, Brightness: 80}},
	})
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	// the tick never lands on 07:00, so the event is dropped for the day
	e.RunOnce(mondayAt(6, 59))
	e.RunOnce(mondayAt(7, 1))

	assert.Empty(t, lights.calls)
}

func TestExecutorOffEvent(t *testing.T) {
	lights := &fakeLights{}
	source := kitchenAt(map[string][]domain.ScheduleEvent{
		"monday": {{Time: "22:00", Action: domain.LightOff}},
	})
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	e.RunOnce(mondayAt(22, 0))

	require.Len(t, lights.calls, 1)
	assert.False(t, lights.calls[0].On)
	assert.Zero(t, lights.calls[0].Brightness)
}

func TestExecutorSkipsDisabledAndVacation(t *testing.T) {
	lights := &fakeLights{}
	source := &fakeScheduleSource{
		schedules: map[string]domain.RoomSchedule{
			domain.RoomKitchen: {
				Enabled:       false,
				DailySchedule: map[string][]domain.ScheduleEvent{"monday": {{Time: "07:00", Action: domain.LightOn}}},
			},
			domain.RoomBedroom: {
				Enabled:       true,
				VacationMode:  true,
				DailySchedule: map[string][]domain.ScheduleEvent{"monday": {{Time: "07:00", Action: domain.LightOn}}},
			},
		},
	}
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	e.RunOnce(mondayAt(7, 0))

	assert.Empty(t, lights.calls)
}

func TestExecutorRoomFailureIsIsolated(t *testing.T) {
	lights := &fakeLights{
		err: map[string]error{domain.RoomKitchen: errors.New("bulb offline")},
	}
	source := &fakeScheduleSource{
		schedules: map[string]domain.RoomSchedule{
			domain.RoomKitchen: {
				Enabled:       true,
				DailySchedule: map[string][]domain.ScheduleEvent{"monday": {{Time: "07:00", Action: domain.LightOn, Brightness: 80}}},
			},
			domain.RoomOffice: {
				Enabled:       true,
				DailySchedule: map[string][]domain.ScheduleEvent{"monday": {{Time: "07:00", Action: domain.LightOn, Brightness: 60}}},
			},
		},
	}
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, passthroughAdjuster{}, nil)

	e.RunOnce(mondayAt(7, 0))

	require.Len(t, lights.calls, 1)
	assert.Equal(t, domain.RoomOffice, lights.calls[0].Room)
}

func TestExecutorTrackerEviction(t *testing.T) {
	tr := newExecutionTracker(24 * time.Hour)
	key := trackerKey{Room: domain.RoomKitchen, Weekday: "monday", Time: "07:00"}
	now := mondayAt(7, 0)

	assert.True(t, tr.markIfNew(key, now))
	assert.False(t, tr.markIfNew(key, now.Add(time.Hour)))

	// a week later the stale entry is evicted and the key fires again
	assert.True(t, tr.markIfNew(key, now.AddDate(0, 0, 7)))
}

func TestTrackSchedulePerformance(t *testing.T) {
	e := NewExecutor(DefaultConfig(), &fakeScheduleSource{}, &fakeLights{}, &fakeWeather{}, passthroughAdjuster{}, nil)

	e.TrackSchedulePerformance(domain.RoomOffice, 10, 8)
	records := e.PerformanceRecords(domain.RoomOffice)
	require.Len(t, records, 1)
	assert.InDelta(t, 0.8, records[0].Accuracy, 1e-9)

	// expected below 1 uses a denominator of 1
	e.TrackSchedulePerformance(domain.RoomOffice, 0, 0.5)
	records = e.PerformanceRecords(domain.RoomOffice)
	assert.InDelta(t, 0.5, records[1].Accuracy, 1e-9)
}

func TestPerformanceLogIsBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PerformanceLimit = 3
	e := NewExecutor(cfg, &fakeScheduleSource{}, &fakeLights{}, &fakeWeather{}, passthroughAdjuster{}, nil)

	for i := 0; i < 10; i++ {
		e.TrackSchedulePerformance(domain.RoomOffice, float64(i), float64(i))
	}

	records := e.PerformanceRecords(domain.RoomOffice)
	require.Len(t, records, 3)
	assert.Equal(t, 9.0, records[2].Expected)
}

func TestExecutorWeatherAdjustedBrightness(t *testing.T) {
	lights := &fakeLights{}
	source := kitchenAt(map[string][]domain.ScheduleEvent{
		"monday": {{Time: "07:00", Action: domain.LightOn, Brightness: 50}},
	})

	doubler := adjusterFunc(func(value int, _ *domain.WeatherSnapshot) int { return value * 2 })
	e := NewExecutor(DefaultConfig(), source, lights, &fakeWeather{}, doubler, nil)

	e.RunOnce(mondayAt(7, 0))

	require.Len(t, lights.calls, 1)
	assert.Equal(t, 100, lights.calls[0].Brightness)
}

type adjusterFunc func(int, *domain.WeatherSnapshot) int

func (f adjusterFunc) AdjustForWeather(value int, w *domain.WeatherSnapshot) int {
	return f(value, w)
}

func TestExecutorEmptyScheduleSource(t *testing.T) {
	e := NewExecutor(DefaultConfig(), &fakeScheduleSource{}, &fakeLights{}, &fakeWeather{}, passthroughAdjuster{}, nil)
	assert.NotPanics(t, func() {
		e.RunOnce(mondayAt(12, 0))
	})
}
