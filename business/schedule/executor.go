package schedule

import (
	"fmt"
	"sync"
	"time"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

// ScheduleSource supplies the current per-room schedules. Implementations
// must return cached state; the executor never blocks on I/O.
type ScheduleSource interface {
	Schedules() map[string]domain.RoomSchedule
}

// LightControl applies an on/off decision to the shared light state. The
// implementation owns locking and the paired change notification.
type LightControl interface {
	SetLight(room string, on bool, brightness int) error
}

// WeatherSource returns the most recent cached snapshot, or nil when none is
// available.
type WeatherSource interface {
	Current() *domain.WeatherSnapshot
}

// BrightnessAdjuster adapts a scheduled brightness to current weather.
type BrightnessAdjuster interface {
	AdjustForWeather(value int, weather *domain.WeatherSnapshot) int
}

// ExecutionNotifier receives fired schedule events. Fire-and-forget; a nil
// notifier disables it.
type ExecutionNotifier interface {
	ScheduleExecuted(room, action string, brightness int)
}

type trackerKey struct {
	Room    string
	Weekday string
	Time    string
}

// executionTracker dedups schedule firings: one entry per (room, weekday,
// time) per day. Guarded by its own lock, independent of the light-state
// lock.
type executionTracker struct {
	mu        sync.Mutex
	fired     map[trackerKey]time.Time
	retention time.Duration
}

func newExecutionTracker(retention time.Duration) *executionTracker {
	return &executionTracker{
		fired:     make(map[trackerKey]time.Time),
		retention: retention,
	}
}

// markIfNew records the key and reports whether it was absent. Entries past
// the retention window are evicted first, so yesterday's firing does not
// block today's.
func (t *executionTracker) markIfNew(key trackerKey, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for k, firedAt := range t.fired {
		if now.Sub(firedAt) > t.retention {
			delete(t.fired, k)
		}
	}

	if _, exists := t.fired[key]; exists {
		return false
	}
	t.fired[key] = now
	return true
}

// Executor fires due schedule events against the shared light state. It is
// driven by an external ticker calling RunOnce; it owns no goroutines.
type Executor struct {
	cfg       Config
	schedules ScheduleSource
	lights    LightControl
	weather   WeatherSource
	adjuster  BrightnessAdjuster
	notifier  ExecutionNotifier
	tracker   *executionTracker
	perf      *performanceLog
}

func NewExecutor(
	cfg Config,
	schedules ScheduleSource,
	lights LightControl,
	weather WeatherSource,
	adjuster BrightnessAdjuster,
	notifier ExecutionNotifier,
) *Executor {
	return &Executor{
		cfg:       cfg,
		schedules: schedules,
		lights:    lights,
		weather:   weather,
		adjuster:  adjuster,
		notifier:  notifier,
		tracker:   newExecutionTracker(cfg.TrackerRetention),
		perf:      newPerformanceLog(cfg.PerformanceLimit),
	}
}

// RunOnce processes one tick. An event fires only when the tick's "HH:MM"
// string equals the event time exactly; a tick that skips past the minute
// drops the event for the day. Each event fires at most once per calendar
// day. A failure in one room is logged and does not stop the others.
func (e *Executor) RunOnce(now time.Time) {
	current := fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())
	weekday := domain.WeekdayName(now)

	for room, sched := range e.schedules.Schedules() {
		if !sched.Enabled || sched.VacationMode {
			continue
		}
		e.runRoom(room, sched, weekday, current, now)
	}
}

func (e *Executor) runRoom(room string, sched domain.RoomSchedule, weekday, current string, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule execution panicked", "panic", r, "room", room)
		}
	}()

	for _, event := range sched.DailySchedule[weekday] {
		if event.Time != current {
			continue
		}

		key := trackerKey{Room: room, Weekday: weekday, Time: event.Time}
		if !e.tracker.markIfNew(key, now) {
			continue
		}

		if err := e.apply(room, event); err != nil {
			logger.Error("failed to apply schedule event", err, "room", room, "time", event.Time)
			continue
		}

		if e.notifier != nil {
			e.notifier.ScheduleExecuted(room, event.Action, event.Brightness)
		}
		EventsExecuted.WithLabelValues(room, event.Action).Inc()
		logger.Info("schedule event executed",
			"room", room,
			"action", event.Action,
			"time", event.Time,
		)
	}
}

func (e *Executor) apply(room string, event domain.ScheduleEvent) error {
	if event.Action != domain.LightOn {
		return e.lights.SetLight(room, false, 0)
	}

	brightness := event.Brightness
	if e.adjuster != nil && e.weather != nil {
		brightness = e.adjuster.AdjustForWeather(brightness, e.weather.Current())
	}
	return e.lights.SetLight(room, true, brightness)
}

// TrackSchedulePerformance records expected vs actual usage for a room. The
// record is observational only; nothing reads it back into scheduling.
func (e *Executor) TrackSchedulePerformance(room string, expected, actual float64) {
	e.perf.record(room, expected, actual)
}

// PerformanceRecords returns the retained records for a room, oldest first.
func (e *Executor) PerformanceRecords(room string) []PerformanceRecord {
	return e.perf.records(room)
}
