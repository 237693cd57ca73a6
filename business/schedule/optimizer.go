package schedule

import (
	"fmt"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

// Optimizer turns day-type templates plus observed usage into per-room
// schedules.
type Optimizer struct {
	cfg Config
}

func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// GenerateSchedule builds a full weekly schedule for a room. Usage patterns
// shift template period boundaries toward the observed activity peak;
// preferences override per-period brightness by period name. Any internal
// failure yields the static weekday-template fallback with automation
// disabled.
func (o *Optimizer) GenerateSchedule(
	room string,
	usagePatterns []domain.UsageEvent,
	preferences map[string]int,
) (sched domain.RoomSchedule) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("schedule generation panicked", "panic", r, "room", room)
			sched = o.fallbackSchedule()
		}
	}()

	peakStart, peakEnd, hasPeak := peakWindow(usagePatterns)

	sched = domain.RoomSchedule{
		Enabled:       true,
		SunriseSunset: true,
		DailySchedule: make(map[string][]domain.ScheduleEvent),
	}

	for _, day := range domain.Weekdays {
		template := o.cfg.WeekdayTemplate
		if day == "saturday" || day == "sunday" {
			template = o.cfg.WeekendTemplate
		}

		events := make([]domain.ScheduleEvent, 0, len(template)*2)
		for _, period := range template {
			start, end := period.StartHour, period.EndHour
			if hasPeak {
				start, end = o.shiftTowardPeak(period, peakStart, peakEnd)
			}

			brightness := period.Brightness
			if pref, ok := preferences[period.Name]; ok {
				brightness = pref
			}

			events = append(events,
				domain.ScheduleEvent{Time: hourString(start), Action: domain.LightOn, Brightness: brightness},
				domain.ScheduleEvent{Time: hourString(end), Action: domain.LightOff},
			)
		}
		sched.DailySchedule[day] = events
	}

	SchedulesGenerated.WithLabelValues(room).Inc()
	return sched
}

// shiftTowardPeak widens a period toward the observed usage window: a period
// covering the peak's first hour starts one hour earlier, one covering its
// last hour ends one hour later. Clamped to [0, 23].
func (o *Optimizer) shiftTowardPeak(period TemplatePeriod, peakStart, peakEnd int) (int, int) {
	start, end := period.StartHour, period.EndHour

	if periodContains(period, peakStart) {
		start = clampHour(peakStart - o.cfg.PeakShiftHours)
	}
	if periodContains(period, peakEnd) {
		end = clampHour(peakEnd + o.cfg.PeakShiftHours)
	}
	return start, end
}

func periodContains(p TemplatePeriod, hour int) bool {
	if p.StartHour <= p.EndHour {
		return hour >= p.StartHour && hour < p.EndHour
	}
	// wraps midnight
	return hour >= p.StartHour || hour < p.EndHour
}

// peakWindow finds the min and max hour with observed activity.
func peakWindow(patterns []domain.UsageEvent) (int, int, bool) {
	if len(patterns) == 0 {
		return 0, 0, false
	}

	minHour, maxHour := 23, 0
	for _, e := range patterns {
		h := e.Timestamp.Hour()
		if h < minHour {
			minHour = h
		}
		if h > maxHour {
			maxHour = h
		}
	}
	return minHour, maxHour, true
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > 23 {
		return 23
	}
	return h
}

func hourString(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// fallbackSchedule is the static weekday template applied to every day, with
// automation disabled.
func (o *Optimizer) fallbackSchedule() domain.RoomSchedule {
	sched := domain.RoomSchedule{
		DailySchedule: make(map[string][]domain.ScheduleEvent),
	}
	for _, day := range domain.Weekdays {
		events := make([]domain.ScheduleEvent, 0, len(o.cfg.WeekdayTemplate)*2)
		for _, period := range o.cfg.WeekdayTemplate {
			events = append(events,
				domain.ScheduleEvent{Time: hourString(period.StartHour), Action: domain.LightOn, Brightness: period.Brightness},
				domain.ScheduleEvent{Time: hourString(period.EndHour), Action: domain.LightOff},
			)
		}
		sched.DailySchedule[day] = events
	}
	return sched
}
