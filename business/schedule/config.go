package schedule

import "time"

const (
	defaultTrackerRetention = 24 * time.Hour
	defaultPerformanceLimit = 100
	defaultPeakShiftHours   = 1
)

// TemplatePeriod is one segment of a day-type template. Hours are half-open
// [StartHour, EndHour); the night period wraps midnight.
type TemplatePeriod struct {
	Name       string
	StartHour  int
	EndHour    int
	Brightness int
}

type Config struct {
	// WeekdayTemplate and WeekendTemplate seed generated schedules; the
	// optimizer shifts period boundaries toward observed usage peaks.
	WeekdayTemplate []TemplatePeriod
	WeekendTemplate []TemplatePeriod

	// PeakShiftHours is how far a period boundary moves toward a usage peak.
	PeakShiftHours int

	// TrackerRetention bounds execution-tracker entries; older entries are
	// evicted lazily on each tick.
	TrackerRetention time.Duration

	// PerformanceLimit caps retained performance records per room.
	PerformanceLimit int
}

func DefaultConfig() Config {
	return Config{
		WeekdayTemplate: []TemplatePeriod{
			{Name: "morning", StartHour: 6, EndHour: 9, Brightness: 80},
			{Name: "day", StartHour: 9, EndHour: 18, Brightness: 60},
			{Name: "evening", StartHour: 18, EndHour: 22, Brightness: 90},
			{Name: "night", StartHour: 22, EndHour: 6, Brightness: 20},
		},
		WeekendTemplate: []TemplatePeriod{
			{Name: "morning", StartHour: 8, EndHour: 10, Brightness: 70},
			{Name: "day", StartHour: 10, EndHour: 18, Brightness: 50},
			{Name: "evening", StartHour: 18, EndHour: 23, Brightness: 85},
			{Name: "night", StartHour: 23, EndHour: 8, Brightness: 15},
		},
		PeakShiftHours:   defaultPeakShiftHours,
		TrackerRetention: defaultTrackerRetention,
		PerformanceLimit: defaultPerformanceLimit,
	}
}
