package domain

import "time"

// Time-of-day buckets used across the engine: the feature encoder one-hot
// encodes them, the behavior learner keys preferences by them.
const (
	BucketEarlyMorning = "early_morning"
	BucketMorning      = "morning"
	BucketLunch        = "lunch"
	BucketAfternoon    = "afternoon"
	BucketDinner       = "dinner"
	BucketEvening      = "evening"
	BucketNight        = "night"
)

// TimeBuckets in feature-layout order.
var TimeBuckets = []string{
	BucketEarlyMorning,
	BucketMorning,
	BucketLunch,
	BucketAfternoon,
	BucketDinner,
	BucketEvening,
	BucketNight,
}

// TimeBucketForHour maps an hour to its bucket. Intervals are half-open;
// hour 12 belongs to lunch only, never morning.
func TimeBucketForHour(hour int) string {
	switch {
	case hour >= 5 && hour < 8:
		return BucketEarlyMorning
	case hour >= 8 && hour < 12:
		return BucketMorning
	case hour >= 12 && hour < 14:
		return BucketLunch
	case hour >= 14 && hour < 17:
		return BucketAfternoon
	case hour >= 17 && hour < 19:
		return BucketDinner
	case hour >= 19 && hour < 22:
		return BucketEvening
	default:
		return BucketNight
	}
}

func TimeBucketFor(t time.Time) string {
	return TimeBucketForHour(t.Hour())
}

// Weekdays lowercased, schedule-map keys. Monday first to match the
// schedule templates.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func WeekdayName(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
