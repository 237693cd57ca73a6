package occupancy

import (
	"fmt"
	"math"
	"time"

	"smartlights/domain"
)

// FeatureLayoutVersion identifies the vector layout below. Trained model
// parameters are only valid against vectors produced by the same version;
// bump it whenever the element order changes.
const FeatureLayoutVersion = 1

// Layout, in order:
//
//	0  hour
//	1  minute
//	2  weekday (0=monday)
//	3  day of month
//	4  month
//	5  is_weekend
//	6  is_holiday
//	7  is_workday
//	8.. 14  time-bucket one-hot (early_morning .. night)
//	15..19  room one-hot (living_room, kitchen, bedroom, bathroom, office)
//	20 temperature
//	21 humidity
//	22 condition code (clear=0, clouds=1, rain=2, snow=3, thunderstorm=4)
//	23 cloud cover
//	24 visibility km
//	25 recent activity events
//	26 activity probability
//	27 sin(2π·hour/24)
//	28 cos(2π·hour/24)
//	29 sin(2π·weekday/7)
//	30 cos(2π·weekday/7)
const FeatureDim = 31

// Encoder deterministically maps (timestamp, room, weather?, activity?) to a
// fixed-layout feature vector. The holiday table and room vocabulary are
// fixed at construction; everything else is a pure function of the inputs.
type Encoder struct {
	holidays  map[string]bool
	roomIndex map[string]int
}

func NewEncoder(cfg Config) *Encoder {
	rooms := make(map[string]int, len(domain.Rooms))
	for i, r := range domain.Rooms {
		rooms[r] = i
	}

	holidays := cfg.Holidays
	if holidays == nil {
		holidays = defaultHolidays()
	}

	return &Encoder{
		holidays:  holidays,
		roomIndex: rooms,
	}
}

// Encode produces the versioned feature vector. An unknown room encodes as
// all zeros in the room block; missing weather or activity encodes as
// temperate/clear and zero-activity defaults.
func (e *Encoder) Encode(
	t time.Time,
	room string,
	weather *domain.WeatherSnapshot,
	activity *domain.ActivitySnapshot,
) [FeatureDim]float64 {
	var x [FeatureDim]float64

	hour := t.Hour()
	weekday := weekdayIndex(t)

	x[0] = float64(hour)
	x[1] = float64(t.Minute())
	x[2] = float64(weekday)
	x[3] = float64(t.Day())
	x[4] = float64(int(t.Month()))

	weekend := domain.IsWeekend(t)
	holiday := e.isHoliday(t)
	if weekend {
		x[5] = 1
	}
	if holiday {
		x[6] = 1
	}
	if !weekend && !holiday {
		x[7] = 1
	}

	bucket := domain.TimeBucketForHour(hour)
	for i, b := range domain.TimeBuckets {
		if b == bucket {
			x[8+i] = 1
			break
		}
	}

	if idx, ok := e.roomIndex[room]; ok {
		x[15+idx] = 1
	}

	w := domain.WeatherSnapshot{Temperature: 20, Humidity: 50, Condition: domain.WeatherClear, VisibilityKM: 10}
	if weather != nil {
		w = weather.Normalized()
	}
	x[20] = w.Temperature
	x[21] = w.Humidity
	x[22] = conditionCode(w.Condition)
	x[23] = w.CloudCover
	x[24] = w.VisibilityKM

	if activity != nil {
		x[25] = float64(activity.RecentEvents)
		x[26] = activity.Probability
	}

	x[27] = math.Sin(2 * math.Pi * float64(hour) / 24)
	x[28] = math.Cos(2 * math.Pi * float64(hour) / 24)
	x[29] = math.Sin(2 * math.Pi * float64(weekday) / 7)
	x[30] = math.Cos(2 * math.Pi * float64(weekday) / 7)

	return x
}

func (e *Encoder) isHoliday(t time.Time) bool {
	key := fmt.Sprintf("%02d-%02d", int(t.Month()), t.Day())
	return e.holidays[key]
}

// weekdayIndex maps monday to 0 .. sunday to 6.
func weekdayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func conditionCode(condition string) float64 {
	switch condition {
	case domain.WeatherClear:
		return 0
	case domain.WeatherClouds:
		return 1
	case domain.WeatherRain:
		return 2
	case domain.WeatherSnow:
		return 3
	case domain.WeatherThunderstorm:
		return 4
	default:
		return 1
	}
}
