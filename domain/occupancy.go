package domain

import "time"

// ActivitySnapshot is an optional hint bundle describing recent user
// behavior, produced by the behavior learner and consumed by the encoder.
type ActivitySnapshot struct {
	RecentEvents int     `json:"recent_events"`
	Probability  float64 `json:"probability"`
}

// OccupancySample is a single labeled training observation. Immutable once
// created.
type OccupancySample struct {
	Timestamp time.Time         `json:"timestamp"`
	Room      string            `json:"room"`
	Occupied  bool              `json:"occupied"`
	Weather   *WeatherSnapshot  `json:"weather,omitempty"`
	Activity  *ActivitySnapshot `json:"activity,omitempty"`
}

// TrainingRecord is one entry of the predictor's training history.
type TrainingRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Accuracy    float64   `json:"accuracy"`
	SampleCount int       `json:"sample_count"`
}
