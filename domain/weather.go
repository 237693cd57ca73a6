package domain

// Weather condition codes as reported by the provider, lowercased.
const (
	WeatherClear        = "clear"
	WeatherClouds       = "clouds"
	WeatherRain         = "rain"
	WeatherSnow         = "snow"
	WeatherThunderstorm = "thunderstorm"
)

// WeatherSnapshot is an already-fetched weather observation. The engine never
// performs network I/O itself; callers pass cached snapshots in.
type WeatherSnapshot struct {
	Temperature  float64 `json:"temperature"` // celsius
	Humidity     float64 `json:"humidity"`    // percent
	Condition    string  `json:"condition"`
	CloudCover   float64 `json:"cloud_cover"` // percent
	VisibilityKM float64 `json:"visibility_km"`
}

// Normalized fills missing sub-fields with temperate/clear defaults instead
// of failing on malformed provider payloads. A zero-value snapshot means the
// provider sent nothing: temperature and humidity are treated as missing only
// when BOTH are zero, since 0C with 0% humidity does not occur as a real
// observation. A genuine 0C reading always carries a nonzero humidity and is
// kept as-is.
func (w WeatherSnapshot) Normalized() WeatherSnapshot {
	if w.Condition == "" {
		w.Condition = WeatherClear
	}
	if w.Temperature == 0 && w.Humidity == 0 {
		w.Temperature = 20
		w.Humidity = 50
	}
	if w.VisibilityKM <= 0 {
		w.VisibilityKM = 10
	}
	return w
}

func (w WeatherSnapshot) Adverse() bool {
	switch w.Condition {
	case WeatherRain, WeatherSnow, WeatherThunderstorm:
		return true
	}
	return false
}
