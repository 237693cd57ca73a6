package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedKeepsFreezingReading(t *testing.T) {
	w := WeatherSnapshot{Temperature: 0, Humidity: 80, Condition: WeatherSnow, VisibilityKM: 2}

	got := w.Normalized()

	assert.Equal(t, 0.0, got.Temperature)
	assert.Equal(t, 80.0, got.Humidity)
	assert.Equal(t, WeatherSnow, got.Condition)
	assert.Equal(t, 2.0, got.VisibilityKM)
}

func TestNormalizedDefaultsEmptySnapshot(t *testing.T) {
	got := WeatherSnapshot{}.Normalized()

	assert.Equal(t, 20.0, got.Temperature)
	assert.Equal(t, 50.0, got.Humidity)
	assert.Equal(t, WeatherClear, got.Condition)
	assert.Equal(t, 10.0, got.VisibilityKM)
}

func TestNormalizedFillsOnlyMissingParts(t *testing.T) {
	w := WeatherSnapshot{Temperature: 31.5, Humidity: 44, Condition: ""}

	got := w.Normalized()

	assert.Equal(t, 31.5, got.Temperature)
	assert.Equal(t, 44.0, got.Humidity)
	assert.Equal(t, WeatherClear, got.Condition)
	assert.Equal(t, 10.0, got.VisibilityKM)
}

func TestAdverse(t *testing.T) {
	assert.True(t, WeatherSnapshot{Condition: WeatherRain}.Adverse())
	assert.True(t, WeatherSnapshot{Condition: WeatherThunderstorm}.Adverse())
	assert.False(t, WeatherSnapshot{Condition: WeatherClouds}.Adverse())
	assert.False(t, WeatherSnapshot{Condition: WeatherClear}.Adverse())
}
