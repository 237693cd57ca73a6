package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/domain"
)

func TestCurrentWithoutDataReturnsDemo(t *testing.T) {
	s := NewService(Config{}, nil)

	snapshot := s.Current()
	require.NotNil(t, snapshot)
	assert.Equal(t, 20.0, snapshot.Temperature)
	assert.Equal(t, domain.WeatherClouds, snapshot.Condition)
}

func TestRefreshDemoKey(t *testing.T) {
	s := NewService(Config{APIKey: "demo_key"}, nil)

	require.NoError(t, s.Refresh(context.Background()))
	snapshot := s.Current()
	assert.Equal(t, 65.0, snapshot.Humidity)
}

func TestRefreshParsesAPIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "Oslo", r.URL.Query().Get("q"))
		w.Write([]byte(`{
			"main": {"temp": 4.5, "humidity": 81},
			"weather": [{"main": "Rain"}],
			"clouds": {"all": 90},
			"visibility": 6000
		}`))
	}))
	defer server.Close()

	s := NewService(Config{APIKey: "real", City: "Oslo", BaseURL: server.URL}, nil)
	require.NoError(t, s.Refresh(context.Background()))

	snapshot := s.Current()
	assert.Equal(t, 4.5, snapshot.Temperature)
	assert.Equal(t, domain.WeatherRain, snapshot.Condition)
	assert.Equal(t, 6.0, snapshot.VisibilityKM)
}

func TestRefreshFailureKeepsOldSnapshot(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"main": {"temp": 10, "humidity": 50}, "weather": [{"main": "Clear"}]}`))
	}))
	defer server.Close()

	s := NewService(Config{APIKey: "real", City: "Oslo", BaseURL: server.URL, CacheDuration: time.Nanosecond}, nil)
	require.NoError(t, s.Refresh(context.Background()))
	require.Error(t, s.Refresh(context.Background()))

	// stale snapshot still served over the demo fallback
	assert.Equal(t, 10.0, s.Current().Temperature)
}

func TestNaturalLightByHour(t *testing.T) {
	s := NewService(Config{}, nil)

	// demo snapshot is clouds at 40%, multiplier 0.8
	midday := time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)
	night := time.Date(2025, time.June, 2, 2, 0, 0, 0, time.UTC)
	evening := time.Date(2025, time.June, 2, 18, 0, 0, 0, time.UTC)

	assert.InDelta(t, 0.72, s.NaturalLight(midday), 1e-9)
	assert.InDelta(t, 0.08, s.NaturalLight(night), 1e-9)
	assert.InDelta(t, 0.32, s.NaturalLight(evening), 1e-9)
}

func TestNaturalLightCapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 25, "humidity": 30}, "weather": [{"main": "Clear"}], "clouds": {"all": 5}}`))
	}))
	defer server.Close()

	s := NewService(Config{APIKey: "real", City: "Oslo", BaseURL: server.URL}, nil)
	require.NoError(t, s.Refresh(context.Background()))

	// midday clear sky: 0.9 * 1.2 capped at 1.0
	midday := time.Date(2025, time.June, 2, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, s.NaturalLight(midday))
}
