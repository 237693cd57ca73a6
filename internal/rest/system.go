package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

type WeatherProvider interface {
	Current() *domain.WeatherSnapshot
	NaturalLight(now time.Time) float64
}

type ActivityReader interface {
	List(ctx context.Context, filter domain.ActivityFilter, limit, offset int) ([]domain.ActivityLog, error)
}

type EnergyEstimator interface {
	CalculateEnergySavings(room string) domain.EnergySavings
	AdjustForWeather(value int, weather *domain.WeatherSnapshot) int
}

type EnergyReader interface {
	TotalKWhSince(ctx context.Context, since time.Time) (map[string]float64, error)
}

type LightStateReader interface {
	States() map[string]domain.LightState
}

type WebsocketHub interface {
	Serve(w http.ResponseWriter, r *http.Request) error
	ClientCount() int
}

type SystemHandler struct {
	weather  WeatherProvider
	activity ActivityReader
	energy   EnergyEstimator
	usage    EnergyReader
	states   LightStateReader
	hub      WebsocketHub
	timeout  time.Duration
}

func NewSystemHandler(
	weather WeatherProvider,
	activity ActivityReader,
	energy EnergyEstimator,
	usage EnergyReader,
	states LightStateReader,
	hub WebsocketHub,
) *SystemHandler {
	return &SystemHandler{
		weather:  weather,
		activity: activity,
		energy:   energy,
		usage:    usage,
		states:   states,
		hub:      hub,
		timeout:  10 * time.Second,
	}
}

// GetStatus summarizes the live light states together with the per-room
// energy estimates.
func (h *SystemHandler) GetStatus(c echo.Context) error {
	states := h.states.States()

	lightsOn := 0
	var totalKWh float64
	energy := make(map[string]domain.EnergySavings, len(domain.Rooms))
	for _, room := range domain.Rooms {
		if states[room].Status == domain.LightOn {
			lightsOn++
		}
		savings := h.energy.CalculateEnergySavings(room)
		energy[room] = savings
		totalKWh += savings.TotalKWh
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"lights":    states,
		"lights_on": lightsOn,
		"energy":    energy,
		"total_kwh": totalKWh,
	}))
}

func (h *SystemHandler) GetWeather(c echo.Context) error {
	now := time.Now()
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"weather":       h.weather.Current(),
		"natural_light": h.weather.NaturalLight(now),
	}))
}

// GetWeatherImpact reports how current conditions bend the lighting output:
// the natural-light factor plus the weather adjustment applied to a baseline
// brightness.
func (h *SystemHandler) GetWeatherImpact(c echo.Context) error {
	now := time.Now()
	weather := h.weather.Current()

	const baseline = 80
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"weather":             weather,
		"natural_light":       h.weather.NaturalLight(now),
		"baseline_brightness": baseline,
		"adjusted_brightness": h.energy.AdjustForWeather(baseline, weather),
	}))
}

func (h *SystemHandler) GetActivityLogs(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)
	filter := domain.ActivityFilter{
		Room:   c.QueryParam("room"),
		Action: c.QueryParam("action"),
		Search: c.QueryParam("search"),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	entries, err := h.activity.List(ctx, filter, limit, offset)
	if err != nil {
		logger.Error("Failed to list activity logs", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(entries))
}

// GetStatistics combines the in-memory savings estimate with the persisted
// 30-day consumption totals.
func (h *SystemHandler) GetStatistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	persisted, err := h.usage.TotalKWhSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		logger.Error("Failed to read persisted energy totals", err)
		persisted = map[string]float64{}
	}

	rooms := make(map[string]interface{}, len(domain.Rooms))
	for _, room := range domain.Rooms {
		savings := h.energy.CalculateEnergySavings(room)
		rooms[room] = map[string]interface{}{
			"savings":       savings,
			"persisted_kwh": persisted[room],
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rooms))
}

func (h *SystemHandler) ServeWS(c echo.Context) error {
	return h.hub.Serve(c.Response(), c.Request())
}

func (h *SystemHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"ws_clients": h.hub.ClientCount(),
	})
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
