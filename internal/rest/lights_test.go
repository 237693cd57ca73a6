package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlights/domain"
)

type fakeLightService struct {
	states map[string]domain.LightState
}

func newFakeLightService() *fakeLightService {
	states := make(map[string]domain.LightState)
	for _, room := range domain.Rooms {
		states[room] = domain.DefaultLightState()
	}
	return &fakeLightService{states: states}
}

func (f *fakeLightService) States() map[string]domain.LightState {
	return f.states
}

func (f *fakeLightService) State(room string) (domain.LightState, bool) {
	state, ok := f.states[room]
	return state, ok
}

func (f *fakeLightService) Toggle(_ context.Context, room, _, _ string) (domain.LightState, error) {
	state, ok := f.states[room]
	if !ok {
		return domain.LightState{}, errUnknownRoom(room)
	}
	if state.Status == domain.LightOn {
		state.Status = domain.LightOff
		state.Brightness = 0
	} else {
		state.Status = domain.LightOn
		state.Brightness = 80
	}
	f.states[room] = state
	return state, nil
}

func (f *fakeLightService) SetBrightness(_ context.Context, room string, brightness int, _, _ string) (domain.LightState, error) {
	state, ok := f.states[room]
	if !ok {
		return domain.LightState{}, errUnknownRoom(room)
	}
	state.Brightness = brightness
	f.states[room] = state
	return state, nil
}

func (f *fakeLightService) SetColorTemperature(_ context.Context, room, temperature, _, _ string) (domain.LightState, error) {
	state, ok := f.states[room]
	if !ok {
		return domain.LightState{}, errUnknownRoom(room)
	}
	state.ColorTemperature = temperature
	f.states[room] = state
	return state, nil
}

func (f *fakeLightService) Bulk(_ context.Context, action string, brightness int, _, _ string) (map[string]domain.LightState, error) {
	for room, state := range f.states {
		if action == domain.LightOn {
			state.Status = domain.LightOn
			state.Brightness = brightness
		} else {
			state.Status = domain.LightOff
			state.Brightness = 0
		}
		f.states[room] = state
	}
	return f.states, nil
}

type roomError string

func (e roomError) Error() string { return "unknown room: " + string(e) }

func errUnknownRoom(room string) error { return roomError(room) }

func performJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newLightEcho() (*echo.Echo, *fakeLightService) {
	svc := newFakeLightService()
	h := NewLightHandler(svc)

	e := echo.New()
	e.GET("/lights", h.GetLights)
	e.GET("/lights/:room", h.GetLight)
	e.POST("/lights/:room/toggle", h.Toggle)
	e.PUT("/lights/:room/brightness", h.SetBrightness)
	e.PUT("/lights/:room/color-temperature", h.SetColorTemperature)
	e.POST("/lights/bulk", h.Bulk)
	return e, svc
}

func TestGetLights(t *testing.T) {
	e, _ := newLightEcho()

	rec := performJSON(e, http.MethodGet, "/lights", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.RoomKitchen)
}

func TestGetLightUnknownRoom(t *testing.T) {
	e, _ := newLightEcho()

	rec := performJSON(e, http.MethodGet, "/lights/garage", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleEndpoint(t *testing.T) {
	e, svc := newLightEcho()

	rec := performJSON(e, http.MethodPost, "/lights/kitchen/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.LightOn, svc.states["kitchen"].Status)
}

func TestSetBrightnessValidatesRange(t *testing.T) {
	e, svc := newLightEcho()

	rec := performJSON(e, http.MethodPut, "/lights/office/brightness", `{"brightness": 150}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(e, http.MethodPut, "/lights/office/brightness", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(e, http.MethodPut, "/lights/office/brightness", `{"brightness": 0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, svc.states["office"].Brightness)
}

func TestSetColorTemperatureValidatesValue(t *testing.T) {
	e, svc := newLightEcho()

	rec := performJSON(e, http.MethodPut, "/lights/bedroom/color-temperature", `{"temperature": "purple"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(e, http.MethodPut, "/lights/bedroom/color-temperature", `{"temperature": "cool"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cool", svc.states["bedroom"].ColorTemperature)
}

func TestBulkEndpoint(t *testing.T) {
	e, svc := newLightEcho()

	rec := performJSON(e, http.MethodPost, "/lights/bulk", `{"action": "dim"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(e, http.MethodPost, "/lights/bulk", `{"action": "on", "brightness": 90}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for room, state := range svc.states {
		assert.Equal(t, domain.LightOn, state.Status, room)
	}
}

type fakeAutomation struct {
	enabled  bool
	observed []string
}

func (f *fakeAutomation) Enabled() bool { return f.enabled }

func (f *fakeAutomation) SetEnabled(enabled bool) bool {
	previous := f.enabled
	f.enabled = enabled
	return previous
}

func (f *fakeAutomation) RunOnce(_ time.Time) {}

func (f *fakeAutomation) ObserveOccupancy(room string, occupied bool, _ time.Time) {
	f.observed = append(f.observed, room)
}

type fakeOccupancy struct {
	trained bool
	history []domain.TrainingRecord
}

func (f *fakeOccupancy) IsTrained() bool { return f.trained }

func (f *fakeOccupancy) TrainingHistory() []domain.TrainingRecord { return f.history }

func (f *fakeOccupancy) Train(_ context.Context, _ []domain.OccupancySample) float64 {
	f.trained = true
	return 0.92
}

func (f *fakeOccupancy) Predict(_ time.Time, _ string, _ *domain.WeatherSnapshot, _ *domain.ActivitySnapshot) float64 {
	return 0.75
}

type fakeBehavior struct{}

func (fakeBehavior) PredictUserBehavior(_, _ string, _ time.Time) float64 { return 0.5 }

type fakeEnvironment struct{}

func (fakeEnvironment) Current() *domain.WeatherSnapshot { return nil }

func (fakeEnvironment) NaturalLight(_ time.Time) float64 { return 0.5 }

func newAIEcho() (*echo.Echo, *fakeAutomation, *fakeOccupancy) {
	auto := &fakeAutomation{}
	occ := &fakeOccupancy{}
	h := NewAIHandler(auto, occ, fakeBehavior{}, fakeEnvironment{})

	e := echo.New()
	e.GET("/ai/mode", h.GetMode)
	e.PUT("/ai/mode", h.SetMode)
	e.GET("/ai/status", h.Status)
	e.GET("/ai/predictions", h.Predictions)
	e.POST("/ai/train", h.Train)
	e.POST("/ai/feedback", h.Feedback)
	return e, auto, occ
}

func TestAIModeRoundTrip(t *testing.T) {
	e, auto, _ := newAIEcho()

	rec := performJSON(e, http.MethodPut, "/ai/mode", `{"enabled": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, auto.enabled)

	rec = performJSON(e, http.MethodGet, "/ai/mode", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "true")
}

func TestAIModeRequiresEnabledField(t *testing.T) {
	e, _, _ := newAIEcho()

	rec := performJSON(e, http.MethodPut, "/ai/mode", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIStatus(t *testing.T) {
	e, _, occ := newAIEcho()
	occ.trained = true
	occ.history = []domain.TrainingRecord{{Accuracy: 0.88, SampleCount: 200}}

	rec := performJSON(e, http.MethodGet, "/ai/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"model_trained":true`)
	assert.Contains(t, rec.Body.String(), `"last_accuracy":0.88`)
}

func TestAIFeedback(t *testing.T) {
	e, auto, _ := newAIEcho()

	rec := performJSON(e, http.MethodPost, "/ai/feedback", `{"room": "garage", "occupied": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performJSON(e, http.MethodPost, "/ai/feedback", `{"room": "office", "occupied": true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"office"}, auto.observed)
}

func TestAIPredictions(t *testing.T) {
	e, _, _ := newAIEcho()

	rec := performJSON(e, http.MethodGet, "/ai/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, room := range domain.Rooms {
		assert.Contains(t, rec.Body.String(), room)
	}
}
