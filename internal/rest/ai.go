package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"smartlights/domain"
	"smartlights/pkg/logger"
	"smartlights/pkg/metrics"
)

type AutomationService interface {
	Enabled() bool
	SetEnabled(enabled bool) bool
	RunOnce(now time.Time)
	ObserveOccupancy(room string, occupied bool, now time.Time)
}

type OccupancyService interface {
	IsTrained() bool
	TrainingHistory() []domain.TrainingRecord
	Train(ctx context.Context, samples []domain.OccupancySample) float64
	Predict(t time.Time, room string, weather *domain.WeatherSnapshot, activity *domain.ActivitySnapshot) float64
}

type BehaviorService interface {
	PredictUserBehavior(user, room string, t time.Time) float64
}

type EnvironmentService interface {
	Current() *domain.WeatherSnapshot
	NaturalLight(now time.Time) float64
}

type AIHandler struct {
	automation AutomationService
	occupancy  OccupancyService
	behavior   BehaviorService
	env        EnvironmentService
	validator  *validator.Validate
	timeout    time.Duration
}

func NewAIHandler(
	automation AutomationService,
	occupancy OccupancyService,
	behavior BehaviorService,
	env EnvironmentService,
) *AIHandler {
	return &AIHandler{
		automation: automation,
		occupancy:  occupancy,
		behavior:   behavior,
		env:        env,
		validator:  validator.New(),
		timeout:    30 * time.Second,
	}
}

type AIModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type TrainRequest struct {
	Samples []domain.OccupancySample `json:"samples" validate:"required,min=1"`
}

type FeedbackRequest struct {
	Room     string `json:"room" validate:"required"`
	Occupied *bool  `json:"occupied" validate:"required"`
}

func (h *AIHandler) GetMode(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"ai_mode": h.automation.Enabled(),
	}))
}

func (h *AIHandler) SetMode(c echo.Context) error {
	var req AIModeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	previous := h.automation.SetEnabled(*req.Enabled)
	logger.Info("AI mode changed", "enabled", *req.Enabled, "previous", previous)

	// turning automation on takes effect immediately, not at the next tick
	if *req.Enabled && !previous {
		go h.automation.RunOnce(time.Now())
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"ai_mode": *req.Enabled,
	}))
}

func (h *AIHandler) Status(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.AIStatusLatency.Observe(time.Since(start).Seconds())
	}()

	history := h.occupancy.TrainingHistory()
	var lastAccuracy float64
	if len(history) > 0 {
		lastAccuracy = history[len(history)-1].Accuracy
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"ai_mode":          h.automation.Enabled(),
		"model_trained":    h.occupancy.IsTrained(),
		"last_accuracy":    lastAccuracy,
		"training_history": history,
		"predictions":      h.roomPredictions(currentUser(c)),
	}))
}

func (h *AIHandler) Train(c echo.Context) error {
	var req TrainRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	accuracy := h.occupancy.Train(ctx, req.Samples)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]interface{}{
		"accuracy":     accuracy,
		"sample_count": len(req.Samples),
		"trained":      h.occupancy.IsTrained(),
	}))
}

func (h *AIHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if !domain.KnownRoom(req.Room) {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "unknown room: " + req.Room})
	}

	h.automation.ObserveOccupancy(req.Room, *req.Occupied, time.Now())

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Feedback recorded"))
}

// Predictions returns the current P(occupied) per room, using the same
// weather and behavior hints the automation loop feeds the model.
func (h *AIHandler) Predictions(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.roomPredictions(currentUser(c))))
}

func (h *AIHandler) roomPredictions(user string) map[string]interface{} {
	now := time.Now()
	weather := h.env.Current()

	out := make(map[string]interface{}, len(domain.Rooms))
	for _, room := range domain.Rooms {
		activity := &domain.ActivitySnapshot{
			Probability: h.behavior.PredictUserBehavior(user, room, now),
		}
		probability := h.occupancy.Predict(now, room, weather, activity)
		out[room] = map[string]interface{}{
			"probability": probability,
			"occupied":    probability > 0.5,
		}
	}
	return out
}
