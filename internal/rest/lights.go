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

type LightService interface {
	States() map[string]domain.LightState
	State(room string) (domain.LightState, bool)
	Toggle(ctx context.Context, room, user, ipAddress string) (domain.LightState, error)
	SetBrightness(ctx context.Context, room string, brightness int, user, ipAddress string) (domain.LightState, error)
	SetColorTemperature(ctx context.Context, room, temperature, user, ipAddress string) (domain.LightState, error)
	Bulk(ctx context.Context, action string, brightness int, user, ipAddress string) (map[string]domain.LightState, error)
}

type LightHandler struct {
	lightService LightService
	validator    *validator.Validate
	timeout      time.Duration
}

func NewLightHandler(lightService LightService) *LightHandler {
	return &LightHandler{
		lightService: lightService,
		validator:    validator.New(),
		timeout:      10 * time.Second,
	}
}

type BrightnessRequest struct {
	Brightness *int `json:"brightness" validate:"required,min=0,max=100"`
}

type ColorTemperatureRequest struct {
	Temperature string `json:"temperature" validate:"required,oneof=warm neutral cool"`
}

type ControlRequest struct {
	Status     string `json:"status" validate:"required,oneof=on off"`
	Brightness int    `json:"brightness" validate:"omitempty,min=1,max=100"`
}

type BulkRequest struct {
	Action     string `json:"action" validate:"required,oneof=on off"`
	Brightness int    `json:"brightness" validate:"omitempty,min=0,max=100"`
}

func (h *LightHandler) GetLights(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.lightService.States()))
}

func (h *LightHandler) GetLight(c echo.Context) error {
	room := c.Param("room")

	state, ok := h.lightService.State(room)
	if !ok {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

func (h *LightHandler) Toggle(c echo.Context) error {
	room := c.Param("room")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.lightService.Toggle(ctx, room, currentUser(c), c.RealIP())
	if err != nil {
		logger.Error("Failed to toggle light", err, "room", room)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.LightControlRequests.WithLabelValues("toggle").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

// Control sets an explicit on/off state, expressed through the brightness
// path: off is brightness 0, on defaults to 80 when no level is given.
func (h *LightHandler) Control(c echo.Context) error {
	room := c.Param("room")

	var req ControlRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	target := 0
	if req.Status == domain.LightOn {
		target = req.Brightness
		if target == 0 {
			target = 80
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.lightService.SetBrightness(ctx, room, target, currentUser(c), c.RealIP())
	if err != nil {
		logger.Error("Failed to control light", err, "room", room)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.LightControlRequests.WithLabelValues("control").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

func (h *LightHandler) SetBrightness(c echo.Context) error {
	room := c.Param("room")

	var req BrightnessRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.lightService.SetBrightness(ctx, room, *req.Brightness, currentUser(c), c.RealIP())
	if err != nil {
		logger.Error("Failed to set brightness", err, "room", room)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.LightControlRequests.WithLabelValues("brightness").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

func (h *LightHandler) SetColorTemperature(c echo.Context) error {
	room := c.Param("room")

	var req ColorTemperatureRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	state, err := h.lightService.SetColorTemperature(ctx, room, req.Temperature, currentUser(c), c.RealIP())
	if err != nil {
		logger.Error("Failed to set color temperature", err, "room", room)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.LightControlRequests.WithLabelValues("color_temperature").Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(state))
}

func (h *LightHandler) Bulk(c echo.Context) error {
	var req BulkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	states, err := h.lightService.Bulk(ctx, req.Action, req.Brightness, currentUser(c), c.RealIP())
	if err != nil {
		logger.Error("Failed to apply bulk action", err, "action", req.Action)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	metrics.LightControlRequests.WithLabelValues("bulk_" + req.Action).Inc()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(states))
}
