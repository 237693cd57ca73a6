package rest

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

type ScheduleStore interface {
	Schedules() map[string]domain.RoomSchedule
	Get(room string) (domain.RoomSchedule, bool)
	Set(room string, sched domain.RoomSchedule)
}

type SchedulePersistence interface {
	Save(ctx context.Context, room string, sched domain.RoomSchedule) error
}

type ScheduleGenerator interface {
	GenerateSchedule(room string, usagePatterns []domain.UsageEvent, preferences map[string]int) domain.RoomSchedule
}

type UsageSource interface {
	UsagePatterns(user, room string) []domain.UsageEvent
	Preferences() []domain.UserPreferenceRecord
}

type ScheduleHandler struct {
	store     ScheduleStore
	repo      SchedulePersistence
	generator ScheduleGenerator
	usage     UsageSource
	validator *validator.Validate
	timeout   time.Duration
}

func NewScheduleHandler(
	store ScheduleStore,
	repo SchedulePersistence,
	generator ScheduleGenerator,
	usage UsageSource,
) *ScheduleHandler {
	return &ScheduleHandler{
		store:     store,
		repo:      repo,
		generator: generator,
		usage:     usage,
		validator: validator.New(),
		timeout:   10 * time.Second,
	}
}

type GenerateScheduleRequest struct {
	Preferences map[string]int `json:"preferences"`
}

type ScheduleFlagRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type ScheduleTimesRequest struct {
	DailySchedule map[string][]domain.ScheduleEvent `json:"daily_schedule" validate:"required"`
}

func (h *ScheduleHandler) GetSchedules(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.store.Schedules()))
}

func (h *ScheduleHandler) GetSchedule(c echo.Context) error {
	room := c.Param("room")
	if !domain.KnownRoom(room) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
	}

	sched, ok := h.store.Get(room)
	if !ok {
		sched = domain.EmptyRoomSchedule()
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sched))
}

func (h *ScheduleHandler) SaveSchedule(c echo.Context) error {
	room := c.Param("room")
	if !domain.KnownRoom(room) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
	}

	var sched domain.RoomSchedule
	if err := c.Bind(&sched); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if sched.DailySchedule == nil {
		sched.DailySchedule = make(map[string][]domain.ScheduleEvent)
	}

	return h.saveAndRespond(c, room, sched)
}

// SetFlag flips one of the per-room schedule switches. The flag name comes
// from the route.
func (h *ScheduleHandler) SetFlag(flag string) echo.HandlerFunc {
	return func(c echo.Context) error {
		room := c.Param("room")
		if !domain.KnownRoom(room) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
		}

		var req ScheduleFlagRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		if err := h.validator.Struct(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}

		sched, ok := h.store.Get(room)
		if !ok {
			sched = domain.EmptyRoomSchedule()
		}

		switch flag {
		case "enable":
			sched.Enabled = *req.Enabled
		case "vacation":
			sched.VacationMode = *req.Enabled
		case "sunrise-sunset":
			sched.SunriseSunset = *req.Enabled
		case "adaptive":
			sched.Adaptive = *req.Enabled
		default:
			return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown flag: " + flag})
		}

		return h.saveAndRespond(c, room, sched)
	}
}

// SetTimes replaces a room's daily event map, leaving the flags untouched.
func (h *ScheduleHandler) SetTimes(c echo.Context) error {
	room := c.Param("room")
	if !domain.KnownRoom(room) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
	}

	var req ScheduleTimesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	sched, ok := h.store.Get(room)
	if !ok {
		sched = domain.EmptyRoomSchedule()
	}
	sched.DailySchedule = req.DailySchedule

	return h.saveAndRespond(c, room, sched)
}

// Status lists the enabled schedules with today's remaining events sorted by
// time. The "HH:MM" strings sort lexicographically.
func (h *ScheduleHandler) Status(c echo.Context) error {
	now := time.Now()
	weekday := domain.WeekdayName(now)
	current := now.Format("15:04")

	out := make(map[string]interface{})
	for room, sched := range h.store.Schedules() {
		if !sched.Enabled || sched.VacationMode {
			continue
		}

		upcoming := make([]domain.ScheduleEvent, 0)
		for _, event := range sched.DailySchedule[weekday] {
			if event.Time >= current {
				upcoming = append(upcoming, event)
			}
		}
		sort.Slice(upcoming, func(i, j int) bool {
			return upcoming[i].Time < upcoming[j].Time
		})

		out[room] = map[string]interface{}{
			"enabled":         true,
			"vacation_mode":   false,
			"upcoming_events": upcoming,
		}
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(out))
}

func (h *ScheduleHandler) saveAndRespond(c echo.Context, room string, sched domain.RoomSchedule) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.repo.Save(ctx, room, sched); err != nil {
		logger.Error("Failed to save schedule", err, "room", room)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	h.store.Set(room, sched)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(sched))
}

// GenerateSchedule builds a room schedule from the caller's observed usage.
// Explicit per-period preferences win over the learner's brightness values.
func (h *ScheduleHandler) GenerateSchedule(c echo.Context) error {
	room := c.Param("room")
	if !domain.KnownRoom(room) {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "unknown room: " + room})
	}

	var req GenerateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	user := currentUser(c)
	patterns := h.usage.UsagePatterns(user, room)

	preferences := h.learnedPreferences(user, room)
	for name, brightness := range req.Preferences {
		preferences[name] = brightness
	}

	sched := h.generator.GenerateSchedule(room, patterns, preferences)

	return h.saveAndRespond(c, room, sched)
}

// scheduleBucketPeriods maps the learner's time-of-day buckets to template
// period names. Buckets without a period entry never influence generation.
var scheduleBucketPeriods = map[string]string{
	domain.BucketMorning:   "morning",
	domain.BucketAfternoon: "day",
	domain.BucketEvening:   "evening",
	domain.BucketNight:     "night",
}

// learnedPreferences collects only preferences the learner actually observed
// for this user and room; template brightness stays in effect elsewhere.
func (h *ScheduleHandler) learnedPreferences(user, room string) map[string]int {
	out := make(map[string]int)
	for _, record := range h.usage.Preferences() {
		if record.User != user || record.Room != room {
			continue
		}
		period, ok := scheduleBucketPeriods[record.TimeBucket]
		if !ok {
			continue
		}
		out[period] = int(record.Brightness)
	}
	return out
}
