package lights

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"smartlights/business/automation"
	"smartlights/business/behavior"
	"smartlights/domain"
	"smartlights/pkg/logger"
)

// ActivityRepository persists activity-log entries.
type ActivityRepository interface {
	Save(ctx context.Context, entry domain.ActivityLog) (domain.ActivityLog, error)
}

// LightRepository persists light rows.
type LightRepository interface {
	Upsert(ctx context.Context, light domain.Light) error
}

// ActivityNotifier broadcasts recorded activity.
type ActivityNotifier interface {
	ActivityLogged(entry domain.ActivityLog)
}

// Service handles manual light control: it mutates the shared state, feeds
// the behavior learner, and records the activity trail. Persistence and
// notification failures are logged, never returned; the state change always
// wins.
type Service struct {
	store    *automation.Store
	learner  *behavior.Learner
	activity ActivityRepository
	lights   LightRepository
	notifier ActivityNotifier
}

func NewService(
	store *automation.Store,
	learner *behavior.Learner,
	activity ActivityRepository,
	lightRepo LightRepository,
	notifier ActivityNotifier,
) *Service {
	return &Service{
		store:    store,
		learner:  learner,
		activity: activity,
		lights:   lightRepo,
		notifier: notifier,
	}
}

func (s *Service) States() map[string]domain.LightState {
	return s.store.All()
}

func (s *Service) State(room string) (domain.LightState, bool) {
	return s.store.Get(room)
}

// Toggle flips a room's light. A turn-on reuses the last brightness, or 80
// when none is set.
func (s *Service) Toggle(ctx context.Context, room, user, ipAddress string) (domain.LightState, error) {
	previous, ok := s.store.Get(room)
	if !ok {
		return domain.LightState{}, fmt.Errorf("unknown room: %s", room)
	}

	state, err := s.store.Apply(room, func(state *domain.LightState) {
		if state.Status == domain.LightOn {
			state.Status = domain.LightOff
			state.Brightness = 0
			return
		}
		state.Status = domain.LightOn
		if state.Brightness == 0 {
			state.Brightness = 80
		}
	})
	if err != nil {
		return domain.LightState{}, err
	}

	now := time.Now()
	if state.Status == domain.LightOn {
		brightness := state.Brightness
		s.learner.LearnFromActivity(user, room, domain.LightOn, now, &brightness)
	} else {
		s.learner.LearnFromActivity(user, room, domain.LightOff, now, nil)
	}

	s.record(ctx, room, user, ipAddress, "light_toggle", datatypes.JSONMap{
		"previous_status": previous.Status,
		"new_status":      state.Status,
		"brightness":      state.Brightness,
		"method":          "manual_control",
	})
	s.persist(ctx, room, state)
	return state, nil
}

func (s *Service) SetBrightness(ctx context.Context, room string, brightness int, user, ipAddress string) (domain.LightState, error) {
	if brightness < 0 || brightness > 100 {
		return domain.LightState{}, fmt.Errorf("brightness out of range: %d", brightness)
	}

	previous, ok := s.store.Get(room)
	if !ok {
		return domain.LightState{}, fmt.Errorf("unknown room: %s", room)
	}

	state, err := s.store.Apply(room, func(state *domain.LightState) {
		state.Brightness = brightness
		if brightness > 0 {
			state.Status = domain.LightOn
		} else {
			state.Status = domain.LightOff
		}
	})
	if err != nil {
		return domain.LightState{}, err
	}

	s.learner.LearnFromActivity(user, room, "brightness_adjust", time.Now(), &brightness)

	s.record(ctx, room, user, ipAddress, "brightness_adjust", datatypes.JSONMap{
		"previous_brightness": previous.Brightness,
		"new_brightness":      brightness,
		"status":              state.Status,
		"method":              "manual_control",
	})
	s.persist(ctx, room, state)
	return state, nil
}

func (s *Service) SetColorTemperature(ctx context.Context, room, temperature, user, ipAddress string) (domain.LightState, error) {
	if temperature != "warm" && temperature != "neutral" && temperature != "cool" {
		return domain.LightState{}, fmt.Errorf("unknown color temperature: %s", temperature)
	}

	previous, ok := s.store.Get(room)
	if !ok {
		return domain.LightState{}, fmt.Errorf("unknown room: %s", room)
	}

	state, err := s.store.Apply(room, func(state *domain.LightState) {
		state.ColorTemperature = temperature
	})
	if err != nil {
		return domain.LightState{}, err
	}

	s.record(ctx, room, user, ipAddress, "color_temperature_change", datatypes.JSONMap{
		"previous_temperature": previous.ColorTemperature,
		"new_temperature":      temperature,
		"method":               "manual_control",
	})
	s.persist(ctx, room, state)
	return state, nil
}

// Bulk applies an on/off action to every room at once.
func (s *Service) Bulk(ctx context.Context, action string, brightness int, user, ipAddress string) (map[string]domain.LightState, error) {
	if action != domain.LightOn && action != domain.LightOff {
		return nil, fmt.Errorf("unknown action: %s", action)
	}
	if action == domain.LightOn && (brightness <= 0 || brightness > 100) {
		brightness = 100
	}

	for _, room := range domain.Rooms {
		on := action == domain.LightOn
		target := 0
		if on {
			target = brightness
		}
		if err := s.store.SetLight(room, on, target); err != nil {
			logger.Error("failed to apply bulk action", err, "room", room)
		}
	}

	s.record(ctx, "", user, ipAddress, "bulk_light_control", datatypes.JSONMap{
		"action":         action,
		"brightness":     brightness,
		"affected_rooms": domain.Rooms,
		"total_rooms":    len(domain.Rooms),
		"method":         "bulk_control",
	})

	states := s.store.All()
	for room, state := range states {
		s.persist(ctx, room, state)
	}
	return states, nil
}

func (s *Service) record(ctx context.Context, room, user, ipAddress, action string, details datatypes.JSONMap) {
	entry := domain.ActivityLog{
		Timestamp: time.Now(),
		Action:    action,
		Room:      room,
		User:      user,
		Details:   details,
		IPAddress: ipAddress,
	}

	if s.activity != nil {
		saved, err := s.activity.Save(ctx, entry)
		if err != nil {
			logger.Error("failed to save activity log", err, "action", action)
		} else {
			entry = saved
		}
	}

	if s.notifier != nil {
		s.notifier.ActivityLogged(entry)
	}
}

func (s *Service) persist(ctx context.Context, room string, state domain.LightState) {
	if s.lights == nil {
		return
	}
	light := domain.Light{
		Room:             room,
		Status:           state.Status,
		Brightness:       state.Brightness,
		ColorTemperature: state.ColorTemperature,
		MotionDetected:   state.MotionDetected,
	}
	if err := s.lights.Upsert(ctx, light); err != nil {
		logger.Error("failed to persist light state", err, "room", room)
	}
}
