package automation

import (
	"fmt"
	"sync"

	"smartlights/domain"
)

// ChangeNotifier receives light-state changes after they are applied.
// Notifications are fire-and-forget; implementations must not block.
type ChangeNotifier interface {
	LightChanged(room string, state domain.LightState)
}

// Store is the shared per-room light state, mutated by both the automation
// loop and the schedule executor. The lock covers only the read-modify-write;
// notifications happen after release.
type Store struct {
	mu       sync.Mutex
	states   map[string]domain.LightState
	notifier ChangeNotifier
}

func NewStore(notifier ChangeNotifier) *Store {
	states := make(map[string]domain.LightState, len(domain.Rooms))
	for _, room := range domain.Rooms {
		states[room] = domain.DefaultLightState()
	}
	return &Store{
		states:   states,
		notifier: notifier,
	}
}

func (s *Store) Get(room string) (domain.LightState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[room]
	return state, ok
}

// All returns a copy of every room's state.
func (s *Store) All() map[string]domain.LightState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]domain.LightState, len(s.states))
	for room, state := range s.states {
		out[room] = state
	}
	return out
}

// Apply runs mutate on the room's state under the lock, then notifies with
// the result. Unknown rooms are an error.
func (s *Store) Apply(room string, mutate func(*domain.LightState)) (domain.LightState, error) {
	s.mu.Lock()
	state, ok := s.states[room]
	if !ok {
		s.mu.Unlock()
		return domain.LightState{}, fmt.Errorf("unknown room: %s", room)
	}

	mutate(&state)
	s.states[room] = state
	s.mu.Unlock()

	if s.notifier != nil {
		s.notifier.LightChanged(room, state)
	}
	return state, nil
}

// SetLight turns a room on at the given brightness, or off. Satisfies the
// schedule executor's light-control dependency.
func (s *Store) SetLight(room string, on bool, brightness int) error {
	_, err := s.Apply(room, func(state *domain.LightState) {
		if on {
			state.Status = domain.LightOn
			state.Brightness = brightness
		} else {
			state.Status = domain.LightOff
			state.Brightness = 0
		}
	})
	return err
}

// Load replaces stored state for the given rooms, without notifying. Used to
// seed from persistence at startup.
func (s *Store) Load(states map[string]domain.LightState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for room, state := range states {
		s.states[room] = state
	}
}
