package schedule

import (
	"sync"

	"smartlights/domain"
)

// Store holds the live room schedules the executor reads each tick. It is
// seeded from persistence at startup; callers write through to the database
// separately.
type Store struct {
	mu        sync.RWMutex
	schedules map[string]domain.RoomSchedule
}

var _ ScheduleSource = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		schedules: make(map[string]domain.RoomSchedule),
	}
}

func (s *Store) Schedules() map[string]domain.RoomSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.RoomSchedule, len(s.schedules))
	for room, sched := range s.schedules {
		out[room] = sched
	}
	return out
}

func (s *Store) Get(room string) (domain.RoomSchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sched, ok := s.schedules[room]
	return sched, ok
}

func (s *Store) Set(room string, sched domain.RoomSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[room] = sched
}

// Load replaces the full schedule set, used when restoring from the database.
func (s *Store) Load(schedules map[string]domain.RoomSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = make(map[string]domain.RoomSchedule, len(schedules))
	for room, sched := range schedules {
		s.schedules[room] = sched
	}
}
