package behavior

import (
	"sync"
	"time"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

type patternKey struct {
	User    string
	Room    string
	Bucket  string
	Weekday string
}

type preferenceKey struct {
	User   string
	Room   string
	Bucket string
}

type preference struct {
	Brightness float64
	Samples    int
	UpdatedAt  time.Time
}

// Learner accumulates per-user usage patterns and exponentially smoothed
// brightness preferences. All state is in memory; Preferences and
// LoadPreferences exist so a caller can snapshot and seed it across restarts.
type Learner struct {
	cfg Config

	mu          sync.RWMutex
	patterns    map[patternKey][]domain.UsageEvent
	preferences map[preferenceKey]preference
}

func NewLearner(cfg Config) *Learner {
	return &Learner{
		cfg:         cfg,
		patterns:    make(map[patternKey][]domain.UsageEvent),
		preferences: make(map[preferenceKey]preference),
	}
}

// LearnFromActivity records one light interaction. A non-nil brightness also
// updates the EMA preference for (user, room, bucket); the first observation
// seeds the estimate directly. Every call prunes pattern entries older than
// the retention window across all users.
func (l *Learner) LearnFromActivity(user, room, action string, t time.Time, brightness *int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("behavior learning panicked", "panic", r, "room", room)
		}
	}()

	bucket := domain.TimeBucketFor(t)
	weekday := domain.WeekdayName(t)

	event := domain.UsageEvent{Timestamp: t, Action: action}
	if brightness != nil {
		event.Brightness = *brightness
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	pk := patternKey{User: user, Room: room, Bucket: bucket, Weekday: weekday}
	l.patterns[pk] = append(l.patterns[pk], event)

	if brightness != nil {
		l.updatePreference(preferenceKey{User: user, Room: room, Bucket: bucket}, float64(*brightness))
	}

	l.pruneLocked(time.Now())
	ActivityEventsTotal.WithLabelValues(room).Inc()
}

func (l *Learner) updatePreference(key preferenceKey, brightness float64) {
	current, ok := l.preferences[key]
	if !ok {
		l.preferences[key] = preference{
			Brightness: brightness,
			Samples:    1,
			UpdatedAt:  time.Now(),
		}
		return
	}

	alpha := l.cfg.SmoothingAlpha
	current.Brightness = (1-alpha)*current.Brightness + alpha*brightness
	current.Samples++
	current.UpdatedAt = time.Now()
	l.preferences[key] = current
}

// pruneLocked drops pattern entries older than the retention window. Entries
// exactly at the boundary are dropped; one second inside it are kept.
func (l *Learner) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.cfg.RetentionWindow)
	for key, events := range l.patterns {
		kept := events[:0]
		for _, e := range events {
			if e.Timestamp.After(cutoff) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(l.patterns, key)
			continue
		}
		l.patterns[key] = kept
	}
}

// GetUserPreferences returns the learned brightness for (user, room, bucket),
// or the default when nothing has been learned yet.
func (l *Learner) GetUserPreferences(user, room, timeBucket string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if pref, ok := l.preferences[preferenceKey{User: user, Room: room, Bucket: timeBucket}]; ok {
		return pref.Brightness
	}
	return l.cfg.DefaultPreference
}

// PredictUserBehavior estimates how likely the user is to interact with the
// room around this time, from pattern density in the recent window. No
// history at all is neutral (0.5); history with no recent matches lowers the
// estimate (0.3); each recent match raises it by 0.1 up to the cap.
func (l *Learner) PredictUserBehavior(user, room string, t time.Time) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pk := patternKey{
		User:    user,
		Room:    room,
		Bucket:  domain.TimeBucketFor(t),
		Weekday: domain.WeekdayName(t),
	}

	events, ok := l.patterns[pk]
	if !ok || len(events) == 0 {
		return l.cfg.NeutralProbability
	}

	recentCutoff := t.Add(-l.cfg.RecentWindow)
	recent := 0
	for _, e := range events {
		if e.Timestamp.After(recentCutoff) {
			recent++
		}
	}

	if recent == 0 {
		return l.cfg.StaleProbability
	}

	prob := l.cfg.BaseProbability + float64(recent)*l.cfg.PerMatchBoost
	if prob > l.cfg.ProbabilityCap {
		prob = l.cfg.ProbabilityCap
	}
	return prob
}

// UsagePatterns returns all recorded events for a user and room, flattened
// across buckets and weekdays. The schedule optimizer uses this to find peak
// activity windows.
func (l *Learner) UsagePatterns(user, room string) []domain.UsageEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.UsageEvent
	for key, events := range l.patterns {
		if key.User != user || key.Room != room {
			continue
		}
		out = append(out, events...)
	}
	return out
}

// Preferences snapshots the learned preferences as persistable records.
func (l *Learner) Preferences() []domain.UserPreferenceRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.UserPreferenceRecord, 0, len(l.preferences))
	for key, pref := range l.preferences {
		out = append(out, domain.UserPreferenceRecord{
			User:       key.User,
			Room:       key.Room,
			TimeBucket: key.Bucket,
			Brightness: pref.Brightness,
			Samples:    pref.Samples,
			UpdatedAt:  pref.UpdatedAt,
		})
	}
	return out
}

// LoadPreferences seeds the EMA state from persisted records, replacing any
// existing entry for the same key.
func (l *Learner) LoadPreferences(records []domain.UserPreferenceRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range records {
		l.preferences[preferenceKey{User: r.User, Room: r.Room, Bucket: r.TimeBucket}] = preference{
			Brightness: r.Brightness,
			Samples:    r.Samples,
			UpdatedAt:  r.UpdatedAt,
		}
	}
}
