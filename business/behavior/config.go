package behavior

import "time"

const (
	defaultSmoothingAlpha     = 0.1
	defaultPreference         = 80.0
	defaultRetentionWindow    = 30 * 24 * time.Hour
	defaultRecentWindow       = 7 * 24 * time.Hour
	defaultBaseProbability    = 0.5
	defaultPerMatchBoost      = 0.1
	defaultProbabilityCap     = 0.9
	defaultStaleProbability   = 0.3
	defaultNeutralProbability = 0.5
)

type Config struct {
	// SmoothingAlpha weights new observations in the preference EMA.
	SmoothingAlpha float64

	// DefaultPreference is returned when no EMA exists for a key.
	DefaultPreference float64

	// RetentionWindow bounds the usage-pattern history; older entries are
	// pruned on every learn call.
	RetentionWindow time.Duration

	// RecentWindow bounds which pattern entries count toward behavior
	// prediction.
	RecentWindow time.Duration

	BaseProbability    float64
	PerMatchBoost      float64
	ProbabilityCap     float64
	StaleProbability   float64
	NeutralProbability float64
}

func DefaultConfig() Config {
	return Config{
		SmoothingAlpha:     defaultSmoothingAlpha,
		DefaultPreference:  defaultPreference,
		RetentionWindow:    defaultRetentionWindow,
		RecentWindow:       defaultRecentWindow,
		BaseProbability:    defaultBaseProbability,
		PerMatchBoost:      defaultPerMatchBoost,
		ProbabilityCap:     defaultProbabilityCap,
		StaleProbability:   defaultStaleProbability,
		NeutralProbability: defaultNeutralProbability,
	}
}
