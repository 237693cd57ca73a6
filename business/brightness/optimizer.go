package brightness

import (
	"sync"
	"time"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

// Optimizer converts environment and prediction signals into a target
// brightness. Optimize never propagates internal failures: any panic is
// converted into the configured fallback brightness.
type Optimizer struct {
	cfg Config

	modelMu sync.RWMutex
	model   LinearModel

	energy *energyTracker
}

func NewOptimizer(cfg Config) *Optimizer {
	return &Optimizer{
		cfg:    cfg,
		energy: newEnergyTracker(cfg),
	}
}

// TrainModel fits the secondary regression model; once trained, Optimize
// blends it into the rule-based result.
func (o *Optimizer) TrainModel(samples []RegressionSample) {
	o.modelMu.Lock()
	defer o.modelMu.Unlock()
	o.model.Fit(samples)
	if o.model.Trained {
		logger.Info("brightness regression model trained", "samples", len(samples))
	}
}

// Optimize computes the target brightness for a room. Each factor composes
// multiplicatively in a fixed order: time-of-day base and natural light,
// weather, occupancy, user preference, room identity, then the optional
// model blend and the final clamp.
func (o *Optimizer) Optimize(
	room string,
	currentTime time.Time,
	naturalLight float64,
	occupancyProbability float64,
	weather *domain.WeatherSnapshot,
	preferredBrightness *float64,
) (result int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("brightness optimization panicked", "panic", r, "room", room)
			result = o.cfg.FallbackBrightness
			o.energy.track(room, result)
		}
	}()

	hour := currentTime.Hour()
	value := o.cfg.basePeriodBrightness(hour)

	if naturalLight > o.cfg.NaturalLightThreshold {
		value *= 1 - naturalLight*0.5
	}

	value *= o.weatherFactor(weather)
	value *= o.occupancyFactor(occupancyProbability)

	if preferredBrightness != nil && *preferredBrightness > 0 {
		value *= *preferredBrightness / o.cfg.PreferenceBaseline
	}

	if mult, ok := o.cfg.RoomMultipliers[room]; ok {
		value *= mult
	}

	o.modelMu.RLock()
	if o.model.Trained {
		temp := 20.0
		if weather != nil {
			temp = weather.Temperature
		}
		modelPred := o.model.Predict(hour, naturalLight, occupancyProbability, temp)
		value = o.cfg.RuleWeight*value + o.cfg.ModelWeight*modelPred
	}
	o.modelMu.RUnlock()

	if value < float64(o.cfg.MinBrightness) {
		value = float64(o.cfg.MinBrightness)
	}
	if value > float64(o.cfg.MaxBrightness) {
		value = float64(o.cfg.MaxBrightness)
	}

	result = int(value)
	o.energy.track(room, result)
	OptimizationsTotal.WithLabelValues(room).Inc()

	return result
}

func (o *Optimizer) weatherFactor(weather *domain.WeatherSnapshot) float64 {
	if weather == nil {
		return 1.0
	}

	w := weather.Normalized()
	factor := 1.0

	if w.Temperature < 10 {
		factor *= 1.2
	} else if w.Temperature > 30 {
		factor *= 0.9
	}

	if w.Adverse() {
		factor *= 1.3
	} else if w.Condition == domain.WeatherClear {
		factor *= 0.9
	}

	return factor
}

func (o *Optimizer) occupancyFactor(p float64) float64 {
	switch {
	case p < o.cfg.LowOccupancy:
		return o.cfg.LowOccupancyFactor
	case p > o.cfg.HighOccupancy:
		return o.cfg.HighOccupancyFactor
	default:
		// interpolates from 0.8 toward 1.6 as p climbs away from the low
		// threshold
		return 0.8 + (p-o.cfg.LowOccupancy)*1.6
	}
}

// AdjustForWeather scales an already-chosen brightness by the weather factor,
// clamped to the configured range. The schedule executor uses this to adapt
// static schedule brightness to current conditions.
func (o *Optimizer) AdjustForWeather(value int, weather *domain.WeatherSnapshot) int {
	adjusted := int(float64(value) * o.weatherFactor(weather))
	if adjusted < o.cfg.MinBrightness {
		adjusted = o.cfg.MinBrightness
	}
	if adjusted > o.cfg.MaxBrightness {
		adjusted = o.cfg.MaxBrightness
	}
	return adjusted
}

// EnergyRecords returns a copy of the tracked entries for a room.
func (o *Optimizer) EnergyRecords(room string) []domain.EnergyRecord {
	return o.energy.records(room)
}

// CalculateEnergySavings aggregates tracked usage into a cost estimate. The
// savings rate and efficiency figure are fixed assumptions, documented as
// approximations rather than measured results.
func (o *Optimizer) CalculateEnergySavings(room string) domain.EnergySavings {
	return o.energy.savings(room)
}
