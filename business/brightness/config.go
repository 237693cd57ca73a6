package brightness

import "smartlights/domain"

const (
	defaultMinBrightness         = 15
	defaultMaxBrightness         = 100
	defaultFallbackBrightness    = 80
	defaultNaturalLightThreshold = 0.7
	defaultLowOccupancy          = 0.3
	defaultHighOccupancy         = 0.8
	defaultLowOccupancyFactor    = 0.3 // safety minimum
	defaultHighOccupancyFactor   = 1.2
	defaultPreferenceBaseline    = 80.0
	defaultRuleWeight            = 0.7
	defaultModelWeight           = 0.3

	defaultWattsPerPercent = 0.6
	defaultCostPerKWh      = 0.12
	defaultEnergyBufferCap = 1000

	// Declared approximation constants, not measurements: the savings report
	// assumes a fixed potential-savings rate at a fixed efficiency.
	defaultPotentialSavingsRate   = 0.30
	defaultOptimizationEfficiency = 0.70
)

// Period is one time-of-day segment of the base-brightness table.
// Intervals are half-open [StartHour, EndHour); a period may wrap midnight.
type Period struct {
	Name       string
	StartHour  int
	EndHour    int
	Brightness float64
}

type Config struct {
	MinBrightness      int
	MaxBrightness      int
	FallbackBrightness int

	NaturalLightThreshold float64

	LowOccupancy       float64
	HighOccupancy      float64
	LowOccupancyFactor float64
	HighOccupancyFactor float64

	PreferenceBaseline float64

	RuleWeight  float64
	ModelWeight float64

	BasePeriods     []Period
	RoomMultipliers map[string]float64

	WattsPerPercent float64
	CostPerKWh      float64
	EnergyBufferCap int

	PotentialSavingsRate   float64
	OptimizationEfficiency float64
}

func DefaultConfig() Config {
	return Config{
		MinBrightness:         defaultMinBrightness,
		MaxBrightness:         defaultMaxBrightness,
		FallbackBrightness:    defaultFallbackBrightness,
		NaturalLightThreshold: defaultNaturalLightThreshold,
		LowOccupancy:          defaultLowOccupancy,
		HighOccupancy:         defaultHighOccupancy,
		LowOccupancyFactor:    defaultLowOccupancyFactor,
		HighOccupancyFactor:   defaultHighOccupancyFactor,
		PreferenceBaseline:    defaultPreferenceBaseline,
		RuleWeight:            defaultRuleWeight,
		ModelWeight:           defaultModelWeight,
		BasePeriods: []Period{
			{Name: "morning", StartHour: 6, EndHour: 9, Brightness: 90},
			{Name: "day", StartHour: 9, EndHour: 18, Brightness: 70},
			{Name: "evening", StartHour: 18, EndHour: 22, Brightness: 85},
			{Name: "night", StartHour: 22, EndHour: 6, Brightness: 30},
		},
		RoomMultipliers: map[string]float64{
			domain.RoomLivingRoom: 1.0,
			domain.RoomKitchen:    1.1,
			domain.RoomBedroom:    0.8,
			domain.RoomBathroom:   1.2,
			domain.RoomOffice:     1.0,
		},
		WattsPerPercent:        defaultWattsPerPercent,
		CostPerKWh:             defaultCostPerKWh,
		EnergyBufferCap:        defaultEnergyBufferCap,
		PotentialSavingsRate:   defaultPotentialSavingsRate,
		OptimizationEfficiency: defaultOptimizationEfficiency,
	}
}

func (c Config) basePeriodBrightness(hour int) float64 {
	for _, p := range c.BasePeriods {
		if p.StartHour <= p.EndHour {
			if hour >= p.StartHour && hour < p.EndHour {
				return p.Brightness
			}
		} else if hour >= p.StartHour || hour < p.EndHour {
			// wraps midnight
			return p.Brightness
		}
	}
	return float64(c.FallbackBrightness)
}
