package brightness

import (
	"time"
)

// RegressionSample is one observation for the secondary brightness model.
type RegressionSample struct {
	Hour         int
	NaturalLight float64
	Occupancy    float64
	Temperature  float64
	Brightness   float64
}

// LinearModel is a small least-squares regression over named coefficients,
// blended into the rule-based result once trained.
type LinearModel struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	Trained      bool               `json:"trained"`
	LastUpdated  time.Time          `json:"last_updated"`
}

const (
	regressionLearningRate = 0.0005
	regressionEpochs       = 300
	minRegressionSamples   = 20
)

func (m *LinearModel) featureRow(s RegressionSample) map[string]float64 {
	return map[string]float64{
		"hour":          float64(s.Hour),
		"natural_light": s.NaturalLight,
		"occupancy":     s.Occupancy,
		"temperature":   s.Temperature,
	}
}

// Fit runs gradient descent on the samples. Too few samples leaves the model
// untrained rather than fitting noise.
func (m *LinearModel) Fit(samples []RegressionSample) {
	if len(samples) < minRegressionSamples {
		return
	}

	if m.Coefficients == nil {
		m.Coefficients = map[string]float64{
			"hour":          0,
			"natural_light": 0,
			"occupancy":     0,
			"temperature":   0,
		}
	}

	for epoch := 0; epoch < regressionEpochs; epoch++ {
		for _, s := range samples {
			row := m.featureRow(s)
			pred := m.Intercept
			for name, coef := range m.Coefficients {
				pred += coef * row[name]
			}
			grad := pred - s.Brightness
			for name := range m.Coefficients {
				m.Coefficients[name] -= regressionLearningRate * grad * row[name]
			}
			m.Intercept -= regressionLearningRate * grad
		}
	}

	m.Trained = true
	m.LastUpdated = time.Now()
}

func (m *LinearModel) Predict(hour int, naturalLight, occupancy, temperature float64) float64 {
	pred := m.Intercept
	row := m.featureRow(RegressionSample{
		Hour:         hour,
		NaturalLight: naturalLight,
		Occupancy:    occupancy,
		Temperature:  temperature,
	})
	for name, coef := range m.Coefficients {
		pred += coef * row[name]
	}
	return pred
}
