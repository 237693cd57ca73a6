package occupancy

import (
	"math/rand"
	"time"
)

// LogisticModel is a binary classifier over scaled feature vectors, fitted by
// plain gradient descent with a seeded shuffle for reproducible runs.
type LogisticModel struct {
	Weights     [FeatureDim]float64 `json:"weights"`
	Bias        float64             `json:"bias"`
	Trained     bool                `json:"trained"`
	LastUpdated time.Time           `json:"last_updated"`
}

func (m *LogisticModel) Fit(rows [][FeatureDim]float64, labels []float64, learningRate float64, epochs int, seed int64) {
	if len(rows) == 0 || len(rows) != len(labels) {
		return
	}

	rng := rand.New(rand.NewSource(seed))
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})

		for _, idx := range order {
			pred := sigmoid(dot(m.Weights, rows[idx]) + m.Bias)
			grad := pred - labels[idx]
			for f := range FeatureDim {
				m.Weights[f] -= learningRate * grad * rows[idx][f]
			}
			m.Bias -= learningRate * grad
		}
	}

	m.Trained = true
	m.LastUpdated = time.Now()
}

// PredictProba returns P(occupied) for a scaled feature vector.
func (m *LogisticModel) PredictProba(x [FeatureDim]float64) float64 {
	return sigmoid(dot(m.Weights, x) + m.Bias)
}

// Accuracy scores the model against labeled rows at the 0.5 decision
// threshold.
func (m *LogisticModel) Accuracy(rows [][FeatureDim]float64, labels []float64) float64 {
	if len(rows) == 0 {
		return 0
	}
	correct := 0
	for i, row := range rows {
		pred := 0.0
		if m.PredictProba(row) >= 0.5 {
			pred = 1.0
		}
		if pred == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows))
}
