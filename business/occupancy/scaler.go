package occupancy

import "math"

// StandardScaler standardizes features to zero mean, unit variance. Fitted on
// the training split only; constant columns keep a unit deviation so they
// pass through unchanged.
type StandardScaler struct {
	Mean   [FeatureDim]float64 `json:"mean"`
	Std    [FeatureDim]float64 `json:"std"`
	Fitted bool                `json:"fitted"`
}

func (s *StandardScaler) Fit(rows [][FeatureDim]float64) {
	if len(rows) == 0 {
		return
	}

	var mean [FeatureDim]float64
	for _, row := range rows {
		for i := range FeatureDim {
			mean[i] += row[i]
		}
	}
	n := float64(len(rows))
	for i := range FeatureDim {
		mean[i] /= n
	}

	var variance [FeatureDim]float64
	for _, row := range rows {
		for i := range FeatureDim {
			d := row[i] - mean[i]
			variance[i] += d * d
		}
	}

	var std [FeatureDim]float64
	for i := range FeatureDim {
		std[i] = math.Sqrt(variance[i] / n)
		if std[i] == 0 {
			std[i] = 1
		}
	}

	s.Mean = mean
	s.Std = std
	s.Fitted = true
}

func (s *StandardScaler) Transform(x [FeatureDim]float64) [FeatureDim]float64 {
	if !s.Fitted {
		return x
	}
	var out [FeatureDim]float64
	for i := range FeatureDim {
		out[i] = (x[i] - s.Mean[i]) / s.Std[i]
	}
	return out
}

func (s *StandardScaler) TransformAll(rows [][FeatureDim]float64) [][FeatureDim]float64 {
	out := make([][FeatureDim]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
