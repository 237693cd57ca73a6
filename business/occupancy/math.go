package occupancy

import "math"

func dot(a, b [FeatureDim]float64) float64 {
	sum := 0.0
	for i := range FeatureDim {
		sum += a[i] * b[i]
	}
	return sum
}

func sigmoid(z float64) float64 {
	// clamp to keep exp well-behaved on extreme logits
	if z > 35 {
		return 1
	}
	if z < -35 {
		return 0
	}
	return 1 / (1 + math.Exp(-z))
}
