package detector

import "math"

// LogisticScore maps a non-negative deviation metric to a bounded anomaly
// score in [0, 1] using a logistic curve centered at center.
//
// Guards (recovered locally, never surfaced as errors):
//   - metric NaN or ±Inf → 0.0
//   - scale <= 0 → treated as 1.0 (a non-positive scale would mean division
//     by zero or a step function)
//   - the exponent is clamped at ±60 so the result saturates to exactly 1.0
//     or 0.0 instead of overflowing math.Exp
//
// The result is monotone in metric and crosses exactly 0.5 when
// metric == center.
func LogisticScore(metric, center, scale float64) float64 {
	if math.IsNaN(metric) || math.IsInf(metric, 0) {
		return 0.0
	}
	if scale <= 0 {
		scale = 1.0
	}
	x := (metric - center) / scale
	if x >= 60.0 {
		return 1.0
	}
	if x <= -60.0 {
		return 0.0
	}
	return 1.0 / (1.0 + math.Exp(-x))
}
