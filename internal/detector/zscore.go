package detector

import (
	"fmt"
	"math"
)

// ZScoreConfig configures the sliding-window z-score detector.
type ZScoreConfig struct {
	// WindowSize is the sliding window length (>= 1).
	WindowSize int
	// Threshold is the logistic center: a z-score equal to Threshold maps
	// to 0.5.
	Threshold float64
	// Scale is the logistic steepness.
	Scale float64
	// MinStd floors the standard deviation so a zero-variance window cannot
	// divide by zero (> 0).
	MinStd float64
	// ProbationaryPeriod is the number of leading records scored 0.0
	// regardless of the computed value (>= 0).
	ProbationaryPeriod int
}

// DefaultZScoreConfig returns the standard z-score configuration.
func DefaultZScoreConfig() ZScoreConfig {
	return ZScoreConfig{
		WindowSize: 10,
		Threshold:  3.0,
		Scale:      1.0,
		MinStd:     1e-6,
	}
}

// NewZScore creates a sliding-window z-score detector. The score for each
// record is LogisticScore(z, Threshold, Scale) where z is the absolute
// z-score of the value against the mean and population standard deviation of
// the previous WindowSize values. Records arriving before the window is full
// score 0.0.
func NewZScore(cfg ZScoreConfig) (Detector, error) {
	if err := validateCommon(KindZScore, cfg.MinStd, cfg.ProbationaryPeriod); err != nil {
		return nil, err
	}
	win, err := NewBoundedWindow(cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KindZScore, err)
	}
	return &windowedDetector{
		kind:   KindZScore,
		window: win,
		center: cfg.Threshold,
		scale:  cfg.Scale,
		metric: zScoreMetric(cfg.MinStd),
		gate:   probationGate{period: cfg.ProbationaryPeriod},
	}, nil
}

// zScoreMetric returns |v - mean| / std over the window contents, with std
// floored to minStd.
func zScoreMetric(minStd float64) deviationMetric {
	return func(w *BoundedWindow, v float64) float64 {
		mean := w.Mean()
		std := math.Max(math.Sqrt(w.PopulationVariance()), minStd)
		return math.Abs(v-mean) / std
	}
}

// validateCommon rejects construction parameters the runtime guards cannot
// recover: a non-positive floor would reintroduce division by zero, and a
// negative probationary period has no meaning.
func validateCommon(kind string, floor float64, probation int) error {
	if floor <= 0 {
		return fmt.Errorf("%s: deviation floor must be > 0, got %g", kind, floor)
	}
	if probation < 0 {
		return fmt.Errorf("%s: probationary period must be >= 0, got %d", kind, probation)
	}
	return nil
}
