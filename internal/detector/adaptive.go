package detector

import (
	"fmt"
	"math"
)

// AdaptiveConfig configures the adaptive max-deviation threshold detector.
type AdaptiveConfig struct {
	// WindowSize is the sliding window length (>= 1).
	WindowSize int
	// Sensitivity is the logistic center: a deviation ratio equal to
	// Sensitivity maps to 0.5.
	Sensitivity float64
	// Scale is the logistic steepness.
	Scale float64
	// MinDev floors the maximum absolute deviation so a flat window cannot
	// divide by zero (> 0).
	MinDev float64
	// ProbationaryPeriod is the number of leading records scored 0.0 (>= 0).
	ProbationaryPeriod int
}

// DefaultAdaptiveConfig returns the standard adaptive-threshold configuration.
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		WindowSize:  20,
		Sensitivity: 1.5,
		Scale:       0.5,
		MinDev:      1e-6,
	}
}

// NewAdaptive creates an adaptive max-deviation threshold detector. Each
// record is scored by how far it sits from the window mean relative to the
// largest deviation seen inside the window, so the threshold tracks the
// stream's own recent variability. Records arriving before the window is
// full score 0.0.
func NewAdaptive(cfg AdaptiveConfig) (Detector, error) {
	if err := validateCommon(KindAdaptive, cfg.MinDev, cfg.ProbationaryPeriod); err != nil {
		return nil, err
	}
	win, err := NewBoundedWindow(cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KindAdaptive, err)
	}
	return &windowedDetector{
		kind:   KindAdaptive,
		window: win,
		center: cfg.Sensitivity,
		scale:  cfg.Scale,
		metric: adaptiveMetric(cfg.MinDev),
		gate:   probationGate{period: cfg.ProbationaryPeriod},
	}, nil
}

// adaptiveMetric returns |v - mean| / maxDev over the window contents, with
// maxDev floored to minDev.
func adaptiveMetric(minDev float64) deviationMetric {
	return func(w *BoundedWindow, v float64) float64 {
		mean := w.Mean()
		maxDev := math.Max(w.MaxAbsDeviation(), minDev)
		return math.Abs(v-mean) / maxDev
	}
}
