package detector

import (
	"fmt"
	"math"
)

// EwmaConfig configures the exponentially weighted moving average detector.
type EwmaConfig struct {
	// Alpha is the smoothing factor (0 < Alpha <= 1). Larger values weight
	// recent observations more heavily.
	Alpha float64
	// Threshold is the logistic center.
	Threshold float64
	// Scale is the logistic steepness.
	Scale float64
	// MinStd floors the running standard deviation (> 0).
	MinStd float64
	// ProbationaryPeriod is the number of leading records scored 0.0 (>= 0).
	ProbationaryPeriod int
}

// DefaultEwmaConfig returns the standard EWMA configuration.
func DefaultEwmaConfig() EwmaConfig {
	return EwmaConfig{
		Alpha:     0.2,
		Threshold: 3.0,
		Scale:     1.0,
		MinStd:    1e-6,
	}
}

// ewmaDetector keeps a running mean and an exponentially decaying variance
// estimate instead of a window.
type ewmaDetector struct {
	alpha    float64
	center   float64
	scale    float64
	minStd   float64
	ewma     float64
	variance float64
	seeded   bool
	gate     probationGate
}

// NewEwma creates an EWMA detector. The first record of a stream seeds the
// running mean and always scores 0.0; every later record is scored against
// the estimates accumulated from strictly earlier records, and only then
// folded into them.
func NewEwma(cfg EwmaConfig) (Detector, error) {
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		return nil, fmt.Errorf("%s: alpha must be in (0, 1], got %g", KindEwma, cfg.Alpha)
	}
	if err := validateCommon(KindEwma, cfg.MinStd, cfg.ProbationaryPeriod); err != nil {
		return nil, err
	}
	return &ewmaDetector{
		alpha:  cfg.Alpha,
		center: cfg.Threshold,
		scale:  cfg.Scale,
		minStd: cfg.MinStd,
		gate:   probationGate{period: cfg.ProbationaryPeriod},
	}, nil
}

func (d *ewmaDetector) Name() string { return KindEwma }

func (d *ewmaDetector) HandleRecord(value float64) float64 {
	if !d.seeded {
		d.ewma = value
		d.variance = 0.0
		d.seeded = true
		return d.gate.filter(0.0)
	}

	diff := value - d.ewma
	std := math.Max(math.Sqrt(d.variance), d.minStd)
	score := LogisticScore(math.Abs(diff)/std, d.center, d.scale)

	// State updates strictly after scoring. The variance recursion uses the
	// diff against the pre-update mean, so the order is load-bearing.
	d.ewma += d.alpha * diff
	d.variance = (1 - d.alpha) * (d.variance + d.alpha*diff*diff)

	return d.gate.filter(score)
}
