package detector

// Package detector provides streaming anomaly scoring using classical
// statistics.
//
// Responsibilities:
//   - Score each record of a scalar time series the moment it arrives
//   - Guarantee causality: the score for record i depends only on records
//     with index < i (no future leakage into the statistic)
//   - Recover degenerate numerics locally (NaN/Inf metrics, zero variance,
//     non-positive logistic scale) instead of surfacing faults
//   - Force scores to zero during a caller-supplied probationary period
//     while estimates are still unreliable
//
// Philosophy: Classical Statistics, NOT Machine Learning
//   - No training phase, no stored models
//   - Deterministic and reproducible: identical inputs and configuration
//     produce bit-identical score sequences
//   - O(windowSize) or O(1) per record, no I/O, no blocking
//
// Detectors:
//
//  1. Sliding-window z-score (KindZScore)
//     - z = |value - mean| / max(sqrt(population variance), minStd)
//     - Scores 0.0 until the window has windowSize prior values
//     - Use case: sudden spikes or drops against a local baseline
//
//  2. Exponentially weighted moving average (KindEwma)
//     - ratio = |value - ewma| / max(sqrt(variance), minStd), with the
//       running estimates updated only after scoring
//     - Scores 0.0 on the first record (no prior prediction exists)
//     - Use case: drift-tolerant detection without a fixed window
//
//  3. Adaptive max-deviation threshold (KindAdaptive)
//     - ratio = |value - mean| / max(maxAbsDeviation, minDev)
//     - Scores 0.0 until the window has windowSize prior values
//     - Use case: scale-free detection on streams with shifting variance
//
// All three feed their deviation metric through LogisticScore, which maps it
// into [0, 1] with 0.5 at the configured center.
//
// Detector instances are stateful per stream and strictly single-threaded;
// run one instance per (detector, stream) pair and never share instances
// across streams without constructing a fresh one. Configuration is captured
// immutably at construction.

// Detector is the contract shared by all streaming detectors. The harness
// constructs one instance per (detector kind, stream) pair and calls
// HandleRecord once per record in timestamp order.
type Detector interface {
	// Name returns the detector kind (one of Kinds).
	Name() string

	// HandleRecord consumes the next value of the stream and returns its
	// anomaly score in [0, 1]. The score is computed from strictly earlier
	// records only; the current value updates internal state after scoring.
	HandleRecord(value float64) float64
}

// probationGate forces scores to zero for the first period records of a
// stream. The record index is 0-based and owned by the gate, so the guard is
// independent of any "window not full yet" zero score.
type probationGate struct {
	period int
	index  int
}

// filter applies the probation override for the current record and advances
// the record index.
func (g *probationGate) filter(score float64) float64 {
	if g.index < g.period {
		score = 0.0
	}
	g.index++
	return score
}

// deviationMetric computes the deviation of v from the statistics of the
// window's current contents. Implementations must not push v; the caller
// pushes after scoring to preserve causality.
type deviationMetric func(w *BoundedWindow, v float64) float64

// windowedDetector implements the window-then-transform detectors (z-score
// and adaptive threshold). The window/probation plumbing lives here once;
// the two kinds differ only in their deviationMetric.
type windowedDetector struct {
	kind   string
	window *BoundedWindow
	center float64
	scale  float64
	metric deviationMetric
	gate   probationGate
}

func (d *windowedDetector) Name() string { return d.kind }

func (d *windowedDetector) HandleRecord(value float64) float64 {
	// Window not full: structurally unable to score yet. Distinct from the
	// probation override applied by the gate below.
	score := 0.0
	if d.window.Full() {
		score = LogisticScore(d.metric(d.window, value), d.center, d.scale)
	}
	d.window.Push(value)
	return d.gate.filter(score)
}
