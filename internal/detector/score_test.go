package detector

import (
	"math"
	"testing"
)

func TestLogisticScore_CenterCrossesHalf(t *testing.T) {
	for _, center := range []float64{0.0, 1.5, 3.0, 10.0} {
		got := LogisticScore(center, center, 1.0)
		if got != 0.5 {
			t.Errorf("LogisticScore(%v, %v, 1.0) = %v, expected exactly 0.5", center, center, got)
		}
	}
}

func TestLogisticScore_SidesOfCenter(t *testing.T) {
	center := 3.0
	for _, metric := range []float64{0.0, 0.5, 1.0, 2.9} {
		if got := LogisticScore(metric, center, 1.0); got > 0.5 {
			t.Errorf("LogisticScore(%v, %v, 1.0) = %v, expected <= 0.5 below center", metric, center, got)
		}
	}
	for _, metric := range []float64{3.1, 4.0, 10.0, 1e6} {
		if got := LogisticScore(metric, center, 1.0); got < 0.5 {
			t.Errorf("LogisticScore(%v, %v, 1.0) = %v, expected >= 0.5 above center", metric, center, got)
		}
	}
}

func TestLogisticScore_MonotonicInMetric(t *testing.T) {
	prev := -1.0
	for metric := 0.0; metric <= 100.0; metric += 0.25 {
		got := LogisticScore(metric, 3.0, 1.0)
		if got < prev {
			t.Fatalf("LogisticScore not non-decreasing: f(%v) = %v < previous %v", metric, got, prev)
		}
		if got < 0.0 || got > 1.0 {
			t.Fatalf("LogisticScore(%v, 3.0, 1.0) = %v, outside [0, 1]", metric, got)
		}
		prev = got
	}
}

func TestLogisticScore_NonFiniteMetric(t *testing.T) {
	for _, metric := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := LogisticScore(metric, 3.0, 1.0); got != 0.0 {
			t.Errorf("LogisticScore(%v, 3.0, 1.0) = %v, expected 0.0", metric, got)
		}
	}
}

func TestLogisticScore_NonPositiveScale(t *testing.T) {
	want := LogisticScore(2.0, 3.0, 1.0)
	for _, scale := range []float64{0.0, -1.0, -0.001} {
		if got := LogisticScore(2.0, 3.0, scale); got != want {
			t.Errorf("LogisticScore(2.0, 3.0, %v) = %v, expected scale to fall back to 1.0 (%v)", scale, got, want)
		}
	}
}

func TestLogisticScore_SaturationClamps(t *testing.T) {
	// x = (metric - center) / scale hits the ±60 clamp.
	if got := LogisticScore(60.0, 0.0, 1.0); got != 1.0 {
		t.Errorf("LogisticScore(60, 0, 1) = %v, expected exactly 1.0", got)
	}
	if got := LogisticScore(0.0, 60.0, 1.0); got != 0.0 {
		t.Errorf("LogisticScore(0, 60, 1) = %v, expected exactly 0.0", got)
	}
	// Far beyond the clamp must not overflow either.
	if got := LogisticScore(1e12, 3.0, 1.0); got != 1.0 {
		t.Errorf("LogisticScore(1e12, 3, 1) = %v, expected exactly 1.0", got)
	}
}

func TestLogisticScore_KnownValues(t *testing.T) {
	// sigma(-2): zero deviation against center 2, scale 1.
	want := 1.0 / (1.0 + math.Exp(2.0))
	if got := LogisticScore(0.0, 2.0, 1.0); math.Abs(got-want) > 1e-15 {
		t.Errorf("LogisticScore(0, 2, 1) = %v, expected %v", got, want)
	}
	// Scale steepens the curve: same metric, smaller scale, further from 0.5.
	mild := LogisticScore(4.0, 3.0, 1.0)
	steep := LogisticScore(4.0, 3.0, 0.5)
	if steep <= mild {
		t.Errorf("expected smaller scale to steepen the curve: scale 0.5 gave %v, scale 1.0 gave %v", steep, mild)
	}
}
