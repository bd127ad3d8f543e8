package detector

import (
	"math"
	"testing"
)

func TestEwma_ConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*EwmaConfig)
		wantErr bool
	}{
		{"defaults", func(c *EwmaConfig) {}, false},
		{"alpha one", func(c *EwmaConfig) { c.Alpha = 1.0 }, false},
		{"alpha zero", func(c *EwmaConfig) { c.Alpha = 0 }, true},
		{"alpha negative", func(c *EwmaConfig) { c.Alpha = -0.1 }, true},
		{"alpha above one", func(c *EwmaConfig) { c.Alpha = 1.1 }, true},
		{"zero minStd", func(c *EwmaConfig) { c.MinStd = 0 }, true},
		{"negative probation", func(c *EwmaConfig) { c.ProbationaryPeriod = -3 }, true},
	}

	for _, tc := range cases {
		cfg := DefaultEwmaConfig()
		tc.mutate(&cfg)
		d, err := NewEwma(cfg)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.wantErr && d.Name() != KindEwma {
			t.Errorf("%s: Name() = %q, expected %q", tc.name, d.Name(), KindEwma)
		}
	}
}

func TestEwma_FirstRecordScoresZero(t *testing.T) {
	for _, first := range []float64{0, 42, -1e9, 1e12} {
		d, err := NewEwma(DefaultEwmaConfig())
		if err != nil {
			t.Fatalf("NewEwma error: %v", err)
		}
		if got := d.HandleRecord(first); got != 0.0 {
			t.Errorf("first record %v scored %v, expected 0.0", first, got)
		}
	}
}

func TestEwma_ConstantStream(t *testing.T) {
	d, err := NewEwma(DefaultEwmaConfig())
	if err != nil {
		t.Fatalf("NewEwma error: %v", err)
	}

	// diff stays 0 so the variance estimate never leaves 0 and every
	// post-seed score is the same sigma(-threshold) floor value.
	want := 1.0 / (1.0 + math.Exp(3.0))
	if got := d.HandleRecord(5.0); got != 0.0 {
		t.Fatalf("seed record scored %v, expected 0.0", got)
	}
	for i := 1; i < 10; i++ {
		got := d.HandleRecord(5.0)
		if math.Abs(got-want) > 1e-15 {
			t.Errorf("constant record %d scored %v, expected %v", i, got, want)
		}
		if got >= 0.5 {
			t.Errorf("constant record %d scored %v, expected < 0.5", i, got)
		}
	}
}

func TestEwma_ConstantStreamSteepScaleClampsToZero(t *testing.T) {
	cfg := DefaultEwmaConfig()
	cfg.Scale = 0.05
	d, err := NewEwma(cfg)
	if err != nil {
		t.Fatalf("NewEwma error: %v", err)
	}

	// x = (0 - 3.0) / 0.05 = -60 hits the clamp, so the floor score is an
	// exact 0.0 rather than a tiny positive value.
	for i := 0; i < 6; i++ {
		if got := d.HandleRecord(7.0); got != 0.0 {
			t.Errorf("record %d scored %v, expected exact 0.0 from the clamp", i, got)
		}
	}
}

func TestEwma_ScoresBeforeUpdatingState(t *testing.T) {
	d, err := NewEwma(EwmaConfig{
		Alpha:     0.5,
		Threshold: 1.0,
		Scale:     1.0,
		MinStd:    1e-6,
	})
	if err != nil {
		t.Fatalf("NewEwma error: %v", err)
	}

	// Hand-computed: seed ewma=10; the jump to 12 is scored against the
	// zero-variance floor (saturates), then ewma becomes 11 and variance 1.
	// The second 12 has diff 1 against std 1, exactly the center, so 0.5.
	// Updating state before scoring would give 0.539 instead.
	input := []float64{10, 12, 12}
	want := []float64{0, 1.0, 0.5}
	for i, v := range input {
		got := d.HandleRecord(v)
		if got != want[i] {
			t.Errorf("score[%d] = %v, expected exactly %v", i, got, want[i])
		}
	}
}

func TestEwma_ReactsToLevelShift(t *testing.T) {
	cfg := DefaultEwmaConfig()
	d, err := NewEwma(cfg)
	if err != nil {
		t.Fatalf("NewEwma error: %v", err)
	}

	// A noisy-but-stable stream, then a level shift.
	stable := []float64{10, 10.5, 9.5, 10.2, 9.8, 10.1, 9.9, 10.3, 9.7, 10}
	var last float64
	for _, v := range stable {
		last = d.HandleRecord(v)
	}
	shifted := d.HandleRecord(25.0)
	if shifted <= last {
		t.Errorf("level shift scored %v, expected above the stable score %v", shifted, last)
	}
	if shifted <= 0.5 {
		t.Errorf("level shift scored %v, expected > 0.5", shifted)
	}
}
