package detector

import "testing"

// buildAll constructs one detector of each kind with small windows and the
// given probationary period, so every kind would otherwise score early.
func buildAll(t *testing.T, probation int) []Detector {
	t.Helper()

	zCfg := DefaultZScoreConfig()
	zCfg.WindowSize = 2
	zCfg.ProbationaryPeriod = probation
	z, err := NewZScore(zCfg)
	if err != nil {
		t.Fatalf("NewZScore error: %v", err)
	}

	eCfg := DefaultEwmaConfig()
	eCfg.ProbationaryPeriod = probation
	e, err := NewEwma(eCfg)
	if err != nil {
		t.Fatalf("NewEwma error: %v", err)
	}

	aCfg := DefaultAdaptiveConfig()
	aCfg.WindowSize = 2
	aCfg.ProbationaryPeriod = probation
	a, err := NewAdaptive(aCfg)
	if err != nil {
		t.Fatalf("NewAdaptive error: %v", err)
	}

	return []Detector{z, e, a}
}

func TestProbationOverridesEveryKind(t *testing.T) {
	inputs := map[string][]float64{
		"constant": {7, 7, 7, 7, 7, 7, 7, 7},
		"wild":     {1, 1000, -50, 3, 1e6, 2, 2, 2},
	}
	const probation = 5

	for name, input := range inputs {
		for _, d := range buildAll(t, probation) {
			for i, v := range input {
				got := d.HandleRecord(v)
				if i < probation && got != 0.0 {
					t.Errorf("%s/%s: record %d scored %v inside probation, expected 0.0",
						d.Name(), name, i, got)
				}
				if got < 0.0 || got > 1.0 {
					t.Errorf("%s/%s: record %d scored %v, outside [0, 1]",
						d.Name(), name, i, got)
				}
			}
		}
	}
}

func TestProbationConsumesWarmup(t *testing.T) {
	// Probation and "window not full" are independent guards: with
	// probation 2 and window 2, the first computable score (record 2) is
	// already past probation and must not be suppressed.
	for _, d := range buildAll(t, 2) {
		d.HandleRecord(1)
		d.HandleRecord(5)
		if got := d.HandleRecord(100); got == 0.0 {
			t.Errorf("%s: first post-probation record scored 0.0, expected a computed score", d.Name())
		}
	}
}

func TestDeterministicScores(t *testing.T) {
	// Fixed pseudo-random input; two independent instances per kind must
	// produce bit-identical sequences.
	input := make([]float64, 200)
	seed := uint32(42)
	for i := range input {
		seed = seed*1664525 + 1013904223
		input[i] = float64(seed%10000) / 100.0
	}

	first := buildAll(t, 10)
	second := buildAll(t, 10)
	for k := range first {
		for i, v := range input {
			a := first[k].HandleRecord(v)
			b := second[k].HandleRecord(v)
			if a != b {
				t.Fatalf("%s: record %d scored %v and %v across identical runs", first[k].Name(), i, a, b)
			}
		}
	}
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 3 {
		t.Fatalf("Kinds() returned %d kinds, expected 3", len(kinds))
	}
	want := []string{KindZScore, KindEwma, KindAdaptive}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("Kinds()[%d] = %q, expected %q", i, kinds[i], k)
		}
		if !ValidKind(k) {
			t.Errorf("ValidKind(%q) = false, expected true", k)
		}
	}
	if ValidKind("isolation_forest") {
		t.Error(`ValidKind("isolation_forest") = true, expected false`)
	}
}
