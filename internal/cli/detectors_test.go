package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDetectorsTable(t *testing.T) {
	out, _, err := executeCLI(t, "detectors")
	if err != nil {
		t.Fatalf("detectors failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 detectors, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "zscore") || !strings.Contains(lines[1], "window_size=10") {
		t.Errorf("unexpected zscore row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "ewma") || !strings.Contains(lines[2], "alpha=0.2") {
		t.Errorf("unexpected ewma row: %q", lines[2])
	}
	if !strings.Contains(lines[3], "adaptive") || !strings.Contains(lines[3], "sensitivity=1.5") {
		t.Errorf("unexpected adaptive row: %q", lines[3])
	}
}

func TestDetectorsJSON(t *testing.T) {
	out, _, err := executeCLI(t, "detectors", "--json")
	if err != nil {
		t.Fatalf("detectors --json failed: %v", err)
	}

	var got []struct {
		Name       string             `json:"name"`
		Parameters map[string]float64 `json:"parameters"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 detectors, got %d", len(got))
	}
	if got[0].Name != "zscore" || got[1].Name != "ewma" || got[2].Name != "adaptive" {
		t.Errorf("unexpected detector order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
	if got[0].Parameters["window_size"] != 10 {
		t.Errorf("zscore window_size = %g, want 10", got[0].Parameters["window_size"])
	}
	if got[1].Parameters["alpha"] != 0.2 {
		t.Errorf("ewma alpha = %g, want 0.2", got[1].Parameters["alpha"])
	}
	if got[2].Parameters["min_dev"] != 1e-6 {
		t.Errorf("adaptive min_dev = %g, want 1e-6", got[2].Parameters["min_dev"])
	}
}
