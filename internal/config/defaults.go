package config

import "github.com/anomstream/anomstream/internal/detector"

// DefaultConfig returns a configuration with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Data defaults
	cfg.Data.Dir = "data"

	// Results defaults
	cfg.Results.Dir = "results"
	cfg.Results.Store.Enabled = false
	cfg.Results.Store.Path = "anomstream.db"

	// Runner defaults
	cfg.Runner.Workers = 0 // 0 means one worker per CPU
	cfg.Runner.Detectors = detector.Kinds()
	cfg.Runner.ProbationPercent = 0.15

	// Detector defaults
	cfg.Detectors.ZScore.WindowSize = 10
	cfg.Detectors.ZScore.Threshold = 3.0
	cfg.Detectors.ZScore.Scale = 1.0
	cfg.Detectors.ZScore.MinStd = 1e-6

	cfg.Detectors.Ewma.Alpha = 0.2
	cfg.Detectors.Ewma.Threshold = 3.0
	cfg.Detectors.Ewma.Scale = 1.0
	cfg.Detectors.Ewma.MinStd = 1e-6

	cfg.Detectors.Adaptive.WindowSize = 20
	cfg.Detectors.Adaptive.Sensitivity = 1.5
	cfg.Detectors.Adaptive.Scale = 0.5
	cfg.Detectors.Adaptive.MinDev = 1e-6

	// Metrics defaults
	cfg.Metrics.Enabled = false
	cfg.Metrics.Listen = ":2112"

	// Logging defaults
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "console"
	cfg.Logging.File = ""
	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28

	return cfg
}
