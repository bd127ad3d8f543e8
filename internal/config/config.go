package config

import "context"

// Package config provides configuration management for anomstream.
//
// Responsibilities:
//   - Load configuration from YAML files and environment variables
//   - Validate configuration on startup
//   - Provide runtime access to all configuration
//   - Support change notification so long runs can log config edits
//   - Establish reasonable defaults
//
// Configuration Sources (priority order, high to low):
//
//   1. CLI flags (highest priority, applied by the cli package)
//   2. Environment variables (ANOMSTREAM_* prefix, e.g.
//      ANOMSTREAM_DETECTORS_ZSCORE_WINDOW_SIZE)
//   3. YAML config file (default: anomstream.yaml)
//   4. Built-in defaults (lowest priority)
//
// Main Configuration Sections:
//
//   1. Data
//      - dir: Root of the dataset tree (CSV streams)
//
//   2. Results
//      - dir: Root for score files
//      - store.enabled / store.path: SQLite run history
//
//   3. Runner
//      - workers: Parallel stream workers (0 = all CPUs)
//      - detectors: Detector kinds to run
//      - probation_percent: Fraction of each stream treated as warm-up
//
//   4. Detectors
//      - zscore: window_size, threshold, scale, min_std
//      - ewma: alpha, threshold, scale, min_std
//      - adaptive: window_size, sensitivity, scale, min_dev
//
//   5. Metrics
//      - enabled / listen: Prometheus endpoint served during runs
//
//   6. Logging
//      - level: "debug" | "info" | "warn" | "error"
//      - format: "json" | "console"
//      - file + rotation settings (size/backups/age)

// Config contains all configuration fields.
type Config struct {
	// Data configuration
	Data struct {
		Dir string
	}

	// Results configuration
	Results struct {
		Dir   string
		Store struct {
			Enabled bool
			Path    string
		}
	}

	// Runner configuration
	Runner struct {
		Workers          int
		Detectors        []string
		ProbationPercent float64
	}

	// Detector tuning
	Detectors struct {
		ZScore struct {
			WindowSize int
			Threshold  float64
			Scale      float64
			MinStd     float64
		}
		Ewma struct {
			Alpha     float64
			Threshold float64
			Scale     float64
			MinStd    float64
		}
		Adaptive struct {
			WindowSize  int
			Sensitivity float64
			Scale       float64
			MinDev      float64
		}
	}

	// Metrics configuration
	Metrics struct {
		Enabled bool
		Listen  string
	}

	// Logging configuration
	Logging struct {
		Level      string
		Format     string
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
}

// ConfigManager defines the interface for configuration access.
type ConfigManager interface {
	// Load loads configuration from all sources.
	Load(ctx context.Context) error

	// Get returns the current configuration.
	Get(ctx context.Context) *Config

	// Validate validates configuration is correct and complete.
	Validate(ctx context.Context) error

	// Watch watches for configuration file changes and delivers the reloaded
	// config. Changes never apply to a run already in progress.
	Watch(ctx context.Context) <-chan Config

	// Reload reloads configuration from sources.
	Reload(ctx context.Context) error
}

// NewConfigManager creates a new configuration manager.
func NewConfigManager(configPath string) (ConfigManager, error) {
	mgr := &viperConfigManager{
		configPath: configPath,
		config:     DefaultConfig(),
		watchChan:  make(chan Config, 1),
	}
	return mgr, nil
}
