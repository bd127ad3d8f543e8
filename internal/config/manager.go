package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// viperConfigManager implements ConfigManager using Viper.
type viperConfigManager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
	watchChan  chan Config
}

// Load loads configuration from all sources.
func (m *viperConfigManager) Load(ctx context.Context) error {
	// Initialize viper
	m.viper = viper.New()

	// Set config file path
	m.viper.SetConfigFile(m.configPath)
	m.viper.SetConfigType("yaml")

	// Set environment variable prefix
	m.viper.SetEnvPrefix("ANOMSTREAM")
	m.viper.AutomaticEnv()
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	m.setDefaults()

	// Try to read config file (optional)
	if err := m.viper.ReadInConfig(); err != nil {
		// Config file not found is OK if it doesn't exist, we'll use defaults + env vars
		// Check both ConfigFileNotFoundError and os.IsNotExist for file not found
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// File not found via viper - OK, use defaults
		} else if os.IsNotExist(err) {
			// File not found via os - OK, use defaults
		} else {
			// Other error reading config file
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := m.unmarshalConfig(); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	return nil
}

// Get returns the current configuration.
func (m *viperConfigManager) Get(ctx context.Context) *Config {
	return m.config
}

// Validate validates configuration is correct and complete.
func (m *viperConfigManager) Validate(ctx context.Context) error {
	errs := m.config.Validate()
	if len(errs) > 0 {
		// Combine all errors into a single error message
		var errMsgs []string
		for _, err := range errs {
			errMsgs = append(errMsgs, err.Error())
		}
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errMsgs, "\n  - "))
	}
	return nil
}

// Watch watches for configuration changes and reloads.
func (m *viperConfigManager) Watch(ctx context.Context) <-chan Config {
	// Start watching config file
	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(e fsnotify.Event) {
		// Reload config
		if err := m.unmarshalConfig(); err != nil {
			// Log error but don't send to channel
			return
		}
		// Send updated config to channel
		select {
		case m.watchChan <- *m.config:
		default:
			// Channel full, skip this update
		}
	})

	return m.watchChan
}

// Reload reloads configuration from sources.
func (m *viperConfigManager) Reload(ctx context.Context) error {
	// Re-read config file
	if err := m.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := m.unmarshalConfig(); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	return nil
}

// setDefaults sets default values in viper.
func (m *viperConfigManager) setDefaults() {
	defaults := DefaultConfig()

	// Data defaults
	m.viper.SetDefault("data.dir", defaults.Data.Dir)

	// Results defaults
	m.viper.SetDefault("results.dir", defaults.Results.Dir)
	m.viper.SetDefault("results.store.enabled", defaults.Results.Store.Enabled)
	m.viper.SetDefault("results.store.path", defaults.Results.Store.Path)

	// Runner defaults
	m.viper.SetDefault("runner.workers", defaults.Runner.Workers)
	m.viper.SetDefault("runner.detectors", defaults.Runner.Detectors)
	m.viper.SetDefault("runner.probation_percent", defaults.Runner.ProbationPercent)

	// Detector defaults
	m.viper.SetDefault("detectors.zscore.window_size", defaults.Detectors.ZScore.WindowSize)
	m.viper.SetDefault("detectors.zscore.threshold", defaults.Detectors.ZScore.Threshold)
	m.viper.SetDefault("detectors.zscore.scale", defaults.Detectors.ZScore.Scale)
	m.viper.SetDefault("detectors.zscore.min_std", defaults.Detectors.ZScore.MinStd)

	m.viper.SetDefault("detectors.ewma.alpha", defaults.Detectors.Ewma.Alpha)
	m.viper.SetDefault("detectors.ewma.threshold", defaults.Detectors.Ewma.Threshold)
	m.viper.SetDefault("detectors.ewma.scale", defaults.Detectors.Ewma.Scale)
	m.viper.SetDefault("detectors.ewma.min_std", defaults.Detectors.Ewma.MinStd)

	m.viper.SetDefault("detectors.adaptive.window_size", defaults.Detectors.Adaptive.WindowSize)
	m.viper.SetDefault("detectors.adaptive.sensitivity", defaults.Detectors.Adaptive.Sensitivity)
	m.viper.SetDefault("detectors.adaptive.scale", defaults.Detectors.Adaptive.Scale)
	m.viper.SetDefault("detectors.adaptive.min_dev", defaults.Detectors.Adaptive.MinDev)

	// Metrics defaults
	m.viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	m.viper.SetDefault("metrics.listen", defaults.Metrics.Listen)

	// Logging defaults
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.file", defaults.Logging.File)
	m.viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	m.viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	m.viper.SetDefault("logging.max_age_days", defaults.Logging.MaxAgeDays)
}

// unmarshalConfig unmarshals viper config into Config struct.
func (m *viperConfigManager) unmarshalConfig() error {
	cfg := &Config{}

	// Data
	cfg.Data.Dir = m.viper.GetString("data.dir")

	// Results
	cfg.Results.Dir = m.viper.GetString("results.dir")
	cfg.Results.Store.Enabled = m.viper.GetBool("results.store.enabled")
	cfg.Results.Store.Path = m.viper.GetString("results.store.path")

	// Runner
	cfg.Runner.Workers = m.viper.GetInt("runner.workers")
	cfg.Runner.Detectors = splitDetectorList(m.viper.GetStringSlice("runner.detectors"))
	cfg.Runner.ProbationPercent = m.viper.GetFloat64("runner.probation_percent")

	// Detectors
	cfg.Detectors.ZScore.WindowSize = m.viper.GetInt("detectors.zscore.window_size")
	cfg.Detectors.ZScore.Threshold = m.viper.GetFloat64("detectors.zscore.threshold")
	cfg.Detectors.ZScore.Scale = m.viper.GetFloat64("detectors.zscore.scale")
	cfg.Detectors.ZScore.MinStd = m.viper.GetFloat64("detectors.zscore.min_std")

	cfg.Detectors.Ewma.Alpha = m.viper.GetFloat64("detectors.ewma.alpha")
	cfg.Detectors.Ewma.Threshold = m.viper.GetFloat64("detectors.ewma.threshold")
	cfg.Detectors.Ewma.Scale = m.viper.GetFloat64("detectors.ewma.scale")
	cfg.Detectors.Ewma.MinStd = m.viper.GetFloat64("detectors.ewma.min_std")

	cfg.Detectors.Adaptive.WindowSize = m.viper.GetInt("detectors.adaptive.window_size")
	cfg.Detectors.Adaptive.Sensitivity = m.viper.GetFloat64("detectors.adaptive.sensitivity")
	cfg.Detectors.Adaptive.Scale = m.viper.GetFloat64("detectors.adaptive.scale")
	cfg.Detectors.Adaptive.MinDev = m.viper.GetFloat64("detectors.adaptive.min_dev")

	// Metrics
	cfg.Metrics.Enabled = m.viper.GetBool("metrics.enabled")
	cfg.Metrics.Listen = m.viper.GetString("metrics.listen")

	// Logging
	cfg.Logging.Level = m.viper.GetString("logging.level")
	cfg.Logging.Format = m.viper.GetString("logging.format")
	cfg.Logging.File = m.viper.GetString("logging.file")
	cfg.Logging.MaxSizeMB = m.viper.GetInt("logging.max_size_mb")
	cfg.Logging.MaxBackups = m.viper.GetInt("logging.max_backups")
	cfg.Logging.MaxAgeDays = m.viper.GetInt("logging.max_age_days")

	m.config = cfg
	return nil
}

// splitDetectorList normalizes a detector list. Environment variables and
// flags deliver the list as a single comma-separated entry, so every entry
// is split again and trimmed.
func splitDetectorList(entries []string) []string {
	var kinds []string
	for _, entry := range entries {
		for _, kind := range strings.Split(entry, ",") {
			kind = strings.TrimSpace(kind)
			if kind != "" {
				kinds = append(kinds, kind)
			}
		}
	}
	return kinds
}
