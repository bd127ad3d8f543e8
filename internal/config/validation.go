package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/anomstream/anomstream/internal/detector"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validate validates the configuration and returns validation errors.
func (c *Config) Validate() []error {
	var errs []error

	// Validate data configuration
	if c.Data.Dir == "" {
		errs = append(errs, &ValidationError{
			Field:   "data.dir",
			Message: "data dir is required",
		})
	}

	// Validate results configuration
	if c.Results.Dir == "" {
		errs = append(errs, &ValidationError{
			Field:   "results.dir",
			Message: "results dir is required",
		})
	}

	if c.Results.Store.Enabled && c.Results.Store.Path == "" {
		errs = append(errs, &ValidationError{
			Field:   "results.store.path",
			Message: "store path is required when store is enabled",
		})
	}

	// Validate runner configuration
	if c.Runner.Workers < 0 {
		errs = append(errs, &ValidationError{
			Field:   "runner.workers",
			Message: fmt.Sprintf("workers cannot be negative, got %d", c.Runner.Workers),
		})
	}

	if len(c.Runner.Detectors) == 0 {
		errs = append(errs, &ValidationError{
			Field:   "runner.detectors",
			Message: "at least one detector is required",
		})
	}
	seen := map[string]bool{}
	for _, kind := range c.Runner.Detectors {
		if !detector.ValidKind(kind) {
			errs = append(errs, &ValidationError{
				Field:   "runner.detectors",
				Message: fmt.Sprintf("invalid detector '%s', must be one of: %s", kind, strings.Join(detector.Kinds(), ", ")),
			})
			continue
		}
		if seen[kind] {
			errs = append(errs, &ValidationError{
				Field:   "runner.detectors",
				Message: fmt.Sprintf("duplicate detector '%s'", kind),
			})
		}
		seen[kind] = true
	}

	if c.Runner.ProbationPercent < 0 || c.Runner.ProbationPercent > 1 {
		errs = append(errs, &ValidationError{
			Field:   "runner.probation_percent",
			Message: fmt.Sprintf("probation_percent must be between 0 and 1, got %g", c.Runner.ProbationPercent),
		})
	}

	// Validate detector configuration
	if c.Detectors.ZScore.WindowSize < 1 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.zscore.window_size",
			Message: fmt.Sprintf("window_size must be at least 1, got %d", c.Detectors.ZScore.WindowSize),
		})
	}
	if c.Detectors.ZScore.Scale <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.zscore.scale",
			Message: fmt.Sprintf("scale must be positive, got %g", c.Detectors.ZScore.Scale),
		})
	}
	if c.Detectors.ZScore.MinStd <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.zscore.min_std",
			Message: fmt.Sprintf("min_std must be positive, got %g", c.Detectors.ZScore.MinStd),
		})
	}

	if c.Detectors.Ewma.Alpha <= 0 || c.Detectors.Ewma.Alpha > 1 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.ewma.alpha",
			Message: fmt.Sprintf("alpha must be in (0, 1], got %g", c.Detectors.Ewma.Alpha),
		})
	}
	if c.Detectors.Ewma.Scale <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.ewma.scale",
			Message: fmt.Sprintf("scale must be positive, got %g", c.Detectors.Ewma.Scale),
		})
	}
	if c.Detectors.Ewma.MinStd <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.ewma.min_std",
			Message: fmt.Sprintf("min_std must be positive, got %g", c.Detectors.Ewma.MinStd),
		})
	}

	if c.Detectors.Adaptive.WindowSize < 1 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.adaptive.window_size",
			Message: fmt.Sprintf("window_size must be at least 1, got %d", c.Detectors.Adaptive.WindowSize),
		})
	}
	if c.Detectors.Adaptive.Scale <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.adaptive.scale",
			Message: fmt.Sprintf("scale must be positive, got %g", c.Detectors.Adaptive.Scale),
		})
	}
	if c.Detectors.Adaptive.MinDev <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "detectors.adaptive.min_dev",
			Message: fmt.Sprintf("min_dev must be positive, got %g", c.Detectors.Adaptive.MinDev),
		})
	}

	// Validate metrics configuration
	if c.Metrics.Enabled {
		if c.Metrics.Listen == "" {
			errs = append(errs, &ValidationError{
				Field:   "metrics.listen",
				Message: "listen address is required when metrics are enabled",
			})
		} else if _, port, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			errs = append(errs, &ValidationError{
				Field:   "metrics.listen",
				Message: fmt.Sprintf("invalid address format (expected host:port): %v", err),
			})
		} else if port == "" {
			errs = append(errs, &ValidationError{
				Field:   "metrics.listen",
				Message: "metrics port cannot be empty",
			})
		}
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, &ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	validLogFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, &ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid log format '%s', must be one of: json, console", c.Logging.Format),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errs = append(errs, &ValidationError{
			Field:   "logging.max_size_mb",
			Message: fmt.Sprintf("max_size_mb cannot be negative, got %d", c.Logging.MaxSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errs = append(errs, &ValidationError{
			Field:   "logging.max_backups",
			Message: fmt.Sprintf("max_backups cannot be negative, got %d", c.Logging.MaxBackups),
		})
	}

	if c.Logging.MaxAgeDays < 0 {
		errs = append(errs, &ValidationError{
			Field:   "logging.max_age_days",
			Message: fmt.Sprintf("max_age_days cannot be negative, got %d", c.Logging.MaxAgeDays),
		})
	}

	return errs
}
