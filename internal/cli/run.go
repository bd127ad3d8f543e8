package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anomstream/anomstream/internal/config"
	"github.com/anomstream/anomstream/internal/detector"
	"github.com/anomstream/anomstream/internal/logging"
	"github.com/anomstream/anomstream/internal/metrics"
	"github.com/anomstream/anomstream/internal/results"
	"github.com/anomstream/anomstream/internal/runner"
)

func newRunCmd(a *app) *cobra.Command {
	var dataDir string
	var resultsDir string
	var workers int
	var detectorList []string
	var probation float64
	var storePath string
	var metricsListen string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every stream in the data directory",
		Example: `  # Score ./data with all detectors into ./results
  anomstream run

  # Two detectors, explicit directories
  anomstream run --data-dir corpus --results-dir out --detectors zscore,ewma

  # Keep a run history in SQLite
  anomstream run --store runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mgr, cfg, err := a.loadConfig(ctx)
			if err != nil {
				return err
			}

			// Flag overrides beat both file and environment.
			flags := cmd.Flags()
			if flags.Changed("data-dir") {
				cfg.Data.Dir = dataDir
			}
			if flags.Changed("results-dir") {
				cfg.Results.Dir = resultsDir
			}
			if flags.Changed("workers") {
				cfg.Runner.Workers = workers
			}
			if flags.Changed("detectors") {
				cfg.Runner.Detectors = detectorList
			}
			if flags.Changed("probation-percent") {
				cfg.Runner.ProbationPercent = probation
			}
			if flags.Changed("store") {
				cfg.Results.Store.Enabled = true
				cfg.Results.Store.Path = storePath
			}
			if flags.Changed("metrics-listen") {
				cfg.Metrics.Enabled = true
				cfg.Metrics.Listen = metricsListen
			}

			if err := mgr.Validate(ctx); err != nil {
				return err
			}

			logger, err := logging.New(&logging.Config{
				Level:      cfg.Logging.Level,
				Format:     cfg.Logging.Format,
				File:       cfg.Logging.File,
				MaxSizeMB:  cfg.Logging.MaxSizeMB,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAgeDays: cfg.Logging.MaxAgeDays,
				Compress:   true,
			})
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			// A config change on disk never alters the pass in flight; it is
			// picked up when the next run loads the file.
			watchCh := mgr.Watch(ctx)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-watchCh:
						logger.Info("config file changed, applies to the next run")
					}
				}
			}()

			var store results.Store
			if cfg.Results.Store.Enabled {
				store, err = results.NewStore(cfg.Results.Store.Path)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			if cfg.Metrics.Enabled {
				srv := metrics.NewServer(cfg.Metrics.Listen)
				go func() {
					if err := srv.Start(); err != nil {
						logger.Error("metrics server failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						logger.Warn("metrics server shutdown failed", zap.Error(err))
					}
				}()
			}

			r := runner.New(runnerOptions(cfg, store), logger)
			run, err := r.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "run %s finished in %s\n", run.ID, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
			fmt.Fprintf(a.stdout, "  detectors: %s\n", strings.Join(run.Detectors, ", "))
			fmt.Fprintf(a.stdout, "  streams:   %d\n", run.Streams)
			fmt.Fprintf(a.stdout, "  records:   %d\n", run.Records)
			fmt.Fprintf(a.stdout, "  results:   %s\n", cfg.Results.Dir)

			if run.Failures > 0 {
				return fmt.Errorf("%d detector/stream pairs failed (see log)", run.Failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory of input CSV streams")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "directory for score files")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	cmd.Flags().StringSliceVar(&detectorList, "detectors", nil, "detector kinds to run (default all)")
	cmd.Flags().Float64Var(&probation, "probation-percent", 0.15, "fraction of each stream scored 0.0 as warm-up")
	cmd.Flags().StringVar(&storePath, "store", "", "SQLite path for run history (enables the store)")
	cmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")
	return cmd
}

// runnerOptions maps the resolved configuration onto runner options.
func runnerOptions(cfg *config.Config, store results.Store) runner.Options {
	return runner.Options{
		DataDir:          cfg.Data.Dir,
		ResultsDir:       cfg.Results.Dir,
		Workers:          cfg.Runner.Workers,
		Detectors:        cfg.Runner.Detectors,
		ProbationPercent: cfg.Runner.ProbationPercent,
		ZScore: detector.ZScoreConfig{
			WindowSize: cfg.Detectors.ZScore.WindowSize,
			Threshold:  cfg.Detectors.ZScore.Threshold,
			Scale:      cfg.Detectors.ZScore.Scale,
			MinStd:     cfg.Detectors.ZScore.MinStd,
		},
		Ewma: detector.EwmaConfig{
			Alpha:     cfg.Detectors.Ewma.Alpha,
			Threshold: cfg.Detectors.Ewma.Threshold,
			Scale:     cfg.Detectors.Ewma.Scale,
			MinStd:    cfg.Detectors.Ewma.MinStd,
		},
		Adaptive: detector.AdaptiveConfig{
			WindowSize:  cfg.Detectors.Adaptive.WindowSize,
			Sensitivity: cfg.Detectors.Adaptive.Sensitivity,
			Scale:       cfg.Detectors.Adaptive.Scale,
			MinDev:      cfg.Detectors.Adaptive.MinDev,
		},
		Store: store,
	}
}
