package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/anomstream/anomstream/internal/results"
)

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded run history",
		Long: `Runs recorded with --store can be listed and inspected after the fact.
The store is a SQLite database; point --store at the path used during
scoring, or set results.store.path once in the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(
		newRunsListCmd(a),
		newRunsShowCmd(a),
	)
	return cmd
}

// openRunStore opens the history database, resolving the path from the
// --store flag or, when empty, from the loaded configuration. Refuses to
// create a database as a side effect of a read-only command.
func (a *app) openRunStore(ctx context.Context, storePath string) (results.Store, error) {
	if storePath == "" {
		_, cfg, err := a.loadConfig(ctx)
		if err != nil {
			return nil, err
		}
		storePath = cfg.Results.Store.Path
	}
	if _, err := os.Stat(storePath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no run store at %s (pass --store to anomstream run to record history)", storePath)
		}
		return nil, err
	}
	store, err := results.NewStore(storePath)
	if err != nil {
		return nil, fmt.Errorf("open run store %s: %w", storePath, err)
	}
	return store, nil
}

func newRunsListCmd(a *app) *cobra.Command {
	var limit int
	var storePath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Example: `  # Show the 20 most recent runs
  anomstream runs list

  # Show the last 5 runs from a specific database
  anomstream runs list --limit 5 --store runs.db

  # JSON output for scripting
  anomstream runs list --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := a.openRunStore(ctx, storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				b, _ := json.MarshalIndent(runs, "", "  ")
				fmt.Fprintln(a.stdout, string(b))
				return nil
			}

			if len(runs) == 0 {
				fmt.Fprintln(a.stdout, "no runs recorded")
				return nil
			}

			fmt.Fprintf(a.stdout, "%-36s  %-19s  %10s  %-22s  %7s  %8s  %8s\n",
				"ID", "STARTED", "DURATION", "DETECTORS", "STREAMS", "RECORDS", "FAILURES")
			for _, r := range runs {
				fmt.Fprintf(a.stdout, "%-36s  %-19s  %10s  %-22s  %7d  %8d  %8d\n",
					r.ID,
					r.StartedAt.Format("2006-01-02 15:04:05"),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
					strings.Join(r.Detectors, ","),
					r.Streams,
					r.Records,
					r.Failures,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&storePath, "store", "", "Run history database (default from config)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}

func newRunsShowCmd(a *app) *cobra.Command {
	var storePath string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-stream results of one run",
		Args:  cobra.ExactArgs(1),
		Example: `  # Show every detector/stream result of a run
  anomstream runs show 9f2d1c3a

  # JSON output
  anomstream runs show 9f2d1c3a --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runID := args[0]

			store, err := a.openRunStore(ctx, storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			streams, err := store.StreamResults(ctx, runID)
			if err != nil {
				return err
			}
			if len(streams) == 0 {
				return fmt.Errorf("no stream results for run %s", runID)
			}

			if jsonOut {
				b, _ := json.MarshalIndent(streams, "", "  ")
				fmt.Fprintln(a.stdout, string(b))
				return nil
			}

			fmt.Fprintf(a.stdout, "%-10s  %-40s  %8s  %8s  %8s  %10s\n",
				"DETECTOR", "STREAM", "RECORDS", "MAX", "MEAN", "DURATION")
			for _, s := range streams {
				fmt.Fprintf(a.stdout, "%-10s  %-40s  %8d  %8.4f  %8.4f  %10s\n",
					s.Detector,
					s.Stream,
					s.Records,
					s.MaxScore,
					s.MeanScore,
					s.Duration.Round(time.Millisecond),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", "", "Run history database (default from config)")
	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}
