package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anomstream/anomstream/internal/config"
	"github.com/anomstream/anomstream/internal/version"
)

type app struct {
	configPath string
	logLevel   string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdin, os.Stdout, os.Stderr)
}

func NewRootCommandWithIO(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(in, out, errOut)
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		stdin:  in,
		stdout: out,
		stderr: errOut,
	}

	cmd := &cobra.Command{
		Use:   "anomstream",
		Short: "Streaming anomaly scoring for timestamped CSV corpora",
		Long: `anomstream scores every record of a CSV corpus with online anomaly
detectors (sliding-window z-score, EWMA, adaptive threshold) and writes one
score file per detector and stream. Each record is scored using only the
records that arrived before it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "anomstream.yaml", "path to the config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(a),
		newDetectorsCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)

	cmd.SetVersionTemplate(fmt.Sprintf("anomstream {{.Version}} (commit %s, built %s)\n", version.Commit, version.BuildDate))
	cmd.SetErrPrefix("anomstream: ")
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// loadConfig loads the config file and applies root-level flag overrides.
// Command flags are layered on top by each command before validation.
func (a *app) loadConfig(ctx context.Context) (config.ConfigManager, *config.Config, error) {
	mgr, err := config.NewConfigManager(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := mgr.Load(ctx); err != nil {
		return nil, nil, err
	}

	cfg := mgr.Get(ctx)
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	return mgr, cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show anomstream build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "anomstream %s (commit %s, built %s)\n", version.Version, version.Commit, version.BuildDate)
			return nil
		},
	}
}
