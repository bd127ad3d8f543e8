package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anomstream/anomstream/internal/detector"
)

func newDetectorsCmd(a *app) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List available detectors and their effective parameters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, cfg, err := a.loadConfig(cmd.Context())
			if err != nil {
				return err
			}

			z := cfg.Detectors.ZScore
			e := cfg.Detectors.Ewma
			ad := cfg.Detectors.Adaptive

			if jsonOut {
				type jsonDetector struct {
					Name       string             `json:"name"`
					Parameters map[string]float64 `json:"parameters"`
				}
				out := []jsonDetector{
					{Name: detector.KindZScore, Parameters: map[string]float64{
						"window_size": float64(z.WindowSize),
						"threshold":   z.Threshold,
						"scale":       z.Scale,
						"min_std":     z.MinStd,
					}},
					{Name: detector.KindEwma, Parameters: map[string]float64{
						"alpha":     e.Alpha,
						"threshold": e.Threshold,
						"scale":     e.Scale,
						"min_std":   e.MinStd,
					}},
					{Name: detector.KindAdaptive, Parameters: map[string]float64{
						"window_size": float64(ad.WindowSize),
						"sensitivity": ad.Sensitivity,
						"scale":       ad.Scale,
						"min_dev":     ad.MinDev,
					}},
				}
				b, _ := json.MarshalIndent(out, "", "  ")
				fmt.Fprintln(a.stdout, string(b))
				return nil
			}

			fmt.Fprintf(a.stdout, "%-10s  %s\n", "NAME", "PARAMETERS")
			fmt.Fprintf(a.stdout, "%-10s  window_size=%d threshold=%g scale=%g min_std=%g\n",
				detector.KindZScore, z.WindowSize, z.Threshold, z.Scale, z.MinStd)
			fmt.Fprintf(a.stdout, "%-10s  alpha=%g threshold=%g scale=%g min_std=%g\n",
				detector.KindEwma, e.Alpha, e.Threshold, e.Scale, e.MinStd)
			fmt.Fprintf(a.stdout, "%-10s  window_size=%d sensitivity=%g scale=%g min_dev=%g\n",
				detector.KindAdaptive, ad.WindowSize, ad.Sensitivity, ad.Scale, ad.MinDev)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output as JSON")
	return cmd
}
