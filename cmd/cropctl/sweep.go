package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cropcal/pkg/app"
)

func newSweepCmd(c *cli) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "sweep [plot-id...]",
		Short: "Re-adjust stored calendars against the current forecast",
		Long: `sweep fetches the forecast for each plot and re-runs the weather rules over
its scheduled events. With no arguments every stored plot is swept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if parallel > 0 {
				cfg.SweepParallel = parallel
			}
			a, err := app.Build(cfg, c.log)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Plan.SweepPlots(cmd.Context(), args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				switch {
				case r.Err != "":
					failed++
					fmt.Fprintf(out, "%s\terror: %s\n", r.PlotID, r.Err)
				default:
					fmt.Fprintf(out, "%s\t%d changed", r.PlotID, r.Changed)
					for _, w := range r.Warnings {
						fmt.Fprintf(out, "\t%s", w.Code)
					}
					fmt.Fprintln(out)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d plots failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "plots adjusted at once (default SWEEP_PARALLEL)")
	return cmd
}
