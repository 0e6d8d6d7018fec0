package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexshd/fairalpha"
	"github.com/alexshd/fairalpha/fair"
)

// NewSweepCommand returns the command that calibrates several ranking lengths concurrently.
func NewSweepCommand(opts *rootOptions) *cobra.Command {
	var (
		p       float64
		alpha   float64
		levels  []int
		workers int
	)

	cmd := &cobra.Command{
		Use:     "sweep",
		Short:   "Calibrate alpha for several ranking lengths",
		Example: "  fairalpha sweep -p 0.5 -a 0.1 --levels 20,40,100,500",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := fairalpha.SweepConfig{
				P:      opts.cfg.Calibration.P,
				Alpha:  opts.cfg.Calibration.Alpha,
				Levels: opts.cfg.Sweep.Levels,
				Config: opts.cfg.SearchConfig(),
			}
			flags := cmd.Flags()
			if flags.Changed("p") {
				cfg.P = p
			}
			if flags.Changed("alpha") {
				cfg.Alpha = alpha
			}
			if flags.Changed("levels") {
				cfg.Levels = levels
			}
			if flags.Changed("workers") {
				cfg.Config.Workers = workers
			}

			opts.logger.Info("sweeping", "levels", len(cfg.Levels), "p", cfg.P, "alpha", cfg.Alpha, "workers", cfg.Config.Workers)
			results, err := fairalpha.Sweep(cmd.Context(), fair.Model{}, cfg)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "K\tSTRATEGY\tADJUSTED\tACHIEVED\tDISTANCE\tCALLS")
			for _, r := range results {
				fmt.Fprintf(tw, "%d\t%s\t%.8f\t%.6f\t%.6f\t%d\n",
					r.Request.K, r.Strategy, r.AdjustedAlpha, r.Achieved, r.Distance, r.Evaluations)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			stats := fairalpha.Summarize(results)
			opts.logger.Info("sweep finished",
				"converged", stats.Converged,
				"levels", stats.Levels,
				"mean_distance", stats.MeanDistance,
				"worst_k", stats.WorstK,
				"evaluations", stats.Evaluations,
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&p, "p", "p", 0, "minority proportion (default from config)")
	flags.Float64VarP(&alpha, "alpha", "a", 0, "desired significance (default from config)")
	flags.IntSliceVar(&levels, "levels", nil, "ranking lengths to calibrate (default from config)")
	flags.IntVarP(&workers, "workers", "w", 0, "concurrent calibrations (default from config)")

	return cmd
}
