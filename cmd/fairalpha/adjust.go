package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/alexshd/fairalpha"
	"github.com/alexshd/fairalpha/fair"
)

type requestFlags struct {
	k      int
	p      float64
	alpha  float64
	target float64
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&f.k, "k", "k", 0, "ranking length (default from config)")
	flags.Float64VarP(&f.p, "p", "p", 0, "minority proportion in ]0, 1[ (default from config)")
	flags.Float64VarP(&f.alpha, "alpha", "a", 0, "desired significance in ]0, 1[ (default from config)")
	flags.Float64Var(&f.target, "target", 0, "compare achieved probability against this value instead of alpha")
}

// request merges explicitly set flags over the configured request.
func (f *requestFlags) request(cmd *cobra.Command, opts *rootOptions) fairalpha.Request {
	req := opts.cfg.Request()
	flags := cmd.Flags()
	if flags.Changed("k") {
		req.K = f.k
	}
	if flags.Changed("p") {
		req.P = f.p
	}
	if flags.Changed("alpha") {
		req.Alpha = f.alpha
		if opts.cfg.Calibration.Target == 0 {
			req.Target = f.alpha
		}
	}
	if flags.Changed("target") {
		req.Target = f.target
	}
	return req
}

type resultJSON struct {
	K             int     `json:"k"`
	P             float64 `json:"p"`
	Alpha         float64 `json:"alpha"`
	Target        float64 `json:"target"`
	AdjustedAlpha float64 `json:"adjusted_alpha"`
	Achieved      float64 `json:"achieved"`
	Distance      float64 `json:"distance"`
	Strategy      string  `json:"strategy"`
	Evaluations   int     `json:"evaluations"`
	Converged     bool    `json:"converged"`
}

func toJSON(r fairalpha.Result) resultJSON {
	return resultJSON{
		K:             r.Request.K,
		P:             r.Request.P,
		Alpha:         r.Request.Alpha,
		Target:        r.Request.Target,
		AdjustedAlpha: r.AdjustedAlpha,
		Achieved:      r.Achieved,
		Distance:      r.Distance,
		Strategy:      r.Strategy,
		Evaluations:   r.Evaluations,
		Converged:     r.Converged,
	}
}

// NewAdjustCommand returns the command that calibrates a single request.
func NewAdjustCommand(opts *rootOptions) *cobra.Command {
	var (
		rf          requestFlags
		jsonOutput  bool
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Find the alpha whose achieved failure probability is closest to the target",
		Long: `Find the alpha whose achieved failure probability is closest to the target.

Rankings with 20 <= k <= 40 are scanned in 500 fixed steps below alpha; longer
rankings use a binary partition search. The achieved probability comes from
the FA*IR binomial model.`,
		Example: "  fairalpha adjust -k 30 -p 0.5 -a 0.1\n  fairalpha adjust -k 200 -p 0.3 -a 0.05 --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := rf.request(cmd, opts)

			metrics := fairalpha.NewMetrics()
			reg := prometheus.NewRegistry()
			if err := metrics.Register(reg); err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}

			c, err := fairalpha.New(req.K, req.P, req.Alpha,
				fairalpha.WithTarget(req.Target),
				fairalpha.WithEvaluator(fair.Model{}),
				fairalpha.WithConfig(opts.cfg.SearchConfig()),
				fairalpha.WithLogger(opts.logger),
				fairalpha.WithMetrics(metrics),
			)
			if err != nil {
				return err
			}

			opts.logger.Info("calibrating", "k", c.K(), "p", c.P(), "alpha", c.Alpha(), "strategy", c.Strategy().Name())
			res := c.AdjustAlpha()
			if !res.Converged && res.Strategy == "binary" {
				opts.logger.Warn("binary search ended without meeting tolerance",
					"distance", res.Distance, "tolerance", opts.cfg.Search.Tolerance)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(toJSON(res)); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "adjusted alpha: %.10g\n", res.AdjustedAlpha)
				fmt.Fprintf(out, "achieved:       %.6f (target %.6f, distance %.6f)\n", res.Achieved, req.Target, res.Distance)
				fmt.Fprintf(out, "strategy:       %s (%d evaluations)\n", res.Strategy, res.Evaluations)
			}

			if showMetrics {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}

	rf.bind(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print calibration metrics in Prometheus text format")

	return cmd
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
