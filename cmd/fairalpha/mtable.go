package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexshd/fairalpha"
	"github.com/alexshd/fairalpha/fair"
)

// NewMTableCommand returns the command that prints the FA*IR mtable, optionally for the adjusted alpha.
func NewMTableCommand(opts *rootOptions) *cobra.Command {
	var (
		rf       requestFlags
		adjusted bool
	)

	cmd := &cobra.Command{
		Use:   "mtable",
		Short: "Print the minimum protected candidates required at each ranking position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := rf.request(cmd, opts)
			if err := req.Validate(); err != nil {
				return err
			}

			table := fair.MTable(req.K, req.P, req.Alpha)
			used := req.Alpha
			if adjusted {
				res, err := fairalpha.Adjust(req, fair.Model{}, opts.cfg.SearchConfig())
				if err != nil {
					return err
				}
				table = res.MTable()
				used = res.AdjustedAlpha
				opts.logger.Debug("using adjusted alpha", "alpha", req.Alpha, "adjusted", used)
			}

			cells := make([]string, 0, len(table)-1)
			for _, m := range table[1:] {
				cells = append(cells, fmt.Sprint(m))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# k=%d p=%g alpha=%g\n%s\n", req.K, req.P, used, strings.Join(cells, " "))
			return nil
		},
	}

	rf.bind(cmd)
	cmd.Flags().BoolVar(&adjusted, "adjusted", false, "calibrate alpha first and print the adjusted table")

	return cmd
}
