package main

import (
	"fmt"
	"strconv"

	"github.com/phrazzld/numina/internal/domain"
	"github.com/phrazzld/numina/internal/domain/numerology"
	"github.com/spf13/cobra"
)

// reduction is one reduced input.
type reduction struct {
	Input   int  `json:"input"`
	Reduced int  `json:"reduced"`
	Master  bool `json:"master"`
}

func newReduceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reduce N...",
		Short: "Reduce integers to a single digit or master number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]reduction, 0, len(args))
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid integer %q", arg)
				}
				r := numerology.Reduce(n)
				results = append(results, reduction{Input: n, Reduced: r, Master: domain.IsMasterNumber(r)})
			}

			if opts.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}

			p := &textPrinter{w: cmd.OutOrStdout()}
			for _, r := range results {
				if r.Master {
					p.printf("%d -> %d (master)\n", r.Input, r.Reduced)
					continue
				}
				p.printf("%d -> %d\n", r.Input, r.Reduced)
			}
			return p.err
		},
	}
}
