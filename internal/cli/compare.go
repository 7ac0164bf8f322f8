package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/StockCut/internal/config"
	"github.com/piwi3910/StockCut/internal/engine"
	"github.com/spf13/cobra"
)

func newCompareCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Solve with each strategy and compare rolls and trim",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			req, err := loadRequest(opts, cfg)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(config.Settings(cfg))
			results, err := engine.CompareScenarios(cmd.Context(), scenarios, req.demands, req.parents)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tSTATUS\tROLLS\tCUTS\tTRIM (mm)\tWASTE\tTIME")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.1f%%\t%.3fs\n",
					r.Scenario.Name, r.Result.StatusName, r.RollsUsed, r.TotalCuts, r.TotalTrim, r.WastePercent, r.Result.WallTime)
			}
			return tw.Flush()
		},
	}
	addInputFlags(cmd.Flags(), opts)
	addSolverFlags(cmd.Flags())
	return cmd
}
