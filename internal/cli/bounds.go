package cli

import (
	"fmt"

	"github.com/piwi3910/StockCut/internal/engine"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/spf13/cobra"
)

func newBoundsCommand(opts *options) *cobra.Command {
	var waste, price float64
	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Estimate how many parent rolls a demand list needs without solving",
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
			width := req.parents[0].Width
			if err := engine.ValidateDemands(req.demands, width); err != nil {
				return err
			}
			if price == 0 {
				price = req.price
			}

			b := engine.EstimateBounds(req.demands, width)
			est := model.CalculatePurchaseEstimate(req.demands, width, waste, price)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Parent width: %g mm\n", width)
			fmt.Fprintf(w, "Total demanded: %.2f m\n", est.TotalMeters)
			fmt.Fprintf(w, "Rolls: at least %d, greedy plan uses %d\n", b.Lower, b.Upper)
			fmt.Fprintf(w, "With %.0f%% waste allowance: %d rolls\n", waste, est.RollsWithWaste)
			if est.EstimatedCost > 0 {
				fmt.Fprintf(w, "Estimated cost: %.2f\n", est.EstimatedCost)
			}
			for i, d := range req.demands {
				fmt.Fprintf(w, "  %s: %d x %g, at most %d per roll\n", d.Label, d.Quantity, d.Length, b.MaxRepeat[i])
			}
			return nil
		},
	}
	addInputFlags(cmd.Flags(), opts)
	cmd.Flags().Float64Var(&waste, "waste", 10, "waste allowance in percent for the purchase estimate")
	cmd.Flags().Float64Var(&price, "price", 0, "price per parent roll, default from the stock preset")
	return cmd
}
