package cmd

import (
	"github.com/spf13/cobra"

	"cinema-booking-cli/hall"
	"cinema-booking-cli/model"
	"cinema-booking-cli/pricing"
	"cinema-booking-cli/report"
)

func newPricesCmd() *cobra.Command {
	var layout model.HallLayout

	pricesCmd := &cobra.Command{
		Use:   "prices",
		Short: "Print the ticket price tiers of a hall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := hall.ValidateLayout(layout.Rows, layout.SeatsPerRow); err != nil {
				return &usageError{err: err}
			}
			tiers := pricing.Default().Tiers(layout.Rows, layout.SeatsPerRow)
			report.WritePriceTable(cmd.OutOrStdout(), layout, tiers)
			return nil
		},
	}
	pricesCmd.Flags().IntVar(&layout.Rows, "rows", 0, "number of rows in the hall")
	pricesCmd.Flags().IntVar(&layout.SeatsPerRow, "seats", 0, "number of seats in each row")
	_ = pricesCmd.MarkFlagRequired("rows")
	_ = pricesCmd.MarkFlagRequired("seats")
	return pricesCmd
}
