package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func feesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fees",
		Short: "List state filing fees from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			fees, err := catalog.Fees().StateFees(cmd.Context())
			if err != nil {
				return err
			}
			for _, fee := range fees {
				line := fmt.Sprintf("%s  filing %s  standard %dd", fee.StateCode, money(fee.FilingCents), fee.StandardDays)
				if fee.RushAvailable && fee.RushCents != nil && fee.RushDays != nil {
					line += fmt.Sprintf("  rush %s (%dd)", money(*fee.RushCents), *fee.RushDays)
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
