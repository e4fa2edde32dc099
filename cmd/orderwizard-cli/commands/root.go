package commands

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

var (
	catalogPath string
	catalog     *pricing.Catalog
)

func Execute() error {
	root := &cobra.Command{
		Use:   "orderwizard",
		Short: "LLC formation order wizard",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if catalogPath == "" {
				catalog = pricing.DefaultCatalog()
				return nil
			}
			loaded, err := pricing.LoadCatalogFile(catalogPath)
			if err != nil {
				return err
			}
			catalog = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&catalogPath, "catalog", "", "price catalog file (embedded catalog if empty)")

	root.AddCommand(orderCmd(), feesCmd())
	return root.Execute()
}
