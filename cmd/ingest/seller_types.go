package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vehicle-auction/inventory/internal/services"
)

var sellerTypesCmd = &cobra.Command{
	Use:   "seller-types",
	Short: "Print the seller types the auction source accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := services.SellerTypeCatalog()
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "available: %s\n", strings.Join(catalog.AvailableSellerTypes, ", ")); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "default:   %s\n", strings.Join(catalog.DefaultSellerTypes, ", "))
		return err
	},
}

func init() {
	rootCmd.AddCommand(sellerTypesCmd)
}
