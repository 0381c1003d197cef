package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"vehicle-auction/inventory/internal/api"
)

var runSellerTypes []string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replace the listing store with a fresh pull from the auction source",
	RunE: withDeps(func(cmd *cobra.Command, args []string, deps *api.Dependencies) error {
		report, runErr := deps.Ingestion.Run(cmd.Context(), runSellerTypes)
		if report != nil {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		}
		return runErr
	}),
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&runSellerTypes, "seller-types", nil, "Seller types to ingest (comma separated, defaults when empty)")
}
