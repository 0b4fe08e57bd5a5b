package cmd

import (
	"fuel-route-service/internal/adapters/repositories"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create the truck_stops and route_cache tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		logger.InfoContext(ctx, "Initializing database schema...")
		if err := repositories.InitSchema(ctx, pool); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Schema ready.")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
