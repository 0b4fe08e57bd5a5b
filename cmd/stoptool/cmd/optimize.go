package cmd

import (
	"encoding/json"
	"fuel-route-service/internal/api/dto"
	"fuel-route-service/internal/app"
	"fuel-route-service/internal/services"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	startCoords string
	endCoords   string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Plan fuel stops for one trip and print the result as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		stack, err := app.Build(ctx, cfg, logger, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer stack.Close()

		trip, err := stack.Planner.Plan(ctx, services.TripRequest{Start: startCoords, End: endCoords})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewOptimizeResponse(trip))
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)
	optimizeCmd.Flags().StringVarP(&startCoords, "start", "s", "", `start coordinates as "lon,lat"`)
	optimizeCmd.Flags().StringVarP(&endCoords, "end", "e", "", `end coordinates as "lon,lat"`)
	_ = optimizeCmd.MarkFlagRequired("start")
	_ = optimizeCmd.MarkFlagRequired("end")
}
