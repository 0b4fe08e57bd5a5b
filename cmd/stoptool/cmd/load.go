package cmd

import (
	"fmt"
	"fuel-route-service/internal/adapters/repositories"
	"os"

	"github.com/spf13/cobra"
)

var replace bool

var loadCmd = &cobra.Command{
	Use:   "load <csv>",
	Short: "Load an OPIS truck stop price export into Postgres",
	Long: `load parses an OPIS CSV export and copies every valid row into truck_stops.

Malformed rows are logged and skipped. When the table already holds stops the
load is skipped unless --replace is given, in which case the table is
truncated and reloaded in a single transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()

		stops, skipped, err := repositories.LoadStopsCSV(f, logger)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Parsed stop corpus", "stops", len(stops), "skipped", skipped)

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := repositories.InitSchema(ctx, pool); err != nil {
			return err
		}

		repo := repositories.NewPgStopRepository(pool, logger)
		res, err := repositories.LoadCorpus(ctx, repo, stops, replace)
		if err != nil {
			return err
		}

		switch res.Outcome {
		case repositories.LoadSkipped:
			logger.WarnContext(ctx, "truck_stops already populated, skipping load (use --replace)", "rows", res.Rows)
		case repositories.LoadReplaced:
			logger.InfoContext(ctx, "Replaced stop corpus", "rows", res.Rows)
		default:
			logger.InfoContext(ctx, "Loaded stop corpus", "rows", res.Rows)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().BoolVarP(&replace, "replace", "r", false, "truncate truck_stops before loading")
}
