package cmd

import (
	"context"
	"fmt"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/platform/obs"
	"log/slog"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stoptool",
	Short: "Fuel stop corpus maintenance",
	Long: `stoptool manages the truck stop price corpus used by the fuel route service.

It creates the Postgres schema, loads OPIS price exports from CSV and can run a
single trip optimization from the terminal without starting the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.MustLoad()
		logger = obs.NewLogger(cfg.Env, os.Stderr)
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.Open(ctx, cfg.DatabaseURL)
}
