package app

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/adapters/repositories"
	"fuel-route-service/internal/adapters/routing"
	"fuel-route-service/internal/adapters/spatial"
	"fuel-route-service/internal/config"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/platform/db"
	"fuel-route-service/internal/ports"
	"fuel-route-service/internal/services"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Stack is the wired planning pipeline shared by the server and the CLI.
type Stack struct {
	Pool    *pgxpool.Pool
	Redis   *redis.Client // nil when the result cache is disabled
	Metrics *metrics.Metrics
	Planner *services.TripPlanner
}

// OptimizerOptions converts configuration into optimizer options.
func OptimizerOptions(cfg config.OptimizerConfig) services.Options {
	return services.Options{
		MaxRangeMiles:       cfg.MaxRangeMiles,
		MilesPerGallon:      cfg.MilesPerGallon,
		SampleStride:        cfg.SampleStride,
		CorridorRadiusMiles: cfg.CorridorRadiusMiles,
	}
}

// Build connects to Postgres (and Redis when configured) and wires the trip
// planner. Close must be called on the returned stack.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*Stack, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, errors.New("build stack: DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.ORS.APIKey) == "" {
		return nil, errors.New("build stack: ORS_API_KEY is required")
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("build stack: %w", err)
	}
	stack := &Stack{Pool: pool, Metrics: metrics.NewMetrics(reg)}

	corpus, err := buildCorpus(ctx, cfg.CorpusMode, repositories.NewPgStopRepository(pool, logger), logger)
	if err != nil {
		stack.Close()
		return nil, fmt.Errorf("build stack: %w", err)
	}

	optimizer, err := services.NewFuelOptimizer(corpus, nil, OptimizerOptions(cfg.Optimizer))
	if err != nil {
		stack.Close()
		return nil, fmt.Errorf("build stack: %w", err)
	}

	// ORS provider uses a persistent Postgres cache to avoid repeated directions calls.
	provider, err := routing.NewORSRouteProvider(routing.ORSConfig{
		APIKey:    cfg.ORS.APIKey,
		BaseURL:   cfg.ORS.BaseURL,
		RateLimit: cfg.ORS.RateLimit,
	}, cache.NewSQLRouteCache(pool), stack.Metrics)
	if err != nil {
		stack.Close()
		return nil, fmt.Errorf("build stack: %w", err)
	}

	var resultCache ports.ResultCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WarnContext(ctx, "Redis unreachable, result cache disabled", "addr", cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			stack.Redis = client
			resultCache = cache.NewRedisResultCache(client, cfg.ResultCacheTTL)
		}
	}

	stack.Planner, err = services.NewTripPlanner(provider, optimizer, resultCache, stack.Metrics)
	if err != nil {
		stack.Close()
		return nil, fmt.Errorf("build stack: %w", err)
	}

	return stack, nil
}

// corpusLister is the part of the stop repository needed to snapshot the corpus.
type corpusLister interface {
	ports.StopCorpus
	ListStops(ctx context.Context) ([]domain.PricedStop, error)
}

func buildCorpus(ctx context.Context, mode string, repo corpusLister, logger *slog.Logger) (ports.StopCorpus, error) {
	switch mode {
	case config.CorpusPostgres:
		logger.InfoContext(ctx, "Stop corpus served from Postgres")
		return repo, nil
	case config.CorpusMemory, "":
		stops, err := repo.ListStops(ctx)
		if err != nil {
			return nil, fmt.Errorf("snapshot corpus: %w", err)
		}
		if len(stops) == 0 {
			logger.WarnContext(ctx, "Stop corpus is empty; load it with `stoptool load`")
		}

		corpus, err := spatial.NewRTreeCorpus(stops)
		if err != nil {
			return nil, fmt.Errorf("snapshot corpus: %w", err)
		}
		logger.InfoContext(ctx, "Stop corpus indexed in memory", "stops", corpus.Size())
		return corpus, nil
	default:
		return nil, fmt.Errorf("unknown corpus mode %q", mode)
	}
}

func (s *Stack) Close() {
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}
