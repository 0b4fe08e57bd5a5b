package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by the HTTP server and the stoptool CLI.
type Config struct {
	Env            string        // Env is the current environment: local, development, production.
	Port           int           // Port is the HTTP listen port.
	DatabaseURL    string        // DatabaseURL is the Postgres connection string.
	RedisAddr      string        // RedisAddr enables the result cache when non-empty.
	ResultCacheTTL time.Duration // ResultCacheTTL bounds how long a finished plan is reused.
	CorpusMode     string        // CorpusMode selects the stop corpus: memory or postgres.
	ORS            ORSConfig
	Optimizer      OptimizerConfig
}

// ORSConfig holds the OpenRouteService client settings.
type ORSConfig struct {
	APIKey    string
	BaseURL   string
	RateLimit float64 // Requests per second.
}

// OptimizerConfig mirrors services.Options.
type OptimizerConfig struct {
	MaxRangeMiles       float64
	MilesPerGallon      float64
	SampleStride        int
	CorridorRadiusMiles float64
}

const (
	CorpusMemory   = "memory"
	CorpusPostgres = "postgres"
)

// MustLoad reads .env (if present) and the process environment. It panics on
// values that cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	port, err := strconv.Atoi(setDefaultEnv("PORT", "8080"))
	if err != nil {
		panic("failed to parse port from configuration, must be an integer")
	}

	ttl, err := time.ParseDuration(setDefaultEnv("RESULT_CACHE_TTL", "24h"))
	if err != nil {
		panic("failed to parse result cache ttl from configuration")
	}

	rateLimit, err := strconv.ParseFloat(setDefaultEnv("ORS_RATE_LIMIT", "1"), 64)
	if err != nil {
		panic("failed to parse ORS rate limit from configuration")
	}

	maxRange, err := strconv.ParseFloat(setDefaultEnv("MAX_RANGE_MILES", "500"), 64)
	if err != nil {
		panic("failed to parse max range from configuration")
	}

	mpg, err := strconv.ParseFloat(setDefaultEnv("MILES_PER_GALLON", "10"), 64)
	if err != nil {
		panic("failed to parse miles per gallon from configuration")
	}

	stride, err := strconv.Atoi(setDefaultEnv("SAMPLE_STRIDE", "20"))
	if err != nil {
		panic("failed to parse sample stride from configuration, must be an integer")
	}

	radius, err := strconv.ParseFloat(setDefaultEnv("CORRIDOR_RADIUS_MILES", "5"), 64)
	if err != nil {
		panic("failed to parse corridor radius from configuration")
	}

	mode := setDefaultEnv("CORPUS_MODE", CorpusMemory)
	if mode != CorpusMemory && mode != CorpusPostgres {
		panic("failed to parse corpus mode from configuration, must be memory or postgres")
	}

	return &Config{
		Env:            setDefaultEnv("APP_ENV", "production"),
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		ResultCacheTTL: ttl,
		CorpusMode:     mode,
		ORS: ORSConfig{
			APIKey:    os.Getenv("ORS_API_KEY"),
			BaseURL:   setDefaultEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
			RateLimit: rateLimit,
		},
		Optimizer: OptimizerConfig{
			MaxRangeMiles:       maxRange,
			MilesPerGallon:      mpg,
			SampleStride:        stride,
			CorridorRadiusMiles: radius,
		},
	}
}

func setDefaultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
