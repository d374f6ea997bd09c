package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

// Config is the environment-driven server configuration. An empty
// DATABASE_URL selects the in-memory ledger store.
type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL"`
	Port           string        `env:"PORT" envDefault:"8080"`
	CORSOrigin     string        `env:"CORS_ORIGIN" envDefault:"*"`
	SeedBalance    string        `env:"SEED_BALANCE" envDefault:"100000.00"`
	StorageTimeout time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`
	MarketDataDir  string        `env:"MARKET_DATA_DIR"`
	QuoteCacheTTL  time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"60s"`
	HistoryDays    int           `env:"HISTORY_DAYS" envDefault:"60"`

	// Seed is SeedBalance resolved during Load.
	Seed decimal.Decimal `env:"-"`
}

// Load parses the environment and resolves derived fields.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	seed, err := resolveSeed(cfg.SeedBalance)
	if err != nil {
		return Config{}, err
	}
	cfg.Seed = seed

	if cfg.StorageTimeout <= 0 {
		return Config{}, fmt.Errorf("STORAGE_TIMEOUT must be > 0")
	}
	if cfg.HistoryDays <= 0 {
		return Config{}, fmt.Errorf("HISTORY_DAYS must be > 0")
	}
	return cfg, nil
}

func resolveSeed(raw string) (decimal.Decimal, error) {
	seed, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid SEED_BALANCE %q: %w", raw, err)
	}
	if seed.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("SEED_BALANCE must be >= 0, got %s", raw)
	}
	return seed, nil
}
