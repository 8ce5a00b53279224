package folio

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the engine's tunables. The zero value is not usable
// directly; DefaultConfig and LoadConfig return normalized configurations.
type Config struct {
	// Currency is the reporting currency when the ledger does not imply one.
	Currency string `yaml:"currency"`
	// RiskFreeRate is the annual risk-free rate for Sharpe/Sortino/alpha.
	RiskFreeRate float64 `yaml:"risk_free_rate"`
	// Benchmark is the default benchmark symbol; empty disables comparison.
	Benchmark string `yaml:"benchmark"`
	// OversellPolicy decides how sells beyond the held quantity are
	// handled: "clamp" (default) or "reject".
	OversellPolicy OversellPolicy `yaml:"oversell_policy"`
	// CacheTTL is how long a computed report stays fresh; zero disables
	// the report cache.
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// EODHDKey is the API token of the EODHD price provider.
	EODHDKey string `yaml:"eodhd_api_key"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Currency:       "USD",
		RiskFreeRate:   DefaultRiskFreeRate,
		OversellPolicy: OversellClamp,
		CacheTTL:       15 * time.Minute,
	}
}

// normalize fills the zero fields with their defaults and validates the
// enumerated ones.
func (c *Config) normalize() error {
	def := DefaultConfig()
	if c.Currency == "" {
		c.Currency = def.Currency
	}
	if c.RiskFreeRate == 0 {
		c.RiskFreeRate = def.RiskFreeRate
	}
	switch c.OversellPolicy {
	case "":
		c.OversellPolicy = def.OversellPolicy
	case OversellClamp, OversellReject:
	default:
		return fmt.Errorf("invalid oversell_policy %q, want %q or %q", c.OversellPolicy, OversellClamp, OversellReject)
	}
	return nil
}

// LoadConfig reads a YAML configuration file. A missing file is not an
// error: the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg = Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
