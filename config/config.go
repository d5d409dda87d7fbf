// Package config loads the cgt settings from an optional captax.yaml file,
// the environment and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/captax"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	LedgerFile string `mapstructure:"ledger_file"`
	Currency   string `mapstructure:"currency"`

	Rates struct {
		ShortTerm float64 `mapstructure:"short_term"`
		LongTerm  float64 `mapstructure:"long_term"`
		Dividend  float64 `mapstructure:"dividend"`
	} `mapstructure:"rates"`

	Matching   string `mapstructure:"matching"`
	Ordering   string `mapstructure:"ordering"`
	LossPolicy string `mapstructure:"loss_policy"`
	Lenient    bool   `mapstructure:"lenient"`

	GeminiModel       string `mapstructure:"gemini_model"`
	PriceLookbackDays int    `mapstructure:"price_lookback_days"`
	PriceWorkers      int    `mapstructure:"price_workers"`
	PriceFullHistory  bool   `mapstructure:"price_full_history"` // premium keys only
	CacheDir          string `mapstructure:"cache_dir"`

	// secrets only come from the environment.
	AlphaVantageAPIKey string `mapstructure:"-"`
	GeminiAPIKey       string `mapstructure:"-"`
}

const (
	DefaultLedgerFile        = "transactions.jsonl"
	DefaultGeminiModel       = "gemini-2.5-pro"
	DefaultPriceLookbackDays = 30
	DefaultPriceWorkers      = 4
	EnvPrefix                = "CAPTAX"
)

// Load reads the configuration. An empty path looks for an optional
// captax.yaml in the working directory, otherwise the file must exist.
// Environment variables prefixed with CAPTAX_ override file values, a .env
// file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cannot load .env: %w", err)
	}

	v := viper.New()
	defaults := map[string]any{
		"ledger_file":         DefaultLedgerFile,
		"currency":            captax.DefaultCurrency,
		"rates.short_term":    captax.DefaultRates.ShortTerm.InexactFloat64(),
		"rates.long_term":     captax.DefaultRates.LongTerm.InexactFloat64(),
		"rates.dividend":      captax.DefaultRates.Dividend.InexactFloat64(),
		"matching":            captax.PerSymbol.String(),
		"ordering":            captax.SortByDate.String(),
		"loss_policy":         captax.SignedLoss.String(),
		"lenient":             false,
		"gemini_model":        DefaultGeminiModel,
		"price_lookback_days": DefaultPriceLookbackDays,
		"price_workers":       DefaultPriceWorkers,
		"price_full_history":  false,
		"cache_dir":           os.TempDir(),
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config %q: %w", path, err)
		}
	} else {
		v.SetConfigName("captax")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	cfg.AlphaVantageAPIKey = strings.TrimSpace(os.Getenv("ALPHAVANTAGE_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	return &cfg, cfg.Validate()
}

// Validate checks the consistency of the settings.
func (c *Config) Validate() error {
	if c.LedgerFile == "" {
		return errors.New("ledger_file is empty")
	}
	if c.Currency == "" {
		return errors.New("currency is empty")
	}
	if err := c.TaxRates().Validate(); err != nil {
		return fmt.Errorf("invalid rates: %w", err)
	}
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.PriceLookbackDays <= 0 {
		return errors.New("invalid price_lookback_days")
	}
	if c.PriceWorkers < 0 {
		return errors.New("invalid price_workers")
	}
	return nil
}

// TaxRates returns the configured rates.
func (c *Config) TaxRates() captax.TaxRates {
	return captax.NewTaxRates(c.Rates.ShortTerm, c.Rates.LongTerm, c.Rates.Dividend)
}

// Options returns the engine options matching the configured policies.
func (c *Config) Options() ([]captax.Option, error) {
	matching, err := captax.ParseMatching(c.Matching)
	if err != nil {
		return nil, err
	}
	ordering, err := captax.ParseOrdering(c.Ordering)
	if err != nil {
		return nil, err
	}
	loss, err := captax.ParseLossPolicy(c.LossPolicy)
	if err != nil {
		return nil, err
	}
	opts := []captax.Option{
		captax.WithMatching(matching),
		captax.WithOrdering(ordering),
		captax.WithLossPolicy(loss),
	}
	if c.Lenient {
		opts = append(opts, captax.WithLenientSells())
	}
	return opts, nil
}
