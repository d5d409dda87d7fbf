// Package cmd implements the cgt command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/captax"
	"github.com/etnz/captax/alphavantage"
	"github.com/etnz/captax/config"
	"github.com/etnz/captax/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&rmCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&priceCmd{}, "prices")
	c.Register(&repriceCmd{}, "prices")

	c.Register(&taxCmd{}, "reports")
	c.Register(&assistCmd{}, "reports")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (default ./captax.yaml when present)")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file containing transactions (JSONL format), overrides the configuration")
var verbose = flag.Bool("v", false, "Print debug logs")

var (
	appConfig *config.Config
	appLogger *zap.Logger
)

// Config loads the application configuration once.
func Config() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	appConfig = cfg
	Logger().Debug("configuration loaded", zap.String("ledger", cfg.LedgerFile), zap.String("matching", cfg.Matching), zap.String("ordering", cfg.Ordering), zap.String("loss_policy", cfg.LossPolicy))
	return appConfig, nil
}

// Logger returns the application logger: warnings only, everything with -v.
func Logger() *zap.Logger {
	if appLogger != nil {
		return appLogger
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	appLogger = logger
	return appLogger
}

// DecodeLedger decodes the ledger from the application's ledger file.
// If the file does not exist, it returns a new empty ledger.
func DecodeLedger() (*captax.Ledger, error) {
	cfg, err := Config()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.LedgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger().Warn("ledger does not exist, using an empty ledger instead", zap.String("file", cfg.LedgerFile))
			return captax.NewLedger(), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", cfg.LedgerFile, err)
	}
	defer f.Close()

	ledger, err := captax.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", cfg.LedgerFile, err)
	}
	return ledger, nil
}

// SaveLedger replaces the application's ledger file with ledger.
func SaveLedger(ledger *captax.Ledger) error {
	cfg, err := Config()
	if err != nil {
		return err
	}
	// write next to the target, then rename, so that a failure never leaves a truncated ledger.
	tmp, err := os.CreateTemp(filepath.Dir(cfg.LedgerFile), ".ledger-*.jsonl")
	if err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := captax.EncodeLedger(tmp, ledger); err != nil {
		tmp.Close()
		return fmt.Errorf("could not save ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), cfg.LedgerFile); err != nil {
		return fmt.Errorf("could not save ledger: %w", err)
	}
	return nil
}

// appendTransaction appends a single transaction to the application's ledger file.
func appendTransaction(tx captax.Transaction) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		return subcommands.ExitFailure
	}
	if err := tx.Validate(date.Today()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	filename := cfg.LedgerFile
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := captax.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s %s %s at %s (id %s) in %s\n", tx.Kind, tx.Quantity, tx.Symbol, tx.Price, tx.ID, filename)
	return subcommands.ExitSuccess
}

// newPriceClient creates the Alpha Vantage client from the configuration.
func newPriceClient(cfg *config.Config) (*alphavantage.Client, error) {
	if cfg.AlphaVantageAPIKey == "" {
		return nil, alphavantage.ErrMissingAPIKey
	}
	opts := []alphavantage.Option{
		alphavantage.WithLookback(cfg.PriceLookbackDays),
		alphavantage.WithCacheDir(cfg.CacheDir),
		alphavantage.WithLogger(Logger().Named("alphavantage")),
	}
	if cfg.PriceFullHistory {
		opts = append(opts, alphavantage.WithFullOutput())
	}
	return alphavantage.New(cfg.AlphaVantageAPIKey, opts...), nil
}

// renderMarkdown formats markdown for the terminal, it falls back to the raw
// markdown when it cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		Logger().Debug("cannot render markdown", zap.Error(err))
		return md
	}
	return out
}

// printMarkdown prints markdown to the terminal.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}
