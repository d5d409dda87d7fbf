package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
	"github.com/etnz/captax/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type taxCmd struct {
	year      string
	dividends string
	details   bool
	html      string
	raw       bool

	matching  string
	ordering  string
	loss      string
	lenient   bool
	reference bool
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "compute the capital gains tax of the ledger" }
func (*taxCmd) Usage() string {
	return `cgt tax [-y <year>] [-dividends <amount>] [-details] [-html <file>]

  Matches every sale against the oldest open lots (FIFO) and computes the tax
  due on short-term gains (held less than 365 days), long-term gains and
  dividend income with the configured flat rates.

  The matching, ordering and loss policies default to the configuration and
  can be overridden with flags. -reference reproduces the historical
  calculator: one queue for all symbols, excess sales ignored, ledger order
  trusted.

Usage Examples:
# Tax report of 2024 with 120 of dividends, listing every lot match.
$ cgt tax -y 2024 -dividends 120 -details

# Export it as an HTML page.
$ cgt tax -y 2024 -dividends 120 -html tax-2024.html
`
}

func (p *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.year, "y", "", "Tax year (YYYY), all sales are accounted when missing.")
	f.StringVar(&p.dividends, "dividends", "0", "Dividend income received in the period.")
	f.BoolVar(&p.details, "details", false, "List lot matches and open lots.")
	f.StringVar(&p.html, "html", "", "Write the report as an HTML page to this file.")
	f.BoolVar(&p.raw, "raw", false, "Print the markdown without terminal formatting.")
	f.StringVar(&p.matching, "matching", "", "Lot queues: symbol (one per ticker) or global.")
	f.StringVar(&p.ordering, "ordering", "", "Transaction order: sort (by date), strict (reject out of order) or trust.")
	f.StringVar(&p.loss, "loss", "", "Net loss policy: signed (negative tax) or carry (carried forward).")
	f.BoolVar(&p.lenient, "lenient", false, "Ignore the part of a sale exceeding the open lots instead of failing.")
	f.BoolVar(&p.reference, "reference", false, "Reproduce the historical calculator behavior.")
}

func (p *taxCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		return subcommands.ExitFailure
	}
	// flags override the configuration.
	if p.matching != "" {
		cfg.Matching = p.matching
	}
	if p.ordering != "" {
		cfg.Ordering = p.ordering
	}
	if p.loss != "" {
		cfg.LossPolicy = p.loss
	}
	cfg.Lenient = cfg.Lenient || p.lenient
	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if p.reference {
		opts = append(opts, captax.Reference())
	}

	dividends, err := captax.ParseMoney(p.dividends, cfg.Currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid dividend income %q: %v\n", p.dividends, err)
		return subcommands.ExitUsageError
	}

	md, err := taxReport(p.year, dividends, p.details, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.html != "" {
		page, err := renderer.HTMLDocument("Capital Gains Tax Report", md)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(p.html, []byte(page), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", p.html, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", p.html)
		return subcommands.ExitSuccess
	}
	if p.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// taxReport computes the markdown tax report of the ledger for year (all time
// when empty).
func taxReport(year string, dividends captax.Money, details bool, opts ...captax.Option) (string, error) {
	cfg, err := Config()
	if err != nil {
		return "", err
	}
	ledger, err := DecodeLedger()
	if err != nil {
		return "", err
	}
	var period date.Range
	if year != "" {
		period, err = date.ParseTaxYear(year)
		if err != nil {
			return "", err
		}
		opts = append(opts, captax.WithPeriod(period))
	}
	txs := ledger.List()
	if err := captax.ValidateAll(txs, date.Today()); err != nil {
		return "", fmt.Errorf("invalid ledger, run 'cgt fmt' to check it:\n%w", err)
	}

	res, err := captax.Compute(txs, dividends, cfg.TaxRates(), opts...)
	if err != nil {
		return "", err
	}
	Logger().Debug("tax computed",
		zap.Int("transactions", len(txs)),
		zap.Int("matches", len(res.Matches)),
		zap.Int("unmatched", len(res.Unmatched)),
		zap.Stringer("total", res.Total()),
	)
	for _, u := range res.Unmatched {
		Logger().Warn("sale exceeds the open lots", zap.String("symbol", u.Sell.Symbol), zap.Stringer("date", u.Sell.Date), zap.Stringer("ignored", u.Quantity))
	}
	return renderer.TaxMarkdown(res, period, details), nil
}
