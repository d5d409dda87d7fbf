package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captax"
	"github.com/etnz/captax/alphavantage"
	"github.com/etnz/captax/date"
	"github.com/google/subcommands"
)

type priceCmd struct {
	date string
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "look up the closing price of symbols on a day" }
func (*priceCmd) Usage() string {
	return `cgt price [-d <date>] [<symbol>...]

  Prints the closing price of each symbol on the given day, or on the closest
  previous trading day, from Alpha Vantage (TIME_SERIES_DAILY). Without
  symbols, every symbol of the ledger is looked up.
`
}

func (p *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", date.Today().String(), "Day of the closing price (YYYY-MM-DD)")
}

func (p *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := date.Parse(p.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		return subcommands.ExitFailure
	}
	symbols := f.Args()
	if len(symbols) == 0 {
		ledger, err := DecodeLedger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		symbols = ledger.Symbols()
	}
	if len(symbols) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := newPriceClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, symbol := range symbols {
		v, on, err := client.Close(ctx, symbol, day)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			if errors.Is(err, alphavantage.ErrRateLimited) {
				return status
			}
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", captax.NormalizeSymbol(symbol), on, captax.M(v, cfg.Currency))
	}
	return status
}
