package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captax"
	"github.com/etnz/captax/alphavantage"
	"github.com/google/subcommands"
)

type repriceCmd struct {
	dryRun bool
}

func (*repriceCmd) Name() string     { return "reprice" }
func (*repriceCmd) Synopsis() string { return "fill the missing prices of the ledger with closing prices" }
func (*repriceCmd) Usage() string {
	return `cgt reprice [-n]

  Looks up the closing price of every transaction recorded without a price
  and saves the ledger.
`
}

func (p *repriceCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.dryRun, "n", false, "Print the prices without saving the ledger.")
}

func (p *repriceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		return subcommands.ExitFailure
	}
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	client, err := newPriceClient(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	txs := ledger.List()
	var missing []int
	for i, tx := range txs {
		if tx.PriceMissing {
			missing = append(missing, i)
		}
	}
	n, err := alphavantage.Reprice(ctx, client, txs, cfg.PriceWorkers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if n == 0 {
		fmt.Fprintln(os.Stderr, "No transaction without price.")
		return subcommands.ExitSuccess
	}

	repriced := captax.NewLedger()
	repriced.Append(txs...)
	for _, i := range missing {
		tx := txs[i]
		fmt.Printf("%s %s %s on %s: %s\n", tx.ID, tx.Kind, tx.Symbol, tx.Date, tx.Price)
	}
	if p.dryRun {
		return subcommands.ExitSuccess
	}
	if err := SaveLedger(repriced); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Successfully repriced %d transactions.\n", n)
	return subcommands.ExitSuccess
}
