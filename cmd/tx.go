package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
	"github.com/etnz/captax/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	symbol string
	year   string
	head   int
	tail   int
	raw    bool
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the ledger" }
func (*txCmd) Usage() string {
	return `cgt tx [-s <symbol>] [-y <year>] [-head <n>] [-tail <n>] [-raw]

  Lists transactions from the ledger in ledger order, with options for
  filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.symbol, "s", "", "Only list transactions of this symbol.")
	f.StringVar(&p.year, "y", "", "Only list transactions of this tax year (YYYY).")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
	f.BoolVar(&p.raw, "raw", false, "Print the markdown without terminal formatting.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	filters := []func(captax.Transaction) bool{captax.AcceptAll}
	if p.symbol != "" {
		filters = append(filters, captax.BySymbol(p.symbol))
	}
	if p.year != "" {
		r, err := date.ParseTaxYear(p.year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, captax.InRange(r))
	}
	txs := slices.Collect(ledger.Transactions(filters...))

	if p.head > 0 && len(txs) > p.head {
		txs = txs[:p.head]
	}
	if p.tail > 0 && len(txs) > p.tail {
		txs = txs[len(txs)-p.tail:]
	}

	md := renderer.TransactionsMarkdown(captax.NormalizeSymbol(p.symbol), txs)
	if p.raw {
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
