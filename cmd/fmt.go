package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captax/date"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cgt fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, normalizes symbols, assigns missing ids, sorts them by date
  (keeping the order of transactions on the same day), and writes them back
  in a canonical JSONL format.
`
}

func (*fmtCmd) SetFlags(_ *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	formatted, err := ledger.Fmt(date.Today())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid ledger:\n%v\n", err)
		return subcommands.ExitFailure
	}

	if err := SaveLedger(formatted); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Successfully formatted %d transactions.\n", formatted.Len())
	return subcommands.ExitSuccess
}
