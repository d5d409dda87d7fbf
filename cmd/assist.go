package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/captax"
	"github.com/etnz/captax/agent"
	"github.com/etnz/captax/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct{}

// Name returns the name of the command.
func (*assistCmd) Name() string { return "assist" }

// Synopsis returns a short-one line synopsis of the command.
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI tax assistant" }

// Usage returns a long-form usage string.
func (*assistCmd) Usage() string {
	return `cgt assist [<question>]

  Start an interactive session with the AI assistant. It reads the ledger and
  the tax report to answer. Type 'bye' to exit. GEMINI_API_KEY must be set.
`
}

// SetFlags sets the flags for the command.
func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

// Execute executes the command.
func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading configuration:", err)
		return subcommands.ExitFailure
	}
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	logger := Logger().Named("agent")
	advisor := agent.NewTaxAdvisor(cfg.GeminiModel, ledgerReports{}, logger)
	trader := agent.NewTrader(cfg.GeminiModel, logger)
	a := agent.New(os.Stdout, os.Stdin, cfg.GeminiModel, logger, advisor, trader)
	a.Render = renderMarkdown

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// ledgerReports serves the application's ledger to the agent.
type ledgerReports struct{}

func (ledgerReports) TaxReport(_ context.Context, year, dividends string) (string, error) {
	cfg, err := Config()
	if err != nil {
		return "", err
	}
	opts, err := cfg.Options()
	if err != nil {
		return "", err
	}
	if dividends == "" {
		dividends = "0"
	}
	income, err := captax.ParseMoney(dividends, cfg.Currency)
	if err != nil {
		return "", fmt.Errorf("invalid dividend income %q: %w", dividends, err)
	}
	return taxReport(year, income, true, opts...)
}

func (ledgerReports) Transactions(_ context.Context, symbol string) (string, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return "", err
	}
	filter := captax.AcceptAll
	if symbol != "" {
		filter = captax.BySymbol(symbol)
	}
	txs := slices.Collect(ledger.Transactions(filter))
	return renderer.TransactionsMarkdown(captax.NormalizeSymbol(symbol), txs), nil
}
