package cmd

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/captax"
	"github.com/google/subcommands"
)

// useLedger writes content into a ledger file of a fresh working directory
// and points the application to it.
func useLedger(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "test_ledger.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write ledger: %v", err)
	}

	oldLedgerFile, oldConfig := ledgerFile, appConfig
	ledgerFile, appConfig = &path, nil
	t.Cleanup(func() { ledgerFile, appConfig = oldLedgerFile, oldConfig })
	return path
}

func execute(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("invalid args %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(content)
}

func TestFmtCmd(t *testing.T) {
	path := useLedger(t, `{"command":"sell","id":"c","date":"2023-06-01","symbol":"x","quantity":10,"price":150}

{"command":"buy","id":"a","date":"2023-1-1","symbol":"X","quantity":5, "price":100}
{"command":"buy","id":"b","date":"2023-01-01","symbol":"X","quantity":5,"price":110,"memo":"second"}
`)
	want := `{"command":"buy","id":"a","date":"2023-01-01","symbol":"X","quantity":5,"price":100}
{"command":"buy","id":"b","date":"2023-01-01","memo":"second","symbol":"X","quantity":5,"price":110}
{"command":"sell","id":"c","date":"2023-06-01","symbol":"X","quantity":10,"price":150}
`
	if status := execute(t, &fmtCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	if got := readFile(t, path); got != want {
		t.Errorf("Formatted ledger mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestFmtCmd_Invalid(t *testing.T) {
	content := `{"command":"buy","id":"a","date":"2023-01-01","symbol":"X","quantity":-5,"price":100}
`
	path := useLedger(t, content)
	if status := execute(t, &fmtCmd{}); status != subcommands.ExitFailure {
		t.Errorf("Expected ExitFailure, got %v", status)
	}
	if got := readFile(t, path); got != content {
		t.Errorf("invalid ledger was modified:\n%s", got)
	}
}

func TestRmCmd(t *testing.T) {
	path := useLedger(t, `{"command":"buy","id":"1f0e","date":"2023-01-01","symbol":"X","quantity":5,"price":100}
{"command":"buy","id":"2a9c","date":"2023-01-02","symbol":"Y","quantity":5,"price":100}
`)
	if status := execute(t, &rmCmd{}, "2a"); status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	got := readFile(t, path)
	if strings.Contains(got, "2a9c") || !strings.Contains(got, "1f0e") {
		t.Errorf("rm 2a left:\n%s", got)
	}
	if status := execute(t, &rmCmd{}, "zz"); status != subcommands.ExitFailure {
		t.Errorf("Expected ExitFailure for an unknown id, got %v", status)
	}
	if status := execute(t, &rmCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError without id, got %v", status)
	}
}

func TestBuyCmd(t *testing.T) {
	path := useLedger(t, "")
	status := execute(t, &buyCmd{}, "-s", "aapl", "-q", "10", "-p", "150.25", "-d", "2024-01-02", "-m", "first")
	if status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	ledger, err := captax.DecodeLedger(strings.NewReader(readFile(t, path)))
	if err != nil {
		t.Fatal(err)
	}
	txs := ledger.List()
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	tx := txs[0]
	if tx.Kind != captax.Buy || tx.Symbol != "AAPL" || tx.ID == "" || tx.Memo != "first" || !tx.Price.Equal(captax.M(150.25, "USD")) {
		t.Errorf("recorded %+v", tx)
	}

	if status := execute(t, &sellCmd{}, "-s", "AAPL", "-p", "1"); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError without quantity, got %v", status)
	}
	if status := execute(t, &sellCmd{}, "-s", "AAPL", "-q", "1", "-p", "1", "-d", "2999-01-01"); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError for a future date, got %v", status)
	}
}

func TestTaxReport(t *testing.T) {
	useLedger(t, `{"command":"buy","date":"2022-01-01","symbol":"X","quantity":10,"price":100}
{"command":"sell","date":"2023-06-01","symbol":"X","quantity":10,"price":150}
{"command":"buy","date":"2023-01-01","symbol":"Y","quantity":10,"price":100}
{"command":"sell","date":"2023-06-01","symbol":"Y","quantity":10,"price":150}
`)
	md, err := taxReport("2023", captax.M(100, "USD"), true)
	if err != nil {
		t.Fatalf("taxReport() error = %v", err)
	}
	for _, want := range []string{
		"| Short-term capital gains | 30.00% | $500.00 | $150.00 |",
		"| Long-term capital gains | 15.00% | $500.00 | $75.00 |",
		"| **Total** | | | **$245.00** |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("taxReport() is missing %q, got:\n%s", want, md)
		}
	}

	if _, err := taxReport("2023", captax.M(0, "USD"), false, captax.WithOrdering(captax.RejectOutOfOrder)); err == nil {
		t.Error("taxReport() expected an out of order error")
	}
}

func TestTaxCmd_HTML(t *testing.T) {
	useLedger(t, `{"command":"buy","date":"2023-01-01","symbol":"X","quantity":10,"price":100}
{"command":"sell","date":"2023-06-01","symbol":"X","quantity":10,"price":150}
`)
	out := filepath.Join(t.TempDir(), "tax.html")
	if status := execute(t, &taxCmd{}, "-y", "2023", "-html", out); status != subcommands.ExitSuccess {
		t.Fatalf("Expected ExitSuccess, got %v", status)
	}
	if got := readFile(t, out); !strings.Contains(got, "<table>") || !strings.Contains(got, "$150.00") {
		t.Errorf("html report:\n%s", got)
	}
	if status := execute(t, &taxCmd{}, "-matching", "lifo"); status != subcommands.ExitUsageError {
		t.Errorf("Expected ExitUsageError for an unknown matching, got %v", status)
	}
}

func TestLedgerReports(t *testing.T) {
	useLedger(t, `{"command":"buy","date":"2023-01-01","symbol":"X","quantity":10,"price":100}
{"command":"buy","date":"2023-01-01","symbol":"Y","quantity":10,"price":100}
{"command":"sell","date":"2023-06-01","symbol":"Y","quantity":10,"price":150}
`)
	var reports ledgerReports
	md, err := reports.TaxReport(context.Background(), "2023", "100")
	if err != nil {
		t.Fatalf("TaxReport() error = %v", err)
	}
	if want := "| Dividend income | 20.00% | $100.00 | $20.00 |"; !strings.Contains(md, want) {
		t.Errorf("TaxReport() is missing %q, got:\n%s", want, md)
	}
	if _, err := reports.TaxReport(context.Background(), "", "lots"); err == nil {
		t.Error("TaxReport() expected an error for invalid dividends")
	}

	md, err = reports.Transactions(context.Background(), "y")
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if !strings.Contains(md, "# Transactions for Y") || !strings.Contains(md, "| sell | Y | 10 |") || strings.Contains(md, "| X |") {
		t.Errorf("Transactions(y) =\n%s", md)
	}
}
