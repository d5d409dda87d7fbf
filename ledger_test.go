package captax

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/captax/date"
)

func TestLedger_AppendAssignsIDs(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(buy("2023-01-01", "X", 1, 1), buy("2023-01-02", "Y", 1, 1))
	txs := ledger.List()
	if txs[0].ID == "" || txs[1].ID == "" || txs[0].ID == txs[1].ID {
		t.Errorf("IDs = %q, %q, want two distinct ids", txs[0].ID, txs[1].ID)
	}
}

func TestLedger_Remove(t *testing.T) {
	ledger := NewLedger()
	a, b := buy("2023-01-01", "X", 1, 1), buy("2023-01-02", "Y", 1, 1)
	a.ID, b.ID = "abc-1", "abd-2"
	ledger.Append(a, b)

	if _, err := ledger.Remove("ab"); err == nil {
		t.Error("Remove(\"ab\") expected an ambiguity error")
	}
	if _, err := ledger.Remove("zz"); err == nil {
		t.Error("Remove(\"zz\") expected a not found error")
	}
	removed, err := ledger.Remove("abd")
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if removed.Symbol != "Y" || ledger.Len() != 1 {
		t.Errorf("removed %v, ledger has %d transactions", removed, ledger.Len())
	}
}

func TestLedger_Filters(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2022-12-01", "X", 1, 1),
		buy("2023-01-02", "y", 1, 1),
		sell("2023-02-01", "X", 1, 1),
	)
	var got []string
	for tx := range ledger.Transactions(BySymbol("x"), InRange(date.TaxYear(2023))) {
		got = append(got, tx.Date.String())
	}
	if want := []string{"2023-02-01"}; !slices.Equal(got, want) {
		t.Errorf("filtered = %v, want %v", got, want)
	}
	if got, want := ledger.Symbols(), []string{"X", "Y"}; !slices.Equal(got, want) {
		t.Errorf("Symbols() = %v, want %v", got, want)
	}
}

func TestLedger_Fmt(t *testing.T) {
	today := date.MustParse("2024-01-01")
	ledger := NewLedger()
	ledger.Append(
		sell("2023-06-01", "X", 10, 150),
		buy("2023-01-01", "X", 5, 100),
		buy("2023-01-01", "X", 5, 110),
	)
	formatted, err := ledger.Fmt(today)
	if err != nil {
		t.Fatalf("Fmt() error = %v", err)
	}
	txs := formatted.List()
	if txs[0].Kind != Buy || !txs[0].Price.Equal(USD(100)) || !txs[1].Price.Equal(USD(110)) || txs[2].Kind != Sell {
		t.Errorf("Fmt() order = %+v", txs)
	}

	ledger.Append(buy("2025-01-01", "X", 1, 1))
	if _, err := ledger.Fmt(today); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Fmt() error = %v, want ErrInvalidDate", err)
	}
}
