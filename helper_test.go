package captax

import (
	"testing"

	"github.com/etnz/captax/date"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// buy and sell are short hands to write transaction lists.
func buy(day, symbol string, quantity int, price float64) Transaction {
	return NewBuy(date.MustParse(day), symbol, Q(quantity), USD(price))
}

func sell(day, symbol string, quantity int, price float64) Transaction {
	return NewSell(date.MustParse(day), symbol, Q(quantity), USD(price))
}

// checkMoney fails when got is not numerically equal to want.
func checkMoney(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if !got.Decimal().Equal(decimal.NewFromFloat(want)) {
		t.Errorf("%s = %s, want %v", name, got.Decimal(), want)
	}
}
