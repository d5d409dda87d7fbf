package alphavantage

import (
	"context"
	"fmt"

	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Quoter returns the closing price of a symbol on a day, or on the closest
// previous trading day.
type Quoter interface {
	Close(ctx context.Context, symbol string, day date.Date) (decimal.Decimal, date.Date, error)
}

// Reprice fills the price of every transaction recorded without one
// (PriceMissing), with at most limit lookups in flight (no limit when
// limit <= 0). A zero price is a price and is kept. It returns the number of
// updated transactions. On error txs may be partially updated.
func Reprice(ctx context.Context, q Quoter, txs []captax.Transaction, limit int) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	count := 0
	for i := range txs {
		if !txs[i].PriceMissing {
			continue
		}
		count++
		g.Go(func() error {
			tx := txs[i]
			v, _, err := q.Close(ctx, tx.Symbol, tx.Date)
			if err != nil {
				return fmt.Errorf("%s %s on %s: %w", tx.Kind, tx.Symbol, tx.Date, err)
			}
			cur := tx.Currency()
			if cur == "" {
				cur = captax.DefaultCurrency
			}
			txs[i].Price = captax.M(v, cur)
			txs[i].PriceMissing = false
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}
