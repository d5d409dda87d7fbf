package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	date     string
	symbol   string
	quantity int
	price    string
	currency string
	memo     string
}

func (t *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.date, "d", date.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&t.symbol, "s", "", "Stock ticker")
	f.IntVar(&t.quantity, "q", 0, "Number of shares")
	f.StringVar(&t.price, "p", "", "Price per share, the day's close is fetched when missing")
	f.StringVar(&t.currency, "c", "", "Currency of the price (default from the configuration)")
	f.StringVar(&t.memo, "m", "", "An optional note for the transaction")
}

// transaction builds the transaction described by the flags, fetching the
// price when it is missing.
func (t *tradeFlags) transaction(ctx context.Context, kind captax.Kind) (captax.Transaction, error) {
	day, err := date.Parse(t.date)
	if err != nil {
		return captax.Transaction{}, err
	}
	cfg, err := Config()
	if err != nil {
		return captax.Transaction{}, err
	}
	currency := t.currency
	if currency == "" {
		currency = cfg.Currency
	}

	var price captax.Money
	if t.price != "" {
		price, err = captax.ParseMoney(t.price, currency)
		if err != nil {
			return captax.Transaction{}, fmt.Errorf("invalid price %q: %w", t.price, err)
		}
	} else {
		client, err := newPriceClient(cfg)
		if err != nil {
			return captax.Transaction{}, fmt.Errorf("price is missing: use -p or set ALPHAVANTAGE_API_KEY: %w", err)
		}
		v, on, err := client.Close(ctx, t.symbol, day)
		if err != nil {
			return captax.Transaction{}, err
		}
		Logger().Info("price fetched", zap.String("symbol", t.symbol), zap.Stringer("day", on), zap.String("close", v.String()))
		price = captax.M(v, currency)
	}

	tx := captax.NewBuy(day, t.symbol, captax.Q(t.quantity), price)
	if kind == captax.Sell {
		tx = captax.NewSell(day, t.symbol, captax.Q(t.quantity), price)
	}
	tx.Memo = t.memo
	return tx, nil
}

// --- Buy Command ---

type buyCmd struct {
	tradeFlags
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares, opening a new lot" }
func (*buyCmd) Usage() string {
	return `cgt buy -s <symbol> -q <quantity> [-d <date>] [-p <price>] [-c <currency>] [-m <memo>]

  Records a purchase. Each purchase is a lot that later sales consume in FIFO order.
  When -p is omitted the closing price of the day (or the closest previous
  trading day) is fetched from Alpha Vantage.
`
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeTrade(ctx, f, &c.tradeFlags, captax.Buy)
}

// --- Sell Command ---

type sellCmd struct {
	tradeFlags
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares, consuming the oldest lots first" }
func (*sellCmd) Usage() string {
	return `cgt sell -s <symbol> -q <quantity> [-d <date>] [-p <price>] [-c <currency>] [-m <memo>]

  Records a sale. The sale is matched against the oldest open lots of the
  same symbol when computing taxes. When -p is omitted the closing price of
  the day is fetched from Alpha Vantage.
`
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeTrade(ctx, f, &c.tradeFlags, captax.Sell)
}

func executeTrade(ctx context.Context, f *flag.FlagSet, t *tradeFlags, kind captax.Kind) subcommands.ExitStatus {
	if t.symbol == "" || t.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	tx, err := t.transaction(ctx, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return appendTransaction(tx)
}
