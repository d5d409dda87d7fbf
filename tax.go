package captax

import (
	"fmt"
	"sort"

	"github.com/etnz/captax/date"
)

// options of a tax computation.
type options struct {
	matching Matching
	lenient  bool
	ordering Ordering
	loss     LossPolicy
	period   date.Range
}

// Option configures Compute.
type Option func(*options)

// WithMatching selects per-symbol (default) or global lot queues.
func WithMatching(m Matching) Option { return func(o *options) { o.matching = m } }

// WithLenientSells ignores the part of a sale that exceeds the open lots
// instead of failing with ErrInsufficientLots. The ignored quantity is
// reported in TaxResult.Unmatched.
func WithLenientSells() Option { return func(o *options) { o.lenient = true } }

// WithOrdering selects how the input order is handled, SortByDate by default.
// Sorting is stable: transactions of the same day keep their input order, so
// a sale listed before a same-day purchase cannot consume it.
func WithOrdering(ord Ordering) Option { return func(o *options) { o.ordering = ord } }

// WithLossPolicy selects how net losses are taxed, SignedLoss by default.
func WithLossPolicy(p LossPolicy) Option { return func(o *options) { o.loss = p } }

// WithPeriod only accounts for sales dated within r. Earlier transactions
// still open and consume lots.
func WithPeriod(r date.Range) Option { return func(o *options) { o.period = r } }

// Reference reproduces the behavior of the historical calculator: a single
// queue for all symbols, excess sells ignored, input order trusted and
// signed losses.
func Reference() Option {
	return func(o *options) {
		o.matching = Global
		o.lenient = true
		o.ordering = TrustInput
		o.loss = SignedLoss
	}
}

// Unmatched is the part of a sale that found no open lot.
type Unmatched struct {
	Sell     Transaction
	Quantity Quantity
}

// OpenLot is a purchase still (partly) held after all sales.
type OpenLot struct {
	Symbol   string
	Date     date.Date
	Price    Money
	Quantity Quantity
}

// TaxResult is the outcome of a tax computation.
type TaxResult struct {
	Currency string
	Rates    TaxRates
	Policy   LossPolicy

	ShortTermGain Money // realized short-term gain, negative for a loss
	LongTermGain  Money // realized long-term gain, negative for a loss

	TaxableShortTerm Money // short-term gain the rate is applied to
	TaxableLongTerm  Money // long-term gain the rate is applied to
	CarriedLoss      Money // loss left after netting, CarryForward only

	ShortTermTax   Money
	LongTermTax    Money
	DividendIncome Money
	DividendTax    Money

	Matches   []Match
	Unmatched []Unmatched
	OpenLots  []OpenLot
}

// Total returns the sum of the three taxes.
func (r *TaxResult) Total() Money {
	return r.ShortTermTax.Add(r.LongTermTax).Add(r.DividendTax)
}

// Compute matches sells against prior buys in FIFO order, splits the realized
// gains into short and long-term and applies the flat rates.
//
// Compute is pure, it does not modify txs and can be called concurrently.
func Compute(txs []Transaction, dividendIncome Money, rates TaxRates, opts ...Option) (*TaxResult, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := rates.Validate(); err != nil {
		return nil, err
	}
	if dividendIncome.IsNegative() {
		return nil, fmt.Errorf("%w: dividend income must not be negative, got %s", ErrInvalidAmount, dividendIncome)
	}

	for _, tx := range txs {
		if tx.PriceMissing {
			return nil, fmt.Errorf("%w: %s %s on %s has no price yet", ErrInvalidPrice, tx.Kind, tx.Symbol, tx.Date)
		}
	}

	ordered, err := order(txs, o.ordering)
	if err != nil {
		return nil, err
	}
	currency, err := commonCurrency(ordered, dividendIncome)
	if err != nil {
		return nil, err
	}

	res := &TaxResult{
		Currency:       currency,
		Rates:          rates,
		Policy:         o.loss,
		ShortTermGain:  M(0, currency),
		LongTermGain:   M(0, currency),
		DividendIncome: dividendIncome.WithCurrency(currency),
	}

	open := newOpenLots(o.matching)
	for _, tx := range ordered {
		switch tx.Kind {
		case Buy:
			open.buy(tx)
		case Sell:
			held := open.position(tx.Symbol)
			matches, unmatched := open.sell(tx)
			counted := o.period.IsZero() || o.period.Contains(tx.Date)
			if unmatched.IsPositive() {
				if !o.lenient {
					return nil, fmt.Errorf("%w: on %s, cannot sell %s of %s, position is only %s", ErrInsufficientLots, tx.Date, tx.Quantity, tx.Symbol, held)
				}
				if counted {
					res.Unmatched = append(res.Unmatched, Unmatched{Sell: tx, Quantity: unmatched})
				}
			}
			if !counted {
				continue
			}
			for _, m := range matches {
				res.Matches = append(res.Matches, m)
				if m.Term() == ShortTerm {
					res.ShortTermGain = res.ShortTermGain.Add(m.Profit())
				} else {
					res.LongTermGain = res.LongTermGain.Add(m.Profit())
				}
			}
		default:
			return nil, fmt.Errorf("unknown transaction kind %q", tx.Kind)
		}
	}

	res.TaxableShortTerm, res.TaxableLongTerm, res.CarriedLoss = applyLossPolicy(o.loss, res.ShortTermGain, res.LongTermGain)
	res.ShortTermTax = res.TaxableShortTerm.MulRate(rates.ShortTerm)
	res.LongTermTax = res.TaxableLongTerm.MulRate(rates.LongTerm)
	res.DividendTax = res.DividendIncome.MulRate(rates.Dividend)

	keys := make([]string, 0, len(open.queues))
	for k := range open.queues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, l := range open.queues[k] {
			res.OpenLots = append(res.OpenLots, OpenLot{Symbol: l.Symbol, Date: l.Date, Price: l.Price, Quantity: l.Remaining})
		}
	}
	return res, nil
}

// order returns a copy of txs arranged according to ord.
func order(txs []Transaction, ord Ordering) ([]Transaction, error) {
	ordered := make([]Transaction, len(txs))
	copy(ordered, txs)
	switch ord {
	case SortByDate:
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })
	case RejectOutOfOrder:
		for i := 1; i < len(ordered); i++ {
			if ordered[i].Date.Before(ordered[i-1].Date) {
				return nil, fmt.Errorf("%w: %s %s on %s comes after %s", ErrOutOfOrder, ordered[i].Kind, ordered[i].Symbol, ordered[i].Date, ordered[i-1].Date)
			}
		}
	case TrustInput:
	default:
		return nil, fmt.Errorf("unknown ordering %v", ord)
	}
	return ordered, nil
}

// commonCurrency returns the single currency used by all prices and the
// dividend income. An empty currency matches any other.
func commonCurrency(txs []Transaction, dividend Money) (string, error) {
	currency := dividend.Currency()
	for _, tx := range txs {
		c := tx.Currency()
		switch {
		case c == "":
		case currency == "":
			currency = c
		case c != currency:
			return "", fmt.Errorf("%w: %s %s on %s is in %s, expected %s", ErrCurrencyMismatch, tx.Kind, tx.Symbol, tx.Date, c, currency)
		}
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency, nil
}

// applyLossPolicy returns the taxable short and long-term gains and the loss carried forward.
func applyLossPolicy(p LossPolicy, short, long Money) (taxableShort, taxableLong, carried Money) {
	zero := M(0, short.Currency())
	if p != CarryForward {
		return short, long, zero
	}
	// a loss in one term first reduces the gain of the other term.
	switch {
	case short.IsNegative() && long.IsPositive():
		offset := short.Neg()
		if long.LessThan(offset) {
			offset = long
		}
		short, long = short.Add(offset), long.Sub(offset)
	case long.IsNegative() && short.IsPositive():
		offset := long.Neg()
		if short.LessThan(offset) {
			offset = short
		}
		long, short = long.Add(offset), short.Sub(offset)
	}
	carried = zero
	if short.IsNegative() {
		carried = carried.Sub(short)
		short = zero
	}
	if long.IsNegative() {
		carried = carried.Sub(long)
		long = zero
	}
	return short, long, carried
}
