package captax

import (
	"github.com/etnz/captax/date"
)

// HoldingThreshold is the number of days a lot must be held to be long-term.
const HoldingThreshold = 365

// Term classifies a realized gain by holding period.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	if t == LongTerm {
		return "long-term"
	}
	return "short-term"
}

// Classify returns the term of a holding kept for heldDays.
// Exactly HoldingThreshold days is long-term.
func Classify(heldDays int) Term {
	if heldDays < HoldingThreshold {
		return ShortTerm
	}
	return LongTerm
}

// lot represents the still open part of a single purchase.
type lot struct {
	Symbol    string
	Date      date.Date
	Price     Money    // unit price paid
	Remaining Quantity // shares not yet matched against a sale
}

type lots []lot

// Match is the pairing of (part of) a sale with (part of) an open lot.
type Match struct {
	Symbol    string    // Symbol of the sale.
	LotSymbol string    // Symbol of the lot, only differs from Symbol with Global matching.
	BuyDate   date.Date // BuyDate is the purchase date of the lot.
	SellDate  date.Date
	HeldDays  int
	Shares    Quantity
	BuyPrice  Money
	SellPrice Money
}

// Term returns the holding term of the match.
func (m Match) Term() Term { return Classify(m.HeldDays) }

// Profit returns (sell price - buy price) * shares, negative for a loss.
func (m Match) Profit() Money { return m.SellPrice.Sub(m.BuyPrice).Mul(m.Shares) }

// sell consumes lots from the front of the queue until quantityToSell is
// exhausted or there are no lots left. It returns the remaining lots, the
// matches, and the quantity that could not be matched.
func (l lots) sell(tx Transaction) (remaining lots, matches []Match, unmatched Quantity) {
	quantityToSell := tx.Quantity
	i := 0
	for ; i < len(l) && quantityToSell.IsPositive(); i++ {
		current := &l[i]
		shares := current.Remaining.Min(quantityToSell)
		matches = append(matches, Match{
			Symbol:    tx.Symbol,
			LotSymbol: current.Symbol,
			BuyDate:   current.Date,
			SellDate:  tx.Date,
			HeldDays:  tx.Date.DaysSince(current.Date),
			Shares:    shares,
			BuyPrice:  current.Price,
			SellPrice: tx.Price,
		})
		current.Remaining = current.Remaining.Sub(shares)
		quantityToSell = quantityToSell.Sub(shares)
		if current.Remaining.IsPositive() {
			// Partial sale from this lot, it stays at the front.
			break
		}
	}
	return l[i:], matches, quantityToSell
}

// openLots holds the FIFO queues of open lots.
type openLots struct {
	matching Matching
	queues   map[string]lots
}

func newOpenLots(m Matching) *openLots {
	return &openLots{matching: m, queues: make(map[string]lots)}
}

// key returns the queue a symbol belongs to.
func (o *openLots) key(symbol string) string {
	if o.matching == Global {
		return ""
	}
	return symbol
}

// buy opens a new lot at the end of its queue.
func (o *openLots) buy(tx Transaction) {
	k := o.key(tx.Symbol)
	o.queues[k] = append(o.queues[k], lot{Symbol: tx.Symbol, Date: tx.Date, Price: tx.Price, Remaining: tx.Quantity})
}

// sell matches tx against its queue.
func (o *openLots) sell(tx Transaction) ([]Match, Quantity) {
	k := o.key(tx.Symbol)
	remaining, matches, unmatched := o.queues[k].sell(tx)
	if len(remaining) == 0 {
		delete(o.queues, k)
	} else {
		o.queues[k] = remaining
	}
	return matches, unmatched
}

// position returns the number of open shares for symbol.
func (o *openLots) position(symbol string) Quantity {
	var q Quantity
	for _, l := range o.queues[o.key(symbol)] {
		if o.matching == Global || l.Symbol == symbol {
			q = q.Add(l.Remaining)
		}
	}
	return q
}
