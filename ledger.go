package captax

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/etnz/captax/date"
	"github.com/google/uuid"
)

// Ledger represents the list of transactions of a calculation session.
//
// Transactions are kept in the order they were recorded, Fmt sorts them.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Append appends transactions to this ledger, assigning an ID to those without one.
func (l *Ledger) Append(txs ...Transaction) {
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		l.transactions = append(l.transactions, tx)
	}
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// List returns a copy of all transactions in ledger order.
func (l *Ledger) List() []Transaction { return slices.Clone(l.transactions) }

// Transactions returns an iterator that yields each transaction accepted by
// all filters, in ledger order.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
	next:
		for _, tx := range l.transactions {
			for _, filter := range filters {
				if !filter(tx) {
					continue next
				}
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// AcceptAll is a filter that accepts every transaction.
func AcceptAll(Transaction) bool { return true }

// BySymbol returns a predicate that filters transactions by ticker.
func BySymbol(symbol string) func(Transaction) bool {
	symbol = NormalizeSymbol(symbol)
	return func(tx Transaction) bool { return tx.Symbol == symbol }
}

// InRange returns a predicate that filters transactions dated within r.
func InRange(r date.Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// Symbols returns the sorted list of distinct tickers in the ledger.
func (l *Ledger) Symbols() []string {
	var symbols []string
	for _, tx := range l.transactions {
		if !slices.Contains(symbols, tx.Symbol) {
			symbols = append(symbols, tx.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// find returns the index of the transaction whose ID starts with prefix.
func (l *Ledger) find(prefix string) (int, error) {
	if prefix == "" {
		return -1, fmt.Errorf("empty transaction id")
	}
	found := -1
	for i, tx := range l.transactions {
		if strings.HasPrefix(tx.ID, prefix) {
			if found >= 0 {
				return -1, fmt.Errorf("transaction id %q is ambiguous", prefix)
			}
			found = i
		}
	}
	if found < 0 {
		return -1, fmt.Errorf("no transaction with id %q", prefix)
	}
	return found, nil
}

// Remove deletes the transaction identified by id, or an unambiguous prefix of it.
func (l *Ledger) Remove(id string) (Transaction, error) {
	i, err := l.find(id)
	if err != nil {
		return Transaction{}, err
	}
	tx := l.transactions[i]
	l.transactions = slices.Delete(l.transactions, i, i+1)
	return tx, nil
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// transactions on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Fmt validates every transaction and returns a new ledger sorted by date.
// Symbols are normalized and missing IDs are assigned.
func (l *Ledger) Fmt(today date.Date) (*Ledger, error) {
	if err := ValidateAll(l.transactions, today); err != nil {
		return nil, err
	}
	n := NewLedger()
	for _, tx := range l.transactions {
		tx.Symbol = NormalizeSymbol(tx.Symbol)
		n.Append(tx)
	}
	n.stableSort()
	return n, nil
}
