package renderer

import (
	"github.com/etnz/captax"
)

// Transactions is a struct to represent the ledger history for rendering.
type Transactions struct {
	Symbol string // empty for all symbols
	Lines  []TransactionLine
}

// TransactionLine is a single transaction in a history table.
type TransactionLine struct {
	captax.Transaction
}

// ShortID returns the first 8 characters of the ID, enough to remove it.
func (l TransactionLine) ShortID() string {
	if len(l.ID) > 8 {
		return l.ID[:8]
	}
	return l.ID
}

// NewTransactions builds the history of txs.
func NewTransactions(symbol string, txs []captax.Transaction) *Transactions {
	t := &Transactions{Symbol: symbol}
	for _, tx := range txs {
		t.Lines = append(t.Lines, TransactionLine{tx})
	}
	return t
}

// TransactionsMarkdown renders a transaction history as markdown.
func TransactionsMarkdown(symbol string, txs []captax.Transaction) string {
	return RenderTransactions(NewTransactions(symbol, txs))
}
