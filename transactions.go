package captax

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/captax/date"
	"github.com/shopspring/decimal"
)

// Kind is a typed string for identifying transaction commands.
type Kind string

// Kinds of transactions understood by the tax engine.
const (
	Buy  Kind = "buy"
	Sell Kind = "sell"
)

// ParseKind parses "buy" or "sell" (case insensitive).
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Buy, Sell:
		return k, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", s)
	}
}

// Transaction is a single purchase or sale of shares of a security.
type Transaction struct {
	Kind     Kind      // Kind is either Buy or Sell.
	ID       string    // ID identifies the ledger line, it is assigned when recorded.
	Date     date.Date // Date is the day the trade settled.
	Memo     string    // Memo provides an optional rationale or note for the transaction.
	Symbol   string    // Symbol is the ticker of the security.
	Quantity Quantity  // Quantity is the number of shares, a positive integer.
	Price    Money     // Price is the unit price per share, zero is a valid price.

	// PriceMissing is set for a ledger line recorded without a price, Price is then zero.
	PriceMissing bool
}

// NewBuy creates a new Buy transaction. The symbol is normalized to upper case.
func NewBuy(day date.Date, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Kind: Buy, Date: day, Symbol: NormalizeSymbol(symbol), Quantity: quantity, Price: price}
}

// NewSell creates a new Sell transaction. The symbol is normalized to upper case.
func NewSell(day date.Date, symbol string, quantity Quantity, price Money) Transaction {
	return Transaction{Kind: Sell, Date: day, Symbol: NormalizeSymbol(symbol), Quantity: quantity, Price: price}
}

// NormalizeSymbol trims and upper-cases a ticker.
func NormalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// Amount returns the total value of the trade (price times quantity).
func (t Transaction) Amount() Money { return t.Price.Mul(t.Quantity) }

// Currency returns the currency of the unit price.
func (t Transaction) Currency() string { return t.Price.Currency() }

// Equal reports whether both transactions hold the same values.
func (t Transaction) Equal(o Transaction) bool {
	return t.Kind == o.Kind && t.ID == o.ID && t.Date == o.Date && t.Memo == o.Memo &&
		t.Symbol == o.Symbol && t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price) && t.PriceMissing == o.PriceMissing
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("command", t.Kind)
	w.Optional("id", t.ID)
	w.Append("date", t.Date)
	w.Optional("memo", t.Memo)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	if !t.PriceMissing {
		w.Append("price", t.Price.Decimal())
	}
	w.Optional("currency", t.Price.Currency())
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// The price and its currency are stored in two separate fields, a line
// without "price" is read as PriceMissing.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		Command  Kind             `json:"command"`
		ID       string           `json:"id"`
		Date     date.Date        `json:"date"`
		Memo     string           `json:"memo"`
		Symbol   string           `json:"symbol"`
		Quantity Quantity         `json:"quantity"`
		Price    *decimal.Decimal `json:"price"`
		Currency string           `json:"currency"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	kind, err := ParseKind(string(temp.Command))
	if err != nil {
		return err
	}
	*t = Transaction{
		Kind:     kind,
		ID:       temp.ID,
		Date:     temp.Date,
		Memo:     temp.Memo,
		Symbol:   temp.Symbol,
		Quantity: temp.Quantity,
		Price:    M(0, temp.Currency),
	}
	if temp.Price == nil {
		t.PriceMissing = true
	} else {
		t.Price = M(*temp.Price, temp.Currency)
	}
	return nil
}
