package captax

import (
	"errors"
	"fmt"

	"github.com/etnz/captax/date"
)

// Errors reported while checking transactions or computing taxes.
// Callers match them with errors.Is.
var (
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownSymbol    = errors.New("unknown symbol")
	ErrInsufficientLots = errors.New("insufficient open lots")
	ErrOutOfOrder       = errors.New("transactions out of chronological order")
)

// Validate checks that the transaction can be submitted to the tax engine.
// today bounds the date: trades cannot happen in the future.
func (t Transaction) Validate(today date.Date) error {
	if _, err := ParseKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Symbol == "" {
		return fmt.Errorf("%w: symbol is missing", ErrUnknownSymbol)
	}
	if !t.Quantity.IsPositive() || !t.Quantity.IsInteger() {
		return fmt.Errorf("%w: %s quantity must be a positive whole number of shares, got %s", ErrInvalidQuantity, t.Kind, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: %s price must not be negative, got %s", ErrInvalidPrice, t.Kind, t.Price)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: %s date is missing", ErrInvalidDate, t.Kind)
	}
	if t.Date.After(today) {
		return fmt.Errorf("%w: %s on %s is in the future", ErrInvalidDate, t.Kind, t.Date)
	}
	return nil
}

// ValidateAll validates every transaction and joins all the failures.
func ValidateAll(txs []Transaction, today date.Date) error {
	var errs []error
	for i, tx := range txs {
		if err := tx.Validate(today); err != nil {
			errs = append(errs, fmt.Errorf("transaction #%d (%s %s): %w", i+1, tx.Kind, tx.Symbol, err))
		}
	}
	return errors.Join(errs...)
}

// ErrCurrencyMismatch is returned when prices or dividends mix currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// ErrInvalidAmount is returned for a negative dividend income.
var ErrInvalidAmount = errors.New("invalid amount")
