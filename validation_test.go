package captax

import (
	"errors"
	"testing"

	"github.com/etnz/captax/date"
)

func TestTransaction_Validate(t *testing.T) {
	today := date.MustParse("2024-01-01")
	tests := []struct {
		name string
		tx   Transaction
		want error
	}{
		{name: "valid buy", tx: buy("2023-01-01", "X", 10, 100)},
		{name: "valid sell today", tx: sell("2024-01-01", "X", 10, 0)},
		{name: "zero quantity", tx: buy("2023-01-01", "X", 0, 100), want: ErrInvalidQuantity},
		{name: "negative quantity", tx: sell("2023-01-01", "X", -3, 100), want: ErrInvalidQuantity},
		{name: "fractional quantity", tx: NewBuy(date.MustParse("2023-01-01"), "X", Q(1.5), USD(1)), want: ErrInvalidQuantity},
		{name: "negative price", tx: buy("2023-01-01", "X", 1, -1), want: ErrInvalidPrice},
		{name: "future date", tx: buy("2024-01-02", "X", 1, 1), want: ErrInvalidDate},
		{name: "missing date", tx: NewBuy(date.Date{}, "X", Q(1), USD(1)), want: ErrInvalidDate},
		{name: "missing symbol", tx: buy("2023-01-01", "  ", 1, 1), want: ErrUnknownSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate(today)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateAll(t *testing.T) {
	today := date.MustParse("2024-01-01")
	err := ValidateAll([]Transaction{
		buy("2023-01-01", "X", 0, 100),
		buy("2023-01-01", "X", 1, 100),
		sell("2025-01-01", "X", 1, 100),
	}, today)
	if !errors.Is(err, ErrInvalidQuantity) || !errors.Is(err, ErrInvalidDate) {
		t.Errorf("ValidateAll() error = %v, want both quantity and date errors", err)
	}
	if err := ValidateAll(nil, today); err != nil {
		t.Errorf("ValidateAll(nil) error = %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"buy": Buy, "SELL": Sell, " Buy ": Buy} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("dividend"); err == nil {
		t.Error("ParseKind(\"dividend\") expected an error")
	}
}
