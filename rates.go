package captax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRates holds the flat rates applied to realized gains and dividend income.
// Rates are fractions: 0.3 means 30%.
type TaxRates struct {
	ShortTerm decimal.Decimal `json:"shortTerm"`
	LongTerm  decimal.Decimal `json:"longTerm"`
	Dividend  decimal.Decimal `json:"dividend"`
}

// DefaultRates are the rates used when none are configured.
var DefaultRates = TaxRates{
	ShortTerm: decimal.RequireFromString("0.30"),
	LongTerm:  decimal.RequireFromString("0.15"),
	Dividend:  decimal.RequireFromString("0.20"),
}

// NewTaxRates builds rates from float fractions.
func NewTaxRates(shortTerm, longTerm, dividend float64) TaxRates {
	return TaxRates{
		ShortTerm: decimal.NewFromFloat(shortTerm),
		LongTerm:  decimal.NewFromFloat(longTerm),
		Dividend:  decimal.NewFromFloat(dividend),
	}
}

// Validate rejects negative rates.
func (r TaxRates) Validate() error {
	for _, rate := range []struct {
		name string
		v    decimal.Decimal
	}{{"short-term", r.ShortTerm}, {"long-term", r.LongTerm}, {"dividend", r.Dividend}} {
		if rate.v.IsNegative() {
			return fmt.Errorf("%s rate must not be negative, got %s", rate.name, rate.v)
		}
	}
	return nil
}
