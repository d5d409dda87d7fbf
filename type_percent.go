package captax

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage for display, 30 means 30%.
type Percent float64

// RatePercent converts a fraction like 0.3 into a Percent.
func RatePercent(rate decimal.Decimal) Percent {
	return Percent(rate.Shift(2).InexactFloat64())
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}
