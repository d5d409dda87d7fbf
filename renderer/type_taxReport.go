package renderer

import (
	"github.com/etnz/captax"
	"github.com/etnz/captax/date"
)

// TaxReport is a struct to represent a tax computation for rendering.
type TaxReport struct {
	Period    string // empty for all time
	Policy    string
	Threshold int // holding days for long-term
	Details   bool

	Rates struct {
		ShortTerm captax.Percent
		LongTerm  captax.Percent
		Dividend  captax.Percent
	}

	ShortTermGain    captax.Money
	LongTermGain     captax.Money
	TaxableShortTerm captax.Money
	TaxableLongTerm  captax.Money
	CarriedLoss      captax.Money
	ShortTermTax     captax.Money
	LongTermTax      captax.Money
	DividendIncome   captax.Money
	DividendTax      captax.Money
	Total            captax.Money

	Matches   []captax.Match
	Unmatched []captax.Unmatched
	OpenLots  []captax.OpenLot
}

// NewTaxReport builds the report of r over period, a zero period means all
// time. With details, lot matches and open lots are listed.
func NewTaxReport(r *captax.TaxResult, period date.Range, details bool) *TaxReport {
	t := &TaxReport{
		Policy:           r.Policy.String(),
		Threshold:        captax.HoldingThreshold,
		Details:          details,
		ShortTermGain:    r.ShortTermGain,
		LongTermGain:     r.LongTermGain,
		TaxableShortTerm: r.TaxableShortTerm,
		TaxableLongTerm:  r.TaxableLongTerm,
		CarriedLoss:      r.CarriedLoss,
		ShortTermTax:     r.ShortTermTax,
		LongTermTax:      r.LongTermTax,
		DividendIncome:   r.DividendIncome,
		DividendTax:      r.DividendTax,
		Total:            r.Total(),
		Matches:          r.Matches,
		Unmatched:        r.Unmatched,
		OpenLots:         r.OpenLots,
	}
	if !period.IsZero() {
		t.Period = period.String()
	}
	t.Rates.ShortTerm = captax.RatePercent(r.Rates.ShortTerm)
	t.Rates.LongTerm = captax.RatePercent(r.Rates.LongTerm)
	t.Rates.Dividend = captax.RatePercent(r.Rates.Dividend)
	return t
}

// TaxMarkdown renders a tax computation as markdown.
func TaxMarkdown(r *captax.TaxResult, period date.Range, details bool) string {
	return RenderTaxReport(NewTaxReport(r, period, details))
}
