package date

import (
	"fmt"
	"strconv"
	"time"
)

// Range represents a range of dates.
type Range struct{ From, To Date }

// TaxYear returns the calendar year range used for tax reporting.
func TaxYear(year int) Range {
	return Range{From: New(year, time.January, 1), To: New(year, time.December, 31)}
}

// ParseTaxYear parses a four digit year into its tax year range.
func ParseTaxYear(str string) (Range, error) {
	y, err := strconv.Atoi(str)
	if err != nil || y < 1 || y > 9999 {
		return Range{}, fmt.Errorf("invalid tax year %q", str)
	}
	return TaxYear(y), nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// IsZero reports whether the range is unset, which callers read as "all dates".
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
