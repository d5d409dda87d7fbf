package captax

import "fmt"

// Ordering defines what the engine does with the order of the transactions it receives.
type Ordering int

const (
	// SortByDate stable sorts transactions by date before matching, same-day
	// transactions keep their input order.
	SortByDate Ordering = iota
	// RejectOutOfOrder fails with ErrOutOfOrder when a transaction is dated before its predecessor.
	RejectOutOfOrder
	// TrustInput processes transactions in the order supplied.
	TrustInput
)

func (o Ordering) String() string {
	switch o {
	case SortByDate:
		return "sort"
	case RejectOutOfOrder:
		return "strict"
	case TrustInput:
		return "trust"
	default:
		return "unknown"
	}
}

// ParseOrdering parses a string into an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "sort":
		return SortByDate, nil
	case "strict":
		return RejectOutOfOrder, nil
	case "trust":
		return TrustInput, nil
	default:
		return 0, fmt.Errorf("unknown ordering: %q", s)
	}
}
