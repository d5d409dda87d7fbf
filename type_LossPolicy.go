package captax

import "fmt"

// LossPolicy defines how net capital losses are taxed.
type LossPolicy int

const (
	// SignedLoss taxes the signed gains, a net loss yields a negative tax.
	SignedLoss LossPolicy = iota
	// CarryForward offsets a loss in one term against gains in the other term,
	// then floors both at zero and reports the remaining loss as carried forward.
	CarryForward
)

func (p LossPolicy) String() string {
	switch p {
	case SignedLoss:
		return "signed"
	case CarryForward:
		return "carry"
	default:
		return "unknown"
	}
}

// ParseLossPolicy parses a string into a LossPolicy.
func ParseLossPolicy(s string) (LossPolicy, error) {
	switch s {
	case "signed":
		return SignedLoss, nil
	case "carry":
		return CarryForward, nil
	default:
		return 0, fmt.Errorf("unknown loss policy: %q", s)
	}
}
