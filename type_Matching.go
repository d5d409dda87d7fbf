package captax

import "fmt"

// Matching defines how sells are paired with open buy lots.
type Matching int

const (
	// PerSymbol keeps one FIFO queue of open lots per ticker, a sell only consumes lots of its own symbol.
	PerSymbol Matching = iota
	// Global keeps a single FIFO queue across all tickers, a sell consumes the oldest lot whatever its symbol.
	Global
)

func (m Matching) String() string {
	switch m {
	case PerSymbol:
		return "symbol"
	case Global:
		return "global"
	default:
		return "unknown"
	}
}

// ParseMatching parses a string into a Matching.
func ParseMatching(s string) (Matching, error) {
	switch s {
	case "symbol":
		return PerSymbol, nil
	case "global":
		return Global, nil
	default:
		return 0, fmt.Errorf("unknown matching method: %q", s)
	}
}
