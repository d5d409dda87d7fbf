package captax

import (
	"testing"

	"github.com/etnz/captax/date"
)

func TestLots_Sell(t *testing.T) {
	open := lots{
		{Symbol: "X", Date: date.MustParse("2023-01-01"), Price: USD(100), Remaining: Q(5)},
		{Symbol: "X", Date: date.MustParse("2023-02-01"), Price: USD(120), Remaining: Q(5)},
	}

	tests := []struct {
		name          string
		quantity      int
		wantMatches   []int // shares per match
		wantRemaining []int // remaining shares per open lot
		wantUnmatched int
	}{
		{name: "partial first lot", quantity: 3, wantMatches: []int{3}, wantRemaining: []int{2, 5}},
		{name: "exactly first lot", quantity: 5, wantMatches: []int{5}, wantRemaining: []int{5}},
		{name: "spans both lots", quantity: 8, wantMatches: []int{5, 3}, wantRemaining: []int{2}},
		{name: "all lots", quantity: 10, wantMatches: []int{5, 5}},
		{name: "more than held", quantity: 12, wantMatches: []int{5, 5}, wantUnmatched: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := make(lots, len(open))
			copy(queue, open)
			remaining, matches, unmatched := queue.sell(sell("2023-03-01", "X", tt.quantity, 150))

			if len(matches) != len(tt.wantMatches) {
				t.Fatalf("got %d matches, want %d", len(matches), len(tt.wantMatches))
			}
			for i, m := range matches {
				if !m.Shares.Equal(Q(tt.wantMatches[i])) {
					t.Errorf("match #%d shares = %v, want %d", i, m.Shares, tt.wantMatches[i])
				}
			}
			if len(remaining) != len(tt.wantRemaining) {
				t.Fatalf("got %d open lots, want %d", len(remaining), len(tt.wantRemaining))
			}
			for i, l := range remaining {
				if !l.Remaining.Equal(Q(tt.wantRemaining[i])) {
					t.Errorf("lot #%d remaining = %v, want %d", i, l.Remaining, tt.wantRemaining[i])
				}
			}
			if !unmatched.Equal(Q(tt.wantUnmatched)) {
				t.Errorf("unmatched = %v, want %d", unmatched, tt.wantUnmatched)
			}
		})
	}
}

func TestMatch_Profit(t *testing.T) {
	m := Match{
		BuyDate:   date.MustParse("2023-02-01"),
		SellDate:  date.MustParse("2023-03-01"),
		HeldDays:  28,
		Shares:    Q(3),
		BuyPrice:  USD(120),
		SellPrice: USD(150),
	}
	checkMoney(t, "Profit", m.Profit(), 90)
	if m.Term() != ShortTerm {
		t.Errorf("Term() = %v, want short-term", m.Term())
	}
}

func TestClassify(t *testing.T) {
	for days, want := range map[int]Term{0: ShortTerm, 364: ShortTerm, 365: LongTerm, 1000: LongTerm} {
		if got := Classify(days); got != want {
			t.Errorf("Classify(%d) = %v, want %v", days, got, want)
		}
	}
}
