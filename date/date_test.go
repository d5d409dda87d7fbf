package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2023-01-01", want: New(2023, time.January, 1)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "2024-02-29", want: New(2024, time.February, 29)},
		{in: "01/02/2023", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2023-01-01", "2023-06-01", 151},
		{"2022-01-01", "2023-06-01", 516},
		{"2023-01-01", "2024-01-01", 365},
		{"2023-01-01", "2023-12-31", 364},
		{"2024-01-01", "2025-01-01", 366}, // leap year
		{"2023-03-01", "2023-01-01", -59},
		{"2023-03-26", "2023-03-27", 1},
		{"0001-01-01", "2024-01-01", 738885}, // beyond a time.Duration
		{"0001-01-01", "9999-12-31", 3652058},
		{"9999-12-31", "0001-01-01", -3652058},
	}
	for _, tt := range tests {
		got := MustParse(tt.to).DaysSince(MustParse(tt.from))
		if got != tt.want {
			t.Errorf("%s.DaysSince(%s) = %d, want %d", tt.to, tt.from, got, tt.want)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	if got, want := New(2023, time.January, 32), New(2023, time.February, 1); got != want {
		t.Errorf("New(2023, 1, 32) = %v, want %v", got, want)
	}
	if got, want := New(2023, time.March, 1).Add(-1), New(2023, time.February, 28); got != want {
		t.Errorf("Add(-1) = %v, want %v", got, want)
	}
}

func TestJSON(t *testing.T) {
	d := New(2023, time.June, 1)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2023-06-01"` {
		t.Errorf("Marshal() = %s, want %q", b, "2023-06-01")
	}
	var got Date
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != d {
		t.Errorf("Unmarshal() = %v, want %v", got, d)
	}
}

func TestRange(t *testing.T) {
	r, err := ParseTaxYear("2023")
	if err != nil {
		t.Fatalf("ParseTaxYear() error = %v", err)
	}
	for _, tt := range []struct {
		day  string
		want bool
	}{
		{"2022-12-31", false},
		{"2023-01-01", true},
		{"2023-07-14", true},
		{"2023-12-31", true},
		{"2024-01-01", false},
	} {
		if got := r.Contains(MustParse(tt.day)); got != tt.want {
			t.Errorf("%v.Contains(%s) = %v, want %v", r, tt.day, got, tt.want)
		}
	}
	if _, err := ParseTaxYear("twenty"); err == nil {
		t.Error("ParseTaxYear(\"twenty\") expected an error")
	}
	if !(Range{}).IsZero() {
		t.Error("zero Range should report IsZero")
	}
}
