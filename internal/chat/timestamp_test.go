package chat

import (
	"testing"
	"time"
)

func TestParseTimestamp_AllLayouts(t *testing.T) {
	cases := []struct {
		date, clock string
		want        time.Time
	}{
		{"1/2/23", "9:05 AM", time.Date(2023, 1, 2, 9, 5, 0, 0, time.UTC)},
		{"1/2/2023", "9:05 AM", time.Date(2023, 1, 2, 9, 5, 0, 0, time.UTC)},
		{"1/2/23", "9:05:30 AM", time.Date(2023, 1, 2, 9, 5, 30, 0, time.UTC)},
		{"1/2/2023", "9:05:30 PM", time.Date(2023, 1, 2, 21, 5, 30, 0, time.UTC)},
		{"12/31/23", "11:59 pm", time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		got, ok := parseTimestamp(c.date, c.clock)
		if !ok {
			t.Errorf("parseTimestamp(%q, %q) failed", c.date, c.clock)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("parseTimestamp(%q, %q) = %v, want %v", c.date, c.clock, got, c.want)
		}
	}
}

func TestParseTimestamp_CenturyRule(t *testing.T) {
	// Stdlib rule: 00-68 parse as 20xx, 69-99 as 19xx.
	got, ok := parseTimestamp("1/2/68", "9:00 AM")
	if !ok || got.Year() != 2068 {
		t.Errorf("year 68 -> %v, want 2068", got)
	}
	got, ok = parseTimestamp("1/2/69", "9:00 AM")
	if !ok || got.Year() != 1969 {
		t.Errorf("year 69 -> %v, want 1969", got)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, c := range []struct{ date, clock string }{
		{"13/45/23", "9:00 AM"},  // impossible month/day
		{"1/2/23", "25:00 AM"},   // impossible hour
		{"1/2/235", "9:00 AM"},   // three-digit year
		{"1/2/23", "9:00 XX"},    // bad meridiem
	} {
		if _, ok := parseTimestamp(c.date, c.clock); ok {
			t.Errorf("parseTimestamp(%q, %q) succeeded, want failure", c.date, c.clock)
		}
	}
}
