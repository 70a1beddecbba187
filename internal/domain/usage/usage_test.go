package usage

import (
	"testing"
	"time"
)

func TestNewReport(t *testing.T) {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	w := Window{Limit: 1000, Used: 400, Remaining: 600, Start: start, ResetsAt: start.AddDate(0, 1, 0)}

	r := NewReport(PeriodMonth, "openrouter", true, w)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q", r.Period())
	}
	if r.Provider() != "openrouter" {
		t.Errorf("Provider() = %q", r.Provider())
	}
	if !r.AIEnabled() {
		t.Error("AIEnabled() = false")
	}
	if r.Window().Used != 400 {
		t.Errorf("Window().Used = %d", r.Window().Used)
	}
}

func TestWindow_Exhausted(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want bool
	}{
		{"unlimited", Window{Limit: 0, Remaining: -1}, false},
		{"tokens left", Window{Limit: 10, Remaining: 3}, false},
		{"spent", Window{Limit: 10, Remaining: 0}, true},
	}
	for _, tc := range tests {
		if got := tc.w.Exhausted(); got != tc.want {
			t.Errorf("%s: Exhausted() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in   string
		want Period
		ok   bool
	}{
		{"", PeriodDay, true},
		{"day", PeriodDay, true},
		{"month", PeriodMonth, true},
		{"total", "", false},
	}
	for _, tc := range tests {
		got, ok := ParsePeriod(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParsePeriod(%q) = %q, %v", tc.in, got, ok)
		}
	}
}
