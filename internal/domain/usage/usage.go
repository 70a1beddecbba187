// Package usage describes completion token consumption against the configured budget.
package usage

import "time"

// Period is the aggregation granularity.
type Period string

// Aggregation periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query value onto a Period. Empty selects the day.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Window is a point-in-time view of one token accounting period.
type Window struct {
	Limit     int64 // 0 means unlimited
	Used      int64
	Remaining int64 // -1 when unlimited
	Start     time.Time
	ResetsAt  time.Time
}

// Exhausted reports whether a limited window has no tokens left.
func (w Window) Exhausted() bool { return w.Limit > 0 && w.Remaining <= 0 }

// Report is a usage report for one period.
type Report struct {
	period    Period
	provider  string
	aiEnabled bool
	window    Window
}

// NewReport creates a usage report.
func NewReport(period Period, provider string, aiEnabled bool, w Window) Report {
	return Report{period: period, provider: provider, aiEnabled: aiEnabled, window: w}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// Provider returns the completion provider name, empty when none is configured.
func (r *Report) Provider() string { return r.provider }

// AIEnabled reports whether searches may use the language model.
func (r *Report) AIEnabled() bool { return r.aiEnabled }

// Window returns the token window for the period.
func (r *Report) Window() Window { return r.window }
