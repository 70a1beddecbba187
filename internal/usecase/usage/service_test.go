package usage

import (
	"context"
	"testing"
	"time"

	domusage "github.com/kailas-cloud/prodex/internal/domain/usage"
)

type mockBudget struct {
	daily, monthly domusage.Window
}

func (m *mockBudget) Provider() string { return "openrouter" }

func (m *mockBudget) Status() (daily, monthly domusage.Window) { return m.daily, m.monthly }

func TestGetReport_Day(t *testing.T) {
	svc := New(&mockBudget{
		daily:   domusage.Window{Limit: 1000, Used: 250, Remaining: 750},
		monthly: domusage.Window{Limit: 0, Used: 9000, Remaining: -1},
	})

	r := svc.GetReport(context.Background(), domusage.PeriodDay)
	if r.Provider() != "openrouter" || !r.AIEnabled() {
		t.Errorf("provider=%q aiEnabled=%v", r.Provider(), r.AIEnabled())
	}
	if r.Window().Used != 250 || r.Window().Remaining != 750 {
		t.Errorf("window = %+v", r.Window())
	}
}

func TestGetReport_Month(t *testing.T) {
	svc := New(&mockBudget{monthly: domusage.Window{Used: 9000, Remaining: -1}})

	r := svc.GetReport(context.Background(), domusage.PeriodMonth)
	if r.Window().Used != 9000 {
		t.Errorf("window = %+v", r.Window())
	}
}

func TestGetReport_NoProvider(t *testing.T) {
	svc := New(nil)
	svc.now = func() time.Time { return time.Date(2026, 2, 14, 15, 0, 0, 0, time.UTC) }

	r := svc.GetReport(context.Background(), domusage.PeriodMonth)
	if r.AIEnabled() {
		t.Error("AIEnabled() = true without budget reader")
	}
	w := r.Window()
	if w.Remaining != -1 || w.Exhausted() {
		t.Errorf("window = %+v", w)
	}
	if !w.ResetsAt.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ResetsAt = %v", w.ResetsAt)
	}
}
