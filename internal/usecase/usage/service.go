package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/prodex/internal/domain/usage"
)

// Service handles usage reporting.
type Service struct {
	br        BudgetReader
	aiEnabled bool
	now       func() time.Time
}

// New creates a Service. br is nil when no completion provider is configured.
func New(br BudgetReader) *Service {
	return &Service{br: br, aiEnabled: br != nil, now: func() time.Time { return time.Now().UTC() }}
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(_ context.Context, period domusage.Period) domusage.Report {
	if s.br == nil {
		return domusage.NewReport(period, "", false, s.unlimited(period))
	}

	daily, monthly := s.br.Status()
	w := daily
	if period == domusage.PeriodMonth {
		w = monthly
	}
	return domusage.NewReport(period, s.br.Provider(), s.aiEnabled, w)
}

// unlimited describes an empty window for a deployment without a provider.
func (s *Service) unlimited(period domusage.Period) domusage.Window {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	if period == domusage.PeriodMonth {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}
	return domusage.Window{Remaining: -1, Start: start, ResetsAt: end}
}
