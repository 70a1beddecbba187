package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates every configured component is operational.
	Healthy Status = "ok"
	// Degraded indicates a component failed; searches still succeed on the keyword path.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled marks a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

// checkTimeout bounds each probe so /health answers even when a dependency hangs.
const checkTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	completion CompletionChecker
}

// New creates a Service. Both dependencies are optional.
func New(db DBPinger, completion CompletionChecker) *Service {
	return &Service{db: db, completion: completion}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"database":   CheckDisabled,
		"completion": CheckDisabled,
	}

	if s.db != nil {
		checks["database"] = probe(ctx, s.db.Ping)
	}
	if s.completion != nil {
		checks["completion"] = probe(ctx, s.completion.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
