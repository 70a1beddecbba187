package usage

import domusage "github.com/kailas-cloud/prodex/internal/domain/usage"

// BudgetReader provides read-only access to the completion token budget.
type BudgetReader interface {
	Provider() string
	Status() (daily, monthly domusage.Window)
}
