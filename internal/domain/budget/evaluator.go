package budget

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Alert levels produced by Evaluate.
const (
	LevelExceeded  = "exceeded"
	LevelNearLimit = "near-limit"
)

// nearLimitThreshold marks a budget as near-limit once remaining headroom
// drops to 20% of the limit or less.
var nearLimitThreshold = decimal.NewFromFloat(0.2)

// SpendingSource reports the lifetime transaction total for one user and
// category, income and expense alike. Satisfied by the transaction
// repository.
type SpendingSource interface {
	SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
}

// Decision is an alert worth notifying the user about. Evaluate returns
// nil when spending is comfortably inside the limit.
type Decision struct {
	Level      string
	Category   string
	TotalSpent decimal.Decimal
	Limit      decimal.Decimal
	Remaining  decimal.Decimal
	Currency   string
}

// Evaluator decides whether a user's spending in a category has crossed
// the budget's alert thresholds.
type Evaluator struct {
	budgets  Repository
	spending SpendingSource
}

func NewEvaluator(budgets Repository, spending SpendingSource) *Evaluator {
	return &Evaluator{budgets: budgets, spending: spending}
}

// Evaluate compares total spending against the budget for (userID, category).
// The total covers every transaction in the category regardless of type and
// is not scoped to the budget's month. A budget with a zero or negative
// limit is exceeded by any spending at all.
func (e *Evaluator) Evaluate(ctx context.Context, userID int64, category string) (*Decision, error) {
	b, err := e.budgets.GetByUserCategory(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}
	if b == nil {
		return nil, nil
	}

	spent, err := e.spending.SumByUserCategory(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("sum spending: %w", err)
	}

	remaining := b.Limit.Sub(spent)
	d := &Decision{
		Category:   b.Category,
		TotalSpent: spent,
		Limit:      b.Limit,
		Remaining:  remaining,
		Currency:   b.Currency,
	}

	if b.Limit.Sign() <= 0 {
		if spent.Sign() > 0 {
			d.Level = LevelExceeded
			return d, nil
		}
		return nil, nil
	}

	switch {
	case remaining.Sign() <= 0:
		d.Level = LevelExceeded
	case remaining.Cmp(b.Limit.Mul(nearLimitThreshold)) <= 0:
		d.Level = LevelNearLimit
	default:
		return nil, nil
	}
	return d, nil
}

// ApplyDelta shifts the budget limit by the signed amount of a new
// transaction in the category: positive for income, negative for expenses.
// This happens regardless of what Evaluate decides. Missing budgets are
// not an error; the transaction simply has no budget to adjust.
func (e *Evaluator) ApplyDelta(ctx context.Context, userID int64, category string, delta decimal.Decimal) error {
	b, err := e.budgets.GetByUserCategory(ctx, userID, category)
	if err != nil {
		return fmt.Errorf("load budget: %w", err)
	}
	if b == nil {
		return nil
	}
	if err := e.budgets.AdjustLimit(ctx, b.ID, delta); err != nil {
		return fmt.Errorf("adjust limit: %w", err)
	}
	return nil
}

// Recommend produces advice for a freshly created budget based on how much
// of the limit is already spent. Returns ok=false when spending sits in a
// band that warrants no message.
func Recommend(category string, spent, limit decimal.Decimal) (string, bool) {
	if limit.Sign() <= 0 {
		if spent.Sign() > 0 {
			return fmt.Sprintf("You have already exceeded your %s budget. Consider adjusting the limit or cutting back.", category), true
		}
		return "", false
	}

	ratio := spent.Div(limit)
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(1)):
		return fmt.Sprintf("You have already exceeded your %s budget. Consider adjusting the limit or cutting back.", category), true
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.8)):
		return fmt.Sprintf("You have used over 80%% of your %s budget. Keep a close eye on further spending.", category), true
	case ratio.GreaterThan(decimal.NewFromFloat(0.3)) && ratio.LessThan(decimal.NewFromFloat(0.5)):
		return fmt.Sprintf("You are on a steady pace with your %s budget. Nice work staying on track.", category), true
	}
	return "", false
}
