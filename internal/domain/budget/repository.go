package budget

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines budget data access.
// Create returns ErrDuplicateBudget when the (user, category, month, year)
// unique index is violated.
type Repository interface {
	Create(ctx context.Context, userID int64, params CreateBudgetParams) (*Budget, error)
	GetByID(ctx context.Context, id string) (*Budget, error)
	GetByUserCategory(ctx context.Context, userID int64, category string) (*Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]*Budget, error)
	ListAll(ctx context.Context) ([]*Budget, error)
	Update(ctx context.Context, id string, params UpdateBudgetParams) (*Budget, error)
	Delete(ctx context.Context, id string) error
	AdjustLimit(ctx context.Context, id string, delta decimal.Decimal) error
}
