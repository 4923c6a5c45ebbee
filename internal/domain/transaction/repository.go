package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines transaction data access. Create persists a fully
// formed transaction built by the service, which has already normalized
// the currency.
type Repository interface {
	Create(ctx context.Context, t *Transaction) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error)
	ListAll(ctx context.Context) ([]*Transaction, error)
	Update(ctx context.Context, id string, params UpdateTransactionParams) (*Transaction, error)
	Delete(ctx context.Context, id string) error

	// SumByUserCategory totals every transaction amount for the user and
	// category across all time, income and expense alike.
	SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error)

	// ListRecurring returns every recurring transaction whose end date has
	// not passed as of the given time.
	ListRecurring(ctx context.Context, asOf time.Time) ([]*Transaction, error)
}
