package goal

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines goal data access. Get methods return (nil, nil) when
// nothing matches; handlers map that to a not-found response.
type Repository interface {
	Create(ctx context.Context, userID int64, params CreateGoalParams) (*Goal, error)
	GetByID(ctx context.Context, id string) (*Goal, error)
	ListByUser(ctx context.Context, userID int64) ([]*Goal, error)
	// OldestIncomplete returns the user's earliest-created goal that is not
	// yet completed, or (nil, nil) when every goal is done.
	OldestIncomplete(ctx context.Context, userID int64) (*Goal, error)
	Update(ctx context.Context, id string, params UpdateGoalParams) (*Goal, error)
	// UpdateProgress overwrites the running amount and the completion latch.
	UpdateProgress(ctx context.Context, id string, current decimal.Decimal, completed bool) error
	Delete(ctx context.Context, id string) error
}
