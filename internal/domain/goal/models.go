package goal

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrGoalNotFound = errors.New("goal not found")

// Goal is a savings target the user pays into over time.
// IsCompleted latches: once CurrentAmount reaches TargetAmount it is set
// and never cleared, even if the target is later raised.
type Goal struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"-"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	IsCompleted   bool            `json:"isCompleted"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type CreateGoalParams struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
}

func (p *CreateGoalParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if !p.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}
	if p.CurrentAmount.IsNegative() {
		return errors.New("current amount cannot be negative")
	}
	if p.TargetDate.IsZero() {
		return errors.New("target date is required")
	}
	return nil
}

type UpdateGoalParams struct {
	Name         *string
	TargetAmount *decimal.Decimal
	TargetDate   *time.Time
}

func (p *UpdateGoalParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("name cannot be empty")
	}
	if p.TargetAmount != nil && !p.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}
	return nil
}
