package goal

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
)

// savingsRate is the share of every income transaction routed to the
// user's oldest open goal.
var savingsRate = decimal.NewFromFloat(0.10)

// Service owns goal progress and the automatic income savings rule.
type Service struct {
	repo     Repository
	notifier *notification.Notifier
}

func NewService(repo Repository, notifier *notification.Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// AddProgress adds amount to the goal's running total. When the total
// reaches the target for the first time the goal is marked completed and a
// congratulations email goes out; neither happens again on later deposits.
func (s *Service) AddProgress(ctx context.Context, u *user.User, goalID string, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}

	g, err := s.repo.GetByID(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("load goal: %w", err)
	}
	if g == nil || g.UserID != u.ID {
		return nil, ErrGoalNotFound
	}

	newCurrent := g.CurrentAmount.Add(amount)
	justCompleted := !g.IsCompleted && newCurrent.GreaterThanOrEqual(g.TargetAmount)
	completed := g.IsCompleted || justCompleted

	if err := s.repo.UpdateProgress(ctx, g.ID, newCurrent, completed); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	g.CurrentAmount = newCurrent
	g.IsCompleted = completed

	if justCompleted {
		if err := s.notifier.GoalCompleted(ctx, u.Email, g.Name); err != nil {
			log.Printf("goal completion email to %s failed: %v", u.Email, err)
		}
	}
	return g, nil
}

// ApplyIncomeSavings routes 10% of an income amount to the user's oldest
// incomplete goal. A user with no open goals saves nothing. Amount is
// already in the user's preferred currency.
func (s *Service) ApplyIncomeSavings(ctx context.Context, u *user.User, incomeAmount decimal.Decimal) error {
	g, err := s.repo.OldestIncomplete(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("find open goal: %w", err)
	}
	if g == nil {
		return nil
	}

	saving := incomeAmount.Mul(savingsRate)
	if !saving.IsPositive() {
		return nil
	}
	if _, err := s.AddProgress(ctx, u, g.ID, saving); err != nil {
		return fmt.Errorf("apply savings to goal %s: %w", g.ID, err)
	}
	return nil
}
