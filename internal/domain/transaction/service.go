package transaction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/goal"
	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
)

// CurrencyConverter turns an amount in one currency into another.
// Implemented by the exchange rate client.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Service runs the transaction creation flow: currency normalization,
// persistence, recurrence projection, budget adjustment and alerting, and
// the automatic goal savings on income. Everything after persistence is
// best-effort; a failed side effect is logged and the created transaction
// is still returned.
type Service struct {
	repo      Repository
	users     user.Repository
	converter CurrencyConverter
	evaluator *budget.Evaluator
	goals     *goal.Service
	notifier  *notification.Notifier
	projector *Projector
}

func NewService(
	repo Repository,
	users user.Repository,
	converter CurrencyConverter,
	evaluator *budget.Evaluator,
	goals *goal.Service,
	notifier *notification.Notifier,
) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		converter: converter,
		evaluator: evaluator,
		goals:     goals,
		notifier:  notifier,
		projector: NewProjector(repo, notifier),
	}
}

// Create records a transaction for the user. The amount is converted to the
// user's preferred currency first; a conversion failure fails the whole
// request since a misconverted amount would poison every later total.
func (s *Service) Create(ctx context.Context, userID int64, params CreateTransactionParams) (*Transaction, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	amount := params.Amount
	currency := params.Currency
	if currency == "" {
		currency = u.PreferredCurrency
	}
	if !strings.EqualFold(currency, u.PreferredCurrency) {
		amount, err = s.converter.Convert(ctx, amount, currency, u.PreferredCurrency)
		if err != nil {
			return nil, fmt.Errorf("convert %s to %s: %w", currency, u.PreferredCurrency, err)
		}
	}

	created, err := s.repo.Create(ctx, &Transaction{
		UserID:            u.ID,
		Type:              params.Type,
		Amount:            amount,
		Currency:          u.PreferredCurrency,
		Category:          params.Category,
		Description:       params.Description,
		Tags:              params.Tags,
		Date:              params.Date,
		IsRecurring:       params.IsRecurring,
		RecurrencePattern: params.RecurrencePattern,
		RecurrenceEndDate: params.RecurrenceEndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	if _, err := s.projector.Project(ctx, u, created); err != nil {
		log.Printf("recurrence projection for transaction %s failed: %v", created.ID, err)
	}

	switch created.Type {
	case TypeIncome:
		s.applyIncomeEffects(ctx, u, created)
	case TypeExpense:
		s.applyExpenseEffects(ctx, u, created)
	}
	s.notifyBudgetStatus(ctx, u, created)

	return created, nil
}

func (s *Service) applyIncomeEffects(ctx context.Context, u *user.User, t *Transaction) {
	if err := s.evaluator.ApplyDelta(ctx, u.ID, t.Category, t.Amount); err != nil {
		log.Printf("budget adjustment for income %s failed: %v", t.ID, err)
	}
	if err := s.goals.ApplyIncomeSavings(ctx, u, t.Amount); err != nil {
		log.Printf("goal savings for income %s failed: %v", t.ID, err)
	}
}

func (s *Service) applyExpenseEffects(ctx context.Context, u *user.User, t *Transaction) {
	if err := s.evaluator.ApplyDelta(ctx, u.ID, t.Category, t.Amount.Neg()); err != nil {
		log.Printf("budget adjustment for expense %s failed: %v", t.ID, err)
	}
}

// notifyBudgetStatus evaluates the category budget after every creation,
// income included, since an income can land in a category that is already
// over its limit.
func (s *Service) notifyBudgetStatus(ctx context.Context, u *user.User, t *Transaction) {
	decision, err := s.evaluator.Evaluate(ctx, u.ID, t.Category)
	if err != nil {
		log.Printf("budget evaluation for transaction %s failed: %v", t.ID, err)
		return
	}
	if decision == nil {
		return
	}
	if err := s.notifier.BudgetAlert(ctx, u.Email, decision); err != nil {
		log.Printf("budget alert email to %s failed: %v", u.Email, err)
	}
}
