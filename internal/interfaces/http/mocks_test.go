package http

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/goal"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/domain/user"
	"fintrack/internal/shared/middleware"
)

// MockUserRepo implements user.Repository for testing
type MockUserRepo struct {
	CreateFunc     func(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	ListFunc       func(ctx context.Context) ([]*user.User, error)
	UpdateFunc     func(ctx context.Context, id int64, params user.UpdateUserParams) (*user.User, error)
	DeleteFunc     func(ctx context.Context, id int64) error
}

func (m *MockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserRepo) Update(ctx context.Context, id int64, params user.UpdateUserParams) (*user.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTransactionRepo implements transaction.Repository for testing
type MockTransactionRepo struct {
	CreateFunc            func(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error)
	GetByIDFunc           func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListByUserFunc        func(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	ListAllFunc           func(ctx context.Context) ([]*transaction.Transaction, error)
	UpdateFunc            func(ctx context.Context, id string, params transaction.UpdateTransactionParams) (*transaction.Transaction, error)
	DeleteFunc            func(ctx context.Context, id string) error
	SumByUserCategoryFunc func(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
	ListRecurringFunc     func(ctx context.Context, asOf time.Time) ([]*transaction.Transaction, error)
}

func (m *MockTransactionRepo) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	out := *t
	out.ID = "t-1"
	return &out, nil
}

func (m *MockTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListByUser(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, filter)
	}
	return nil, nil
}

func (m *MockTransactionRepo) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Update(ctx context.Context, id string, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockTransactionRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTransactionRepo) SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	if m.SumByUserCategoryFunc != nil {
		return m.SumByUserCategoryFunc(ctx, userID, category)
	}
	return decimal.Zero, nil
}

func (m *MockTransactionRepo) ListRecurring(ctx context.Context, asOf time.Time) ([]*transaction.Transaction, error) {
	if m.ListRecurringFunc != nil {
		return m.ListRecurringFunc(ctx, asOf)
	}
	return nil, nil
}

// MockBudgetRepo implements budget.Repository for testing
type MockBudgetRepo struct {
	CreateFunc            func(ctx context.Context, userID int64, params budget.CreateBudgetParams) (*budget.Budget, error)
	GetByIDFunc           func(ctx context.Context, id string) (*budget.Budget, error)
	GetByUserCategoryFunc func(ctx context.Context, userID int64, category string) (*budget.Budget, error)
	ListByUserFunc        func(ctx context.Context, userID int64) ([]*budget.Budget, error)
	ListAllFunc           func(ctx context.Context) ([]*budget.Budget, error)
	UpdateFunc            func(ctx context.Context, id string, params budget.UpdateBudgetParams) (*budget.Budget, error)
	DeleteFunc            func(ctx context.Context, id string) error
	AdjustLimitFunc       func(ctx context.Context, id string, delta decimal.Decimal) error
}

func (m *MockBudgetRepo) Create(ctx context.Context, userID int64, params budget.CreateBudgetParams) (*budget.Budget, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *MockBudgetRepo) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockBudgetRepo) GetByUserCategory(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
	if m.GetByUserCategoryFunc != nil {
		return m.GetByUserCategoryFunc(ctx, userID, category)
	}
	return nil, nil
}

func (m *MockBudgetRepo) ListByUser(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockBudgetRepo) ListAll(ctx context.Context) ([]*budget.Budget, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockBudgetRepo) Update(ctx context.Context, id string, params budget.UpdateBudgetParams) (*budget.Budget, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockBudgetRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockBudgetRepo) AdjustLimit(ctx context.Context, id string, delta decimal.Decimal) error {
	if m.AdjustLimitFunc != nil {
		return m.AdjustLimitFunc(ctx, id, delta)
	}
	return nil
}

// MockGoalRepo implements goal.Repository for testing
type MockGoalRepo struct {
	CreateFunc           func(ctx context.Context, userID int64, params goal.CreateGoalParams) (*goal.Goal, error)
	GetByIDFunc          func(ctx context.Context, id string) (*goal.Goal, error)
	ListByUserFunc       func(ctx context.Context, userID int64) ([]*goal.Goal, error)
	OldestIncompleteFunc func(ctx context.Context, userID int64) (*goal.Goal, error)
	UpdateFunc           func(ctx context.Context, id string, params goal.UpdateGoalParams) (*goal.Goal, error)
	UpdateProgressFunc   func(ctx context.Context, id string, current decimal.Decimal, completed bool) error
	DeleteFunc           func(ctx context.Context, id string) error
}

func (m *MockGoalRepo) Create(ctx context.Context, userID int64, params goal.CreateGoalParams) (*goal.Goal, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, params)
	}
	return nil, nil
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockGoalRepo) ListByUser(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockGoalRepo) OldestIncomplete(ctx context.Context, userID int64) (*goal.Goal, error) {
	if m.OldestIncompleteFunc != nil {
		return m.OldestIncompleteFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockGoalRepo) Update(ctx context.Context, id string, params goal.UpdateGoalParams) (*goal.Goal, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockGoalRepo) UpdateProgress(ctx context.Context, id string, current decimal.Decimal, completed bool) error {
	if m.UpdateProgressFunc != nil {
		return m.UpdateProgressFunc(ctx, id, current, completed)
	}
	return nil
}

func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// recordingMailer captures outbound emails.
type recordingMailer struct {
	sent     int
	to       []string
	subjects []string
}

func (r *recordingMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.sent++
	r.to = append(r.to, to)
	r.subjects = append(r.subjects, subject)
	return nil
}

// mockConverter returns the amount unchanged unless overridden.
type mockConverter struct {
	ConvertFunc func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

func (m *mockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if m.ConvertFunc != nil {
		return m.ConvertFunc(ctx, amount, from, to)
	}
	return amount, nil
}

// withAuthContext injects the auth values the middleware would normally
// set after validating a token.
func withAuthContext(r *http.Request, userID int64, role string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleKey, role)
	return r.WithContext(ctx)
}
