package transaction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/goal"
	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
)

type mockRepository struct {
	CreateFunc            func(ctx context.Context, t *Transaction) (*Transaction, error)
	SumByUserCategoryFunc func(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
}

func (m *mockRepository) Create(ctx context.Context, t *Transaction) (*Transaction, error) {
	return m.CreateFunc(ctx, t)
}
func (m *mockRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) ListAll(ctx context.Context) ([]*Transaction, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) Update(ctx context.Context, id string, params UpdateTransactionParams) (*Transaction, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}
func (m *mockRepository) SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	if m.SumByUserCategoryFunc == nil {
		return decimal.Zero, nil
	}
	return m.SumByUserCategoryFunc(ctx, userID, category)
}
func (m *mockRepository) ListRecurring(ctx context.Context, asOf time.Time) ([]*Transaction, error) {
	return nil, errors.New("not implemented")
}

type mockUserRepo struct {
	GetByIDFunc func(ctx context.Context, id int64) (*user.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (m *mockUserRepo) List(ctx context.Context) ([]*user.User, error) {
	return nil, errors.New("not implemented")
}
func (m *mockUserRepo) Update(ctx context.Context, id int64, params user.UpdateUserParams) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("not implemented")
}

type mockBudgetRepo struct {
	GetByUserCategoryFunc func(ctx context.Context, userID int64, category string) (*budget.Budget, error)
	AdjustLimitFunc       func(ctx context.Context, id string, delta decimal.Decimal) error
}

func (m *mockBudgetRepo) Create(ctx context.Context, userID int64, params budget.CreateBudgetParams) (*budget.Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockBudgetRepo) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockBudgetRepo) GetByUserCategory(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
	if m.GetByUserCategoryFunc == nil {
		return nil, nil
	}
	return m.GetByUserCategoryFunc(ctx, userID, category)
}
func (m *mockBudgetRepo) ListByUser(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockBudgetRepo) ListAll(ctx context.Context) ([]*budget.Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockBudgetRepo) Update(ctx context.Context, id string, params budget.UpdateBudgetParams) (*budget.Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockBudgetRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}
func (m *mockBudgetRepo) AdjustLimit(ctx context.Context, id string, delta decimal.Decimal) error {
	if m.AdjustLimitFunc == nil {
		return nil
	}
	return m.AdjustLimitFunc(ctx, id, delta)
}

type mockGoalRepo struct {
	OldestIncompleteFunc func(ctx context.Context, userID int64) (*goal.Goal, error)
	GetByIDFunc          func(ctx context.Context, id string) (*goal.Goal, error)
	UpdateProgressFunc   func(ctx context.Context, id string, current decimal.Decimal, completed bool) error
}

func (m *mockGoalRepo) Create(ctx context.Context, userID int64, params goal.CreateGoalParams) (*goal.Goal, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGoalRepo) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	if m.GetByIDFunc == nil {
		return nil, nil
	}
	return m.GetByIDFunc(ctx, id)
}
func (m *mockGoalRepo) ListByUser(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGoalRepo) OldestIncomplete(ctx context.Context, userID int64) (*goal.Goal, error) {
	if m.OldestIncompleteFunc == nil {
		return nil, nil
	}
	return m.OldestIncompleteFunc(ctx, userID)
}
func (m *mockGoalRepo) Update(ctx context.Context, id string, params goal.UpdateGoalParams) (*goal.Goal, error) {
	return nil, errors.New("not implemented")
}
func (m *mockGoalRepo) UpdateProgress(ctx context.Context, id string, current decimal.Decimal, completed bool) error {
	if m.UpdateProgressFunc == nil {
		return nil
	}
	return m.UpdateProgressFunc(ctx, id, current, completed)
}
func (m *mockGoalRepo) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type mockConverter struct {
	ConvertFunc func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

func (m *mockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if m.ConvertFunc == nil {
		return amount, nil
	}
	return m.ConvertFunc(ctx, amount, from, to)
}

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

type serviceFixture struct {
	svc        *Service
	repo       *mockRepository
	budgetRepo *mockBudgetRepo
	goalRepo   *mockGoalRepo
	converter  *mockConverter
	mailer     *recordingMailer
}

func newServiceFixture(u *user.User) *serviceFixture {
	f := &serviceFixture{
		repo:       &mockRepository{},
		budgetRepo: &mockBudgetRepo{},
		goalRepo:   &mockGoalRepo{},
		converter:  &mockConverter{},
		mailer:     &recordingMailer{},
	}
	f.repo.CreateFunc = func(ctx context.Context, t *Transaction) (*Transaction, error) {
		out := *t
		out.ID = "t-1"
		out.CreatedAt = time.Now()
		return &out, nil
	}
	users := &mockUserRepo{
		GetByIDFunc: func(ctx context.Context, id int64) (*user.User, error) {
			if u != nil && id == u.ID {
				return u, nil
			}
			return nil, nil
		},
	}
	notifier := notification.NewNotifier(f.mailer)
	f.svc = NewService(
		f.repo,
		users,
		f.converter,
		budget.NewEvaluator(f.budgetRepo, f.repo),
		goal.NewService(f.goalRepo, notifier),
		notifier,
	)
	return f
}

func testUser() *user.User {
	return &user.User{ID: 1, Name: "Ana", Email: "ana@example.com", PreferredCurrency: "USD"}
}

func expenseParams(amount string) CreateTransactionParams {
	return CreateTransactionParams{
		Type:     TypeExpense,
		Amount:   decimal.RequireFromString(amount),
		Currency: "USD",
		Category: "Food",
		Date:     time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpenseSameCurrency(t *testing.T) {
	f := newServiceFixture(testUser())
	f.converter.ConvertFunc = func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
		t.Fatal("Convert should not run for matching currencies")
		return decimal.Zero, nil
	}

	created, err := f.svc.Create(context.Background(), 1, expenseParams("50"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID == "" {
		t.Error("created transaction has no ID")
	}
	if !created.Amount.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Amount = %s, want 50", created.Amount)
	}
	if created.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", created.Currency)
	}
}

func TestCreateConvertsForeignCurrency(t *testing.T) {
	f := newServiceFixture(testUser())
	f.converter.ConvertFunc = func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
		if from != "EUR" || to != "USD" {
			t.Errorf("Convert(%s -> %s), want EUR -> USD", from, to)
		}
		return amount.Mul(decimal.NewFromFloat(1.1)), nil
	}

	params := expenseParams("100")
	params.Currency = "EUR"
	created, err := f.svc.Create(context.Background(), 1, params)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !created.Amount.Equal(decimal.RequireFromString("110")) {
		t.Errorf("Amount = %s, want 110", created.Amount)
	}
	if created.Currency != "USD" {
		t.Errorf("Currency = %q, want USD after conversion", created.Currency)
	}
}

func TestCreateConversionFailureFailsRequest(t *testing.T) {
	f := newServiceFixture(testUser())
	f.converter.ConvertFunc = func(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
		return decimal.Zero, errors.New("rate service down")
	}
	f.repo.CreateFunc = func(ctx context.Context, tr *Transaction) (*Transaction, error) {
		t.Fatal("nothing should be persisted when conversion fails")
		return nil, nil
	}

	params := expenseParams("100")
	params.Currency = "EUR"
	if _, err := f.svc.Create(context.Background(), 1, params); err == nil {
		t.Fatal("Create() error = nil, want conversion error")
	}
}

func TestCreateUnknownUser(t *testing.T) {
	f := newServiceFixture(nil)

	_, err := f.svc.Create(context.Background(), 42, expenseParams("10"))
	if !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("Create() error = %v, want ErrUserNotFound", err)
	}
}

func TestCreateExpenseAdjustsBudgetAndAlerts(t *testing.T) {
	f := newServiceFixture(testUser())
	var adjusted decimal.Decimal
	f.budgetRepo.GetByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
		return &budget.Budget{ID: "b-1", UserID: 1, Category: "Food", Limit: decimal.NewFromInt(100), Currency: "USD"}, nil
	}
	f.budgetRepo.AdjustLimitFunc = func(ctx context.Context, id string, delta decimal.Decimal) error {
		adjusted = delta
		return nil
	}
	f.repo.SumByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
		return decimal.NewFromInt(150), nil
	}

	if _, err := f.svc.Create(context.Background(), 1, expenseParams("150")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !adjusted.Equal(decimal.NewFromInt(-150)) {
		t.Errorf("budget delta = %s, want -150", adjusted)
	}
	if f.mailer.sent != 1 {
		t.Fatalf("mailer.sent = %d, want 1 alert email", f.mailer.sent)
	}
	if !strings.Contains(f.mailer.subjects[0], "exceeded") {
		t.Errorf("subject = %q, want exceeded alert", f.mailer.subjects[0])
	}
}

func TestCreateExpenseInsideBudgetSendsNothing(t *testing.T) {
	f := newServiceFixture(testUser())
	f.budgetRepo.GetByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
		return &budget.Budget{ID: "b-1", UserID: 1, Category: "Food", Limit: decimal.NewFromInt(1000), Currency: "USD"}, nil
	}
	f.repo.SumByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
		return decimal.NewFromInt(100), nil
	}

	if _, err := f.svc.Create(context.Background(), 1, expenseParams("100")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if f.mailer.sent != 0 {
		t.Errorf("mailer.sent = %d, want 0", f.mailer.sent)
	}
}

func TestCreateIncomeRaisesLimitAndSavesTowardGoal(t *testing.T) {
	f := newServiceFixture(testUser())
	var adjusted decimal.Decimal
	f.budgetRepo.GetByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
		return &budget.Budget{ID: "b-1", UserID: 1, Category: "Saving", Limit: decimal.NewFromInt(100), Currency: "USD"}, nil
	}
	f.budgetRepo.AdjustLimitFunc = func(ctx context.Context, id string, delta decimal.Decimal) error {
		adjusted = delta
		return nil
	}
	g := &goal.Goal{ID: "g-1", UserID: 1, Name: "Vacation", TargetAmount: decimal.NewFromInt(5000), CurrentAmount: decimal.NewFromInt(100)}
	f.goalRepo.OldestIncompleteFunc = func(ctx context.Context, userID int64) (*goal.Goal, error) { return g, nil }
	f.goalRepo.GetByIDFunc = func(ctx context.Context, id string) (*goal.Goal, error) { return g, nil }
	var savedCurrent decimal.Decimal
	f.goalRepo.UpdateProgressFunc = func(ctx context.Context, id string, current decimal.Decimal, completed bool) error {
		savedCurrent = current
		return nil
	}

	params := CreateTransactionParams{
		Type:     TypeIncome,
		Amount:   decimal.NewFromInt(2000),
		Currency: "USD",
		Category: "Saving",
	}
	if _, err := f.svc.Create(context.Background(), 1, params); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !adjusted.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("budget delta = %s, want +2000 for income", adjusted)
	}
	// 10% of 2000 added to the existing 100
	if !savedCurrent.Equal(decimal.NewFromInt(300)) {
		t.Errorf("goal progress = %s, want 300", savedCurrent)
	}
	if f.mailer.sent != 0 {
		t.Errorf("mailer.sent = %d, want 0 for income inside budget", f.mailer.sent)
	}
}

func TestCreateIncomeEvaluatesBudget(t *testing.T) {
	f := newServiceFixture(testUser())
	f.budgetRepo.GetByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
		return &budget.Budget{ID: "b-1", UserID: 1, Category: "Saving", Limit: decimal.NewFromInt(100), Currency: "USD"}, nil
	}
	f.repo.SumByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
		return decimal.NewFromInt(150), nil
	}

	params := CreateTransactionParams{
		Type:     TypeIncome,
		Amount:   decimal.NewFromInt(150),
		Currency: "USD",
		Category: "Saving",
	}
	if _, err := f.svc.Create(context.Background(), 1, params); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if f.mailer.sent != 1 {
		t.Fatalf("mailer.sent = %d, want 1 alert when category spend exceeds the limit", f.mailer.sent)
	}
	if !strings.Contains(f.mailer.subjects[0], "exceeded") {
		t.Errorf("subject = %q, want exceeded alert", f.mailer.subjects[0])
	}
}

func TestCreateSideEffectFailureStillReturnsTransaction(t *testing.T) {
	f := newServiceFixture(testUser())
	f.budgetRepo.GetByUserCategoryFunc = func(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
		return nil, errors.New("budget store down")
	}

	created, err := f.svc.Create(context.Background(), 1, expenseParams("25"))
	if err != nil {
		t.Fatalf("Create() error = %v, side effects must not fail the request", err)
	}
	if created == nil || created.ID == "" {
		t.Fatal("created transaction missing despite persistence success")
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateTransactionParams)
	}{
		{"bad type", func(p *CreateTransactionParams) { p.Type = "transfer" }},
		{"zero amount", func(p *CreateTransactionParams) { p.Amount = decimal.Zero }},
		{"missing category", func(p *CreateTransactionParams) { p.Category = "" }},
		{"recurring without pattern", func(p *CreateTransactionParams) { p.IsRecurring = true }},
		{"recurring without end date", func(p *CreateTransactionParams) {
			p.IsRecurring = true
			p.RecurrencePattern = RecurWeekly
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(testUser())
			params := expenseParams("10")
			tt.mutate(&params)
			if _, err := f.svc.Create(context.Background(), 1, params); err == nil {
				t.Fatal("Create() error = nil, want validation error")
			}
		})
	}
}
