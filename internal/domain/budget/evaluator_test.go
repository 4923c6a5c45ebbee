package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

type mockRepository struct {
	GetByUserCategoryFunc func(ctx context.Context, userID int64, category string) (*Budget, error)
	AdjustLimitFunc       func(ctx context.Context, id string, delta decimal.Decimal) error
}

func (m *mockRepository) Create(ctx context.Context, userID int64, params CreateBudgetParams) (*Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) GetByID(ctx context.Context, id string) (*Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) GetByUserCategory(ctx context.Context, userID int64, category string) (*Budget, error) {
	return m.GetByUserCategoryFunc(ctx, userID, category)
}
func (m *mockRepository) ListByUser(ctx context.Context, userID int64) ([]*Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) ListAll(ctx context.Context) ([]*Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) Update(ctx context.Context, id string, params UpdateBudgetParams) (*Budget, error) {
	return nil, errors.New("not implemented")
}
func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}
func (m *mockRepository) AdjustLimit(ctx context.Context, id string, delta decimal.Decimal) error {
	return m.AdjustLimitFunc(ctx, id, delta)
}

type mockSpending struct {
	SumFunc func(ctx context.Context, userID int64, category string) (decimal.Decimal, error)
}

func (m *mockSpending) SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	return m.SumFunc(ctx, userID, category)
}

func fixedBudget(limit string) *Budget {
	return &Budget{
		ID:       "b-1",
		UserID:   1,
		Category: "Food",
		Limit:    decimal.RequireFromString(limit),
		Currency: "USD",
		Month:    6,
		Year:     2025,
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		budget    *Budget
		spent     string
		wantLevel string
		wantNil   bool
	}{
		{"well under limit", fixedBudget("1000"), "100", "", true},
		{"exactly at limit", fixedBudget("1000"), "1000", LevelExceeded, false},
		{"over limit", fixedBudget("1000"), "1200", LevelExceeded, false},
		{"near limit boundary", fixedBudget("1000"), "800", LevelNearLimit, false},
		{"inside near-limit band", fixedBudget("1000"), "950", LevelNearLimit, false},
		{"just under near-limit band", fixedBudget("1000"), "799.99", "", true},
		{"zero limit with spending", fixedBudget("0"), "1", LevelExceeded, false},
		{"zero limit no spending", fixedBudget("0"), "0", "", true},
		{"negative limit after adjustments", fixedBudget("-50"), "10", LevelExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				GetByUserCategoryFunc: func(ctx context.Context, userID int64, category string) (*Budget, error) {
					return tt.budget, nil
				},
			}
			spending := &mockSpending{
				SumFunc: func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
					return decimal.RequireFromString(tt.spent), nil
				},
			}

			d, err := NewEvaluator(repo, spending).Evaluate(context.Background(), 1, "Food")
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if tt.wantNil {
				if d != nil {
					t.Fatalf("Evaluate() = %+v, want nil decision", d)
				}
				return
			}
			if d == nil {
				t.Fatal("Evaluate() = nil, want decision")
			}
			if d.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", d.Level, tt.wantLevel)
			}
			wantRemaining := tt.budget.Limit.Sub(decimal.RequireFromString(tt.spent))
			if !d.Remaining.Equal(wantRemaining) {
				t.Errorf("Remaining = %s, want %s", d.Remaining, wantRemaining)
			}
		})
	}
}

func TestEvaluateNoBudget(t *testing.T) {
	repo := &mockRepository{
		GetByUserCategoryFunc: func(ctx context.Context, userID int64, category string) (*Budget, error) {
			return nil, nil
		},
	}
	spending := &mockSpending{
		SumFunc: func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
			t.Fatal("spending should not be queried without a budget")
			return decimal.Zero, nil
		},
	}

	d, err := NewEvaluator(repo, spending).Evaluate(context.Background(), 1, "Food")
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if d != nil {
		t.Errorf("Evaluate() = %+v, want nil", d)
	}
}

func TestEvaluateSpendingError(t *testing.T) {
	repo := &mockRepository{
		GetByUserCategoryFunc: func(ctx context.Context, userID int64, category string) (*Budget, error) {
			return fixedBudget("500"), nil
		},
	}
	spending := &mockSpending{
		SumFunc: func(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("db down")
		},
	}

	if _, err := NewEvaluator(repo, spending).Evaluate(context.Background(), 1, "Food"); err == nil {
		t.Fatal("Evaluate() error = nil, want error")
	}
}

func TestApplyDelta(t *testing.T) {
	var gotID string
	var gotDelta decimal.Decimal
	repo := &mockRepository{
		GetByUserCategoryFunc: func(ctx context.Context, userID int64, category string) (*Budget, error) {
			return fixedBudget("300"), nil
		},
		AdjustLimitFunc: func(ctx context.Context, id string, delta decimal.Decimal) error {
			gotID = id
			gotDelta = delta
			return nil
		},
	}
	ev := NewEvaluator(repo, &mockSpending{})

	if err := ev.ApplyDelta(context.Background(), 1, "Food", decimal.NewFromInt(-75)); err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
	if gotID != "b-1" {
		t.Errorf("adjusted budget = %q, want b-1", gotID)
	}
	if !gotDelta.Equal(decimal.NewFromInt(-75)) {
		t.Errorf("delta = %s, want -75", gotDelta)
	}
}

func TestApplyDeltaNoBudget(t *testing.T) {
	repo := &mockRepository{
		GetByUserCategoryFunc: func(ctx context.Context, userID int64, category string) (*Budget, error) {
			return nil, nil
		},
		AdjustLimitFunc: func(ctx context.Context, id string, delta decimal.Decimal) error {
			t.Fatal("AdjustLimit should not be called without a budget")
			return nil
		},
	}

	if err := NewEvaluator(repo, &mockSpending{}).ApplyDelta(context.Background(), 1, "Food", decimal.NewFromInt(10)); err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
}

func TestRecommend(t *testing.T) {
	tests := []struct {
		name   string
		spent  string
		limit  string
		wantOK bool
	}{
		{"exceeded", "1200", "1000", true},
		{"exactly at limit", "1000", "1000", true},
		{"over 80 percent", "850", "1000", true},
		{"steady pace at 40 percent", "400", "1000", true},
		{"exactly 30 percent stays quiet", "300", "1000", false},
		{"exactly 50 percent stays quiet", "500", "1000", false},
		{"quiet zone under 30", "100", "1000", false},
		{"quiet zone between bands", "600", "1000", false},
		{"zero limit with spending", "10", "0", true},
		{"zero limit no spending", "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Recommend("Food", decimal.RequireFromString(tt.spent), decimal.RequireFromString(tt.limit))
			if ok != tt.wantOK {
				t.Fatalf("Recommend() ok = %v, want %v (msg=%q)", ok, tt.wantOK, msg)
			}
			if ok && msg == "" {
				t.Error("Recommend() returned ok with empty message")
			}
		})
	}
}

func TestCreateBudgetParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  CreateBudgetParams
		wantErr bool
	}{
		{"valid", CreateBudgetParams{Category: "Food", Limit: decimal.NewFromInt(500), Currency: "usd", Month: 6, Year: 2025}, false},
		{"unknown category", CreateBudgetParams{Category: "Groceries", Limit: decimal.NewFromInt(500), Month: 6, Year: 2025}, true},
		{"negative limit", CreateBudgetParams{Category: "Food", Limit: decimal.NewFromInt(-1), Month: 6, Year: 2025}, true},
		{"bad month", CreateBudgetParams{Category: "Food", Limit: decimal.NewFromInt(500), Month: 13, Year: 2025}, true},
		{"bad currency", CreateBudgetParams{Category: "Food", Limit: decimal.NewFromInt(500), Currency: "EURO", Month: 6, Year: 2025}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBudgetParamsDefaults(t *testing.T) {
	p := CreateBudgetParams{Category: "Food", Limit: decimal.NewFromInt(500), Month: 6, Year: 2025}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.Currency != "USD" {
		t.Errorf("Currency = %q, want USD default", p.Currency)
	}
}
