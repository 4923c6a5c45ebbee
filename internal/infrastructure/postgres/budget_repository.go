package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = `id, user_id, category, limit_amount, currency, month, year, created_at`

func (r *BudgetRepository) Create(ctx context.Context, userID int64, params budget.CreateBudgetParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category, limit_amount, currency, month, year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + budgetColumns

	b, err := scanBudget(r.db.QueryRowContext(
		ctx, query,
		userID, params.Category, params.Limit, params.Currency, params.Month, params.Year,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, budget.ErrDuplicateBudget
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

// GetByUserCategory returns the most recent budget for the pair, so alert
// checks always run against the latest period.
func (r *BudgetRepository) GetByUserCategory(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1 AND category = $2
		ORDER BY year DESC, month DESC
		LIMIT 1`

	b, err := scanBudget(r.db.QueryRowContext(ctx, query, userID, category))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		ORDER BY year DESC, month DESC, category`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	return collectBudgets(rows)
}

func (r *BudgetRepository) ListAll(ctx context.Context) ([]*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets ORDER BY user_id, year DESC, month DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	return collectBudgets(rows)
}

func (r *BudgetRepository) Update(ctx context.Context, id string, params budget.UpdateBudgetParams) (*budget.Budget, error) {
	query := `
		UPDATE budgets
		SET category     = COALESCE($2, category),
		    limit_amount = COALESCE($3, limit_amount),
		    currency     = COALESCE($4, currency),
		    month        = COALESCE($5, month),
		    year         = COALESCE($6, year)
		WHERE id = $1
		RETURNING ` + budgetColumns

	b, err := scanBudget(r.db.QueryRowContext(
		ctx, query,
		id, params.Category, params.Limit, params.Currency, params.Month, params.Year,
	))
	if err == sql.ErrNoRows {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, budget.ErrDuplicateBudget
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}
	return b, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if affected == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) AdjustLimit(ctx context.Context, id string, delta decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET limit_amount = limit_amount + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust budget limit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to adjust budget limit: %w", err)
	}
	if affected == 0 {
		return budget.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row rowScanner) (*budget.Budget, error) {
	var b budget.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.Limit, &b.Currency, &b.Month, &b.Year, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBudgets(rows *sql.Rows) ([]*budget.Budget, error) {
	var out []*budget.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
