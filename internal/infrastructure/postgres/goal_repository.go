package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = `id, user_id, name, target_amount, current_amount, target_date, is_completed, created_at`

func (r *GoalRepository) Create(ctx context.Context, userID int64, params goal.CreateGoalParams) (*goal.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, target_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(
		ctx, query,
		userID, params.Name, params.TargetAmount, params.CurrentAmount, params.TargetDate,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID int64) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []*goal.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *GoalRepository) OldestIncomplete(ctx context.Context, userID int64) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1 AND is_completed = FALSE
		ORDER BY created_at
		LIMIT 1`

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, userID))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) Update(ctx context.Context, id string, params goal.UpdateGoalParams) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET name          = COALESCE($2, name),
		    target_amount = COALESCE($3, target_amount),
		    target_date   = COALESCE($4, target_date)
		WHERE id = $1
		RETURNING ` + goalColumns

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, id, params.Name, params.TargetAmount, params.TargetDate))
	if err == sql.ErrNoRows {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

func (r *GoalRepository) UpdateProgress(ctx context.Context, id string, current decimal.Decimal, completed bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_amount = $2, is_completed = $3 WHERE id = $1`, id, current, completed)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}
	if affected == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if affected == 0 {
		return goal.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*goal.Goal, error) {
	var g goal.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.IsCompleted, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
