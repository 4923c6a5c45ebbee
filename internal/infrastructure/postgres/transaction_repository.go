package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fintrack/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, currency, category, description, tags,
       date, is_recurring, recurrence_pattern, recurrence_end_date, created_at`

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, currency, category, description, tags,
		                          date, is_recurring, recurrence_pattern, recurrence_end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + transactionColumns

	var pattern sql.NullString
	if t.RecurrencePattern != "" {
		pattern = sql.NullString{String: t.RecurrencePattern, Valid: true}
	}
	var endDate sql.NullTime
	if t.RecurrenceEndDate != nil {
		endDate = sql.NullTime{Time: *t.RecurrenceEndDate, Valid: true}
	}

	row := r.db.QueryRowContext(
		ctx, query,
		t.UserID, t.Type, t.Amount, t.Currency, t.Category, t.Description,
		pq.Array(t.Tags), t.Date, t.IsRecurring, pattern, endDate,
	)
	created, err := scanTransaction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return created, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}

	switch filter.SortByAmount {
	case "asc":
		query += " ORDER BY amount ASC"
	case "desc":
		query += " ORDER BY amount DESC"
	default:
		query += " ORDER BY date DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions
		SET type                = COALESCE($2, type),
		    amount              = COALESCE($3, amount),
		    category            = COALESCE($4, category),
		    description         = COALESCE($5, description),
		    tags                = COALESCE($6, tags),
		    date                = COALESCE($7, date),
		    is_recurring        = COALESCE($8, is_recurring),
		    recurrence_pattern  = COALESCE($9, recurrence_pattern),
		    recurrence_end_date = COALESCE($10, recurrence_end_date)
		WHERE id = $1
		RETURNING ` + transactionColumns

	var tags any
	if params.Tags != nil {
		tags = pq.Array(*params.Tags)
	}
	var endDate sql.NullTime
	if params.RecurrenceEndDate != nil {
		endDate = sql.NullTime{Time: *params.RecurrenceEndDate, Valid: true}
	}

	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		id, params.Type, params.Amount, params.Category, params.Description,
		tags, params.Date, params.IsRecurring, params.RecurrencePattern, endDate,
	))
	if err == sql.ErrNoRows {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if affected == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) SumByUserCategory(ctx context.Context, userID int64, category string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category = $2
	`

	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID, category).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum spending: %w", err)
	}
	return sum, nil
}

func (r *TransactionRepository) ListRecurring(ctx context.Context, asOf time.Time) ([]*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE is_recurring = TRUE AND recurrence_end_date >= $1
		ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var pattern sql.NullString
	var endDate sql.NullTime

	err := row.Scan(
		&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Currency, &t.Category,
		&t.Description, pq.Array(&t.Tags), &t.Date, &t.IsRecurring,
		&pattern, &endDate, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if pattern.Valid {
		t.RecurrencePattern = pattern.String
	}
	if endDate.Valid {
		t.RecurrenceEndDate = &endDate.Time
	}
	return &t, nil
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
