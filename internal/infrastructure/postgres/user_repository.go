package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fintrack/internal/domain/user"
)

const uniqueViolation = "23505"

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, preferred_currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, role, preferred_currency, created_at
	`

	var u user.User
	err := r.db.QueryRowContext(
		ctx, query,
		params.Name, params.Email, params.PasswordHash, params.Role, params.PreferredCurrency,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PreferredCurrency, &u.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, preferred_currency, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, preferred_currency, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanOne(row *tracedRow) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PreferredCurrency, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, preferred_currency, created_at
		FROM users
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PreferredCurrency, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, id int64, params user.UpdateUserParams) (*user.User, error) {
	query := `
		UPDATE users
		SET name               = COALESCE($2, name),
		    email              = COALESCE($3, email),
		    password_hash      = COALESCE($4, password_hash),
		    role               = COALESCE($5, role),
		    preferred_currency = COALESCE($6, preferred_currency)
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, preferred_currency, created_at
	`

	var u user.User
	err := r.db.QueryRowContext(
		ctx, query,
		id, params.Name, params.Email, params.PasswordHash, params.Role, params.PreferredCurrency,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.PreferredCurrency, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
