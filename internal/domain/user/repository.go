package user

import (
	"context"
)

// Repository defines user data access. Implemented by the postgres layer.
// Deleting a user does not cascade to their transactions, budgets, or goals.
type Repository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) (*User, error)
	Delete(ctx context.Context, id int64) error
}
