package user

import (
	"errors"
	"strings"
	"time"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Domain errors
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)

// User is the authentication identity every other entity hangs off.
// Amounts entered in other currencies are normalized to PreferredCurrency.
type User struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	PreferredCurrency string    `json:"preferredCurrency"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateUserParams struct {
	Name              string
	Email             string
	PasswordHash      string
	Role              string
	PreferredCurrency string
}

func (p *CreateUserParams) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Email == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(p.Email, "@") {
		return errors.New("email is invalid")
	}
	if p.PasswordHash == "" {
		return errors.New("password is required")
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if p.Role != RoleUser && p.Role != RoleAdmin {
		return errors.New("role must be 'user' or 'admin'")
	}
	if p.PreferredCurrency == "" {
		p.PreferredCurrency = "USD"
	}
	if len(p.PreferredCurrency) != 3 {
		return errors.New("preferred currency must be a 3-letter code")
	}
	p.PreferredCurrency = strings.ToUpper(p.PreferredCurrency)
	return nil
}

type UpdateUserParams struct {
	Name              *string
	Email             *string
	PasswordHash      *string
	Role              *string
	PreferredCurrency *string
}

func (p *UpdateUserParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return errors.New("name cannot be empty")
	}
	if p.Email != nil && !strings.Contains(*p.Email, "@") {
		return errors.New("email is invalid")
	}
	if p.Role != nil && *p.Role != RoleUser && *p.Role != RoleAdmin {
		return errors.New("role must be 'user' or 'admin'")
	}
	if p.PreferredCurrency != nil && len(*p.PreferredCurrency) != 3 {
		return errors.New("preferred currency must be a 3-letter code")
	}
	return nil
}
