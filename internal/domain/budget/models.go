package budget

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AllowedCategories is the fixed set a budget may be scoped to.
var AllowedCategories = []string{
	"Food", "Transportation", "Housing", "Utilities", "Insurance",
	"Healthcare", "Saving", "Investment", "Entertainment", "Miscellaneous", "Other",
}

var allowedCategorySet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(AllowedCategories))
	for _, c := range AllowedCategories {
		m[c] = struct{}{}
	}
	return m
}()

// Domain errors
var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrDuplicateBudget = errors.New("budget already exists for this category and period")
	ErrInvalidCategory = fmt.Errorf("invalid category, allowed: %s", strings.Join(AllowedCategories, ", "))
)

// Budget is a per-user, per-category spending ceiling for one month.
// (UserID, Category, Month, Year) is unique, enforced by the storage layer.
//
// Limit doubles as a running balance: income transactions in the category
// raise it and expenses lower it, independent of any alert decision. The
// original ceiling is therefore not recoverable from this field alone.
type Budget struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Currency  string          `json:"currency"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	CreatedAt time.Time       `json:"createdAt"`
}

func IsAllowedCategory(category string) bool {
	_, ok := allowedCategorySet[category]
	return ok
}

type CreateBudgetParams struct {
	Category string
	Limit    decimal.Decimal
	Currency string
	Month    int
	Year     int
}

func (p *CreateBudgetParams) Validate() error {
	if !IsAllowedCategory(p.Category) {
		return ErrInvalidCategory
	}
	if p.Limit.IsNegative() {
		return errors.New("limit cannot be negative")
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if len(p.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	p.Currency = strings.ToUpper(p.Currency)
	if p.Month < 1 || p.Month > 12 {
		return errors.New("month must be between 1 and 12")
	}
	if p.Year < 2000 || p.Year > 2200 {
		return errors.New("year is out of range")
	}
	return nil
}

type UpdateBudgetParams struct {
	Category *string
	Limit    *decimal.Decimal
	Currency *string
	Month    *int
	Year     *int
}

func (p *UpdateBudgetParams) Validate() error {
	if p.Category != nil && !IsAllowedCategory(*p.Category) {
		return ErrInvalidCategory
	}
	if p.Limit != nil && p.Limit.IsNegative() {
		return errors.New("limit cannot be negative")
	}
	if p.Currency != nil && len(*p.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if p.Month != nil && (*p.Month < 1 || *p.Month > 12) {
		return errors.New("month must be between 1 and 12")
	}
	if p.Year != nil && (*p.Year < 2000 || *p.Year > 2200) {
		return errors.New("year is out of range")
	}
	return nil
}
