package transaction

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Recurrence patterns
const (
	RecurDaily   = "daily"
	RecurWeekly  = "weekly"
	RecurMonthly = "monthly"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction is a single income or expense entry. Amount is stored in the
// owner's preferred currency; amounts submitted in other currencies are
// converted at creation time and the original figure is not kept.
type Transaction struct {
	ID                string          `json:"id"`
	UserID            int64           `json:"-"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	Tags              []string        `json:"tags"`
	Date              time.Time       `json:"date"`
	IsRecurring       bool            `json:"isRecurring"`
	RecurrencePattern string          `json:"recurrencePattern,omitempty"`
	RecurrenceEndDate *time.Time      `json:"recurrenceEndDate,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type CreateTransactionParams struct {
	Type              string
	Amount            decimal.Decimal
	Currency          string
	Category          string
	Description       string
	Tags              []string
	Date              time.Time
	IsRecurring       bool
	RecurrencePattern string
	RecurrenceEndDate *time.Time
}

func (p *CreateTransactionParams) Validate() error {
	if p.Type != TypeIncome && p.Type != TypeExpense {
		return errors.New("type must be 'income' or 'expense'")
	}
	if !p.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if p.Category == "" {
		return errors.New("category is required")
	}
	if p.Currency != "" {
		if len(p.Currency) != 3 {
			return errors.New("currency must be a 3-letter code")
		}
		p.Currency = strings.ToUpper(p.Currency)
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if p.IsRecurring {
		switch p.RecurrencePattern {
		case RecurDaily, RecurWeekly, RecurMonthly:
		default:
			return errors.New("recurrence pattern must be 'daily', 'weekly' or 'monthly'")
		}
		if p.RecurrenceEndDate == nil {
			return errors.New("recurrence end date is required for recurring transactions")
		}
	}
	return nil
}

type UpdateTransactionParams struct {
	Type              *string
	Amount            *decimal.Decimal
	Category          *string
	Description       *string
	Tags              *[]string
	Date              *time.Time
	IsRecurring       *bool
	RecurrencePattern *string
	RecurrenceEndDate *time.Time
}

func (p *UpdateTransactionParams) Validate() error {
	if p.Type != nil && *p.Type != TypeIncome && *p.Type != TypeExpense {
		return errors.New("type must be 'income' or 'expense'")
	}
	if p.Amount != nil && !p.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if p.Category != nil && *p.Category == "" {
		return errors.New("category cannot be empty")
	}
	if p.RecurrencePattern != nil {
		switch *p.RecurrencePattern {
		case RecurDaily, RecurWeekly, RecurMonthly:
		default:
			return errors.New("recurrence pattern must be 'daily', 'weekly' or 'monthly'")
		}
	}
	return nil
}

// ListFilter narrows and orders a user's transaction listing.
// SortByAmount is "asc", "desc" or empty for insertion order by date.
type ListFilter struct {
	Category     string
	Tag          string
	SortByAmount string
}

func (f *ListFilter) Validate() error {
	switch f.SortByAmount {
	case "", "asc", "desc":
		return nil
	}
	return errors.New("sortByAmount must be 'asc' or 'desc'")
}
