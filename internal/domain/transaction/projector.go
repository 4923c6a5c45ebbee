package transaction

import (
	"context"
	"fmt"
	"log"
	"time"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/user"
)

// NextOccurrence returns when a recurring transaction fires again after
// the given occurrence.
func NextOccurrence(after time.Time, pattern string) (time.Time, error) {
	switch pattern {
	case RecurDaily:
		return after.AddDate(0, 0, 1), nil
	case RecurWeekly:
		return after.AddDate(0, 0, 7), nil
	case RecurMonthly:
		return after.AddDate(0, 1, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown recurrence pattern %q", pattern)
}

// Projector schedules the single next occurrence of a recurring
// transaction. It fires once per creation: the successor it inserts is
// itself recurring, so each occurrence schedules the one after it. There
// is no catch-up for missed occurrences and no dedup beyond that chain.
type Projector struct {
	repo     Repository
	notifier *notification.Notifier
}

func NewProjector(repo Repository, notifier *notification.Notifier) *Projector {
	return &Projector{repo: repo, notifier: notifier}
}

// Project inserts the successor of t when one is due before the recurrence
// end date, and emails the owner a heads-up. Returns (nil, nil) when t is
// not recurring or the chain has run out.
func (p *Projector) Project(ctx context.Context, u *user.User, t *Transaction) (*Transaction, error) {
	if !t.IsRecurring || t.RecurrencePattern == "" || t.RecurrenceEndDate == nil {
		return nil, nil
	}

	next, err := NextOccurrence(t.Date, t.RecurrencePattern)
	if err != nil {
		return nil, err
	}
	if next.After(*t.RecurrenceEndDate) {
		return nil, nil
	}

	successor := &Transaction{
		UserID:            t.UserID,
		Type:              t.Type,
		Amount:            t.Amount,
		Currency:          t.Currency,
		Category:          t.Category,
		Description:       t.Description,
		Tags:              t.Tags,
		Date:              next,
		IsRecurring:       true,
		RecurrencePattern: t.RecurrencePattern,
		RecurrenceEndDate: t.RecurrenceEndDate,
	}
	created, err := p.repo.Create(ctx, successor)
	if err != nil {
		return nil, fmt.Errorf("create successor: %w", err)
	}

	if err := p.notifier.RecurringUpcoming(ctx, u.Email, t.Description, t.Amount, t.Currency, next); err != nil {
		log.Printf("recurring reminder email to %s failed: %v", u.Email, err)
	}
	return created, nil
}
