package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fintrack/internal/domain/notification"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/domain/user"
)

// reminderWindow is how far ahead the daily scan looks for upcoming
// recurring payments.
const reminderWindow = 24 * time.Hour

// ReminderJob emails one user about one upcoming recurring payment.
type ReminderJob struct {
	user     *user.User
	tx       *transaction.Transaction
	due      time.Time
	notifier *notification.Notifier
}

func (j *ReminderJob) Execute(ctx context.Context) error {
	return j.notifier.PaymentReminder(ctx, j.user.Email, j.tx.Description, j.tx.Amount, j.due)
}

func (j *ReminderJob) UserID() string {
	return strconv.FormatInt(j.user.ID, 10)
}

func (j *ReminderJob) Description() string {
	return fmt.Sprintf("payment reminder for transaction %s", j.tx.ID)
}

// ReminderProvider builds the day's batch of reminder jobs: every recurring
// transaction whose next occurrence lands inside the reminder window.
type ReminderProvider struct {
	transactions transaction.Repository
	users        user.Repository
	notifier     *notification.Notifier
}

func NewReminderProvider(transactions transaction.Repository, users user.Repository, notifier *notification.Notifier) *ReminderProvider {
	return &ReminderProvider{transactions: transactions, users: users, notifier: notifier}
}

func (p *ReminderProvider) Jobs(ctx context.Context) ([]Job, error) {
	now := time.Now()

	recurring, err := p.transactions.ListRecurring(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list recurring transactions: %w", err)
	}

	// One user can own several due transactions; load each user once.
	usersByID := make(map[int64]*user.User)
	var jobs []Job
	for _, t := range recurring {
		next, err := transaction.NextOccurrence(t.Date, t.RecurrencePattern)
		if err != nil {
			continue
		}
		if next.Before(now) || next.After(now.Add(reminderWindow)) {
			continue
		}
		if t.RecurrenceEndDate != nil && next.After(*t.RecurrenceEndDate) {
			continue
		}

		u, ok := usersByID[t.UserID]
		if !ok {
			u, err = p.users.GetByID(ctx, t.UserID)
			if err != nil || u == nil {
				continue
			}
			usersByID[t.UserID] = u
		}

		jobs = append(jobs, &ReminderJob{user: u, tx: t, due: next, notifier: p.notifier})
	}
	return jobs, nil
}
