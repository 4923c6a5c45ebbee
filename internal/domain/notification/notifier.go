package notification

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
)

// Notifier composes and sends the product's email notifications.
// Callers treat delivery as best-effort: a failed send is logged by the
// caller and never fails the operation that triggered it.
type Notifier struct {
	mailer Mailer
}

func NewNotifier(mailer Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

// BudgetAlert tells the user their spending crossed an alert threshold.
func (n *Notifier) BudgetAlert(ctx context.Context, to string, d *budget.Decision) error {
	var subject, headline string
	switch d.Level {
	case budget.LevelExceeded:
		subject = fmt.Sprintf("Budget exceeded: %s", d.Category)
		headline = fmt.Sprintf("You have exceeded your %s budget.", html.EscapeString(d.Category))
	default:
		subject = fmt.Sprintf("Budget almost used up: %s", d.Category)
		headline = fmt.Sprintf("You are close to your %s budget limit.", html.EscapeString(d.Category))
	}

	body := fmt.Sprintf(`<h2>%s</h2>
<p>Total spent: <strong>%s %s</strong></p>
<p>Budget limit: <strong>%s %s</strong></p>
<p>Remaining: <strong>%s %s</strong></p>`,
		headline,
		d.TotalSpent.StringFixed(2), d.Currency,
		d.Limit.StringFixed(2), d.Currency,
		d.Remaining.StringFixed(2), d.Currency,
	)
	return n.mailer.Send(ctx, to, subject, body)
}

// BudgetRecommendation carries the advice produced when a budget is created.
func (n *Notifier) BudgetRecommendation(ctx context.Context, to, category, message string) error {
	subject := fmt.Sprintf("Budget recommendation: %s", category)
	body := fmt.Sprintf(`<h2>A note on your new %s budget</h2>
<p>%s</p>`, html.EscapeString(category), html.EscapeString(message))
	return n.mailer.Send(ctx, to, subject, body)
}

// RecurringUpcoming reminds the user that a recurring transaction was
// scheduled for its next occurrence.
func (n *Notifier) RecurringUpcoming(ctx context.Context, to, description string, amount decimal.Decimal, currency string, next time.Time) error {
	subject := "Upcoming recurring transaction"
	body := fmt.Sprintf(`<h2>Recurring transaction scheduled</h2>
<p><strong>%s</strong> for <strong>%s %s</strong> is scheduled on %s.</p>`,
		html.EscapeString(description),
		amount.StringFixed(2), currency,
		next.Format("2 January 2006"),
	)
	return n.mailer.Send(ctx, to, subject, body)
}

// GoalCompleted congratulates the user once a savings goal is reached.
// Sent exactly once per goal; completion never reverts.
func (n *Notifier) GoalCompleted(ctx context.Context, to, goalName string) error {
	subject := fmt.Sprintf("Congratulations! You reached your goal: %s", goalName)
	body := fmt.Sprintf(`<h2>Goal achieved</h2>
<p>You reached your savings goal <strong>%s</strong>. Well done!</p>`,
		html.EscapeString(goalName))
	return n.mailer.Send(ctx, to, subject, body)
}

// SpendingAlert warns that reported spending is over a limit.
func (n *Notifier) SpendingAlert(ctx context.Context, to, category string, spent, limit decimal.Decimal) error {
	subject := fmt.Sprintf("Spending alert: %s", category)
	body := fmt.Sprintf(`<h2>Spending alert</h2>
<p>You have spent <strong>%s</strong> in %s against a limit of <strong>%s</strong>.</p>`,
		spent.StringFixed(2), html.EscapeString(category), limit.StringFixed(2))
	return n.mailer.Send(ctx, to, subject, body)
}

// PaymentReminder nudges the user about an upcoming payment.
func (n *Notifier) PaymentReminder(ctx context.Context, to, description string, amount decimal.Decimal, dueDate time.Time) error {
	subject := "Payment reminder"
	body := fmt.Sprintf(`<h2>Payment due soon</h2>
<p><strong>%s</strong> for <strong>%s</strong> is due on %s.</p>`,
		html.EscapeString(description),
		amount.StringFixed(2),
		dueDate.Format("2 January 2006"),
	)
	return n.mailer.Send(ctx, to, subject, body)
}

// GoalDeadline warns that a goal's target date is approaching.
func (n *Notifier) GoalDeadline(ctx context.Context, to, goalName string, targetDate time.Time) error {
	subject := fmt.Sprintf("Goal deadline approaching: %s", goalName)
	body := fmt.Sprintf(`<h2>Deadline approaching</h2>
<p>Your goal <strong>%s</strong> has its target date on %s. Time for a final push!</p>`,
		html.EscapeString(goalName),
		targetDate.Format("2 January 2006"),
	)
	return n.mailer.Send(ctx, to, subject, body)
}
