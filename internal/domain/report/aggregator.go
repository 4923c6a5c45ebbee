package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/domain/budget"
	"fintrack/internal/domain/transaction"
	"fintrack/internal/domain/user"
)

// Report is a full financial summary for one user, with every figure
// expressed in the report currency.
type Report struct {
	TotalIncome          decimal.Decimal            `json:"totalIncome"`
	TotalExpenses        decimal.Decimal            `json:"totalExpenses"`
	Balance              decimal.Decimal            `json:"balance"`
	CategoryWiseSpending map[string]decimal.Decimal `json:"categoryWiseSpending"`
	TotalBudget          decimal.Decimal            `json:"totalBudget"`
	CategoryWiseBudgets  map[string]decimal.Decimal `json:"categoryWiseBudgets"`
	Currency             string                     `json:"currency"`
}

// Aggregator builds reports by walking the user's transactions and budgets.
// Each item is converted individually; there is no rate caching, so a report
// is only as fresh as the rate service at the moment of the request.
type Aggregator struct {
	users        user.Repository
	transactions transaction.Repository
	budgets      budget.Repository
	converter    transaction.CurrencyConverter
}

func NewAggregator(
	users user.Repository,
	transactions transaction.Repository,
	budgets budget.Repository,
	converter transaction.CurrencyConverter,
) *Aggregator {
	return &Aggregator{users: users, transactions: transactions, budgets: budgets, converter: converter}
}

// Generate summarizes the user's finances. The filter narrows which
// transactions count; currency overrides the user's preferred currency as
// the report currency when set. A single failed conversion fails the whole
// report rather than returning a partially wrong summary.
func (a *Aggregator) Generate(ctx context.Context, userID int64, filter transaction.ListFilter, currency string) (*Report, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}

	target := strings.ToUpper(currency)
	if target == "" {
		target = u.PreferredCurrency
	}

	txs, err := a.transactions.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	budgets, err := a.budgets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	r := &Report{
		CategoryWiseSpending: make(map[string]decimal.Decimal),
		CategoryWiseBudgets:  make(map[string]decimal.Decimal),
		Currency:             target,
	}

	for _, t := range txs {
		amount, err := a.normalize(ctx, t.Amount, t.Currency, target)
		if err != nil {
			return nil, fmt.Errorf("convert transaction %s: %w", t.ID, err)
		}
		switch t.Type {
		case transaction.TypeIncome:
			r.TotalIncome = r.TotalIncome.Add(amount)
		case transaction.TypeExpense:
			r.TotalExpenses = r.TotalExpenses.Add(amount)
			r.CategoryWiseSpending[t.Category] = r.CategoryWiseSpending[t.Category].Add(amount)
		}
	}

	for _, b := range budgets {
		limit, err := a.normalize(ctx, b.Limit, b.Currency, target)
		if err != nil {
			return nil, fmt.Errorf("convert budget %s: %w", b.ID, err)
		}
		r.TotalBudget = r.TotalBudget.Add(limit)
		r.CategoryWiseBudgets[b.Category] = r.CategoryWiseBudgets[b.Category].Add(limit)
	}

	r.Balance = r.TotalIncome.Sub(r.TotalExpenses)
	return r, nil
}

func (a *Aggregator) normalize(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == "" || from == to {
		return amount, nil
	}
	return a.converter.Convert(ctx, amount, from, to)
}
