// Package insights derives income and expense summaries from stored
// transactions.
package insights

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/category"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type CategoryTotal struct {
	CategoryID category.ID     `json:"category_id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
}

type DailyTotal struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

// Snapshot is recomputed on every request and never stored.
type Snapshot struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetSavings       decimal.Decimal `json:"net_savings"`
	Overspending     bool            `json:"overspending"`
	Insights         []string        `json:"insights"`
	CategorySpending []CategoryTotal `json:"category_spending"`
	DailySpending    []DailyTotal    `json:"daily_spending"`
	TransactionCount int             `json:"transaction_count"`
}

// MarshalJSON writes Amount with exactly two fractional digits.
func (c CategoryTotal) MarshalJSON() ([]byte, error) {
	type plain CategoryTotal

	return json.Marshal(struct {
		plain
		Amount transaction.Money `json:"amount"`
	}{plain(c), transaction.Money(c.Amount)})
}

func (d DailyTotal) MarshalJSON() ([]byte, error) {
	type plain DailyTotal

	return json.Marshal(struct {
		plain
		Amount transaction.Money `json:"amount"`
	}{plain(d), transaction.Money(d.Amount)})
}

// MarshalJSON writes the money totals with exactly two fractional digits.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot

	return json.Marshal(struct {
		plain
		TotalIncome   transaction.Money `json:"total_income"`
		TotalExpenses transaction.Money `json:"total_expenses"`
		NetSavings    transaction.Money `json:"net_savings"`
	}{plain(s), transaction.Money(s.TotalIncome), transaction.Money(s.TotalExpenses), transaction.Money(s.NetSavings)})
}

var hundred = decimal.NewFromInt(100)

// Compute summarises txs restricted to months (YYYY-MM tokens; empty means
// all). Debits count as expenses and credits as income.
func Compute(txs []*transaction.Transaction, set *category.Set, months []string) Snapshot {
	snap := Snapshot{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	byCategory := make(map[category.ID]decimal.Decimal)
	byDay := make(map[time.Time]decimal.Decimal)

	for _, tx := range txs {
		if len(months) > 0 && !slices.Contains(months, tx.Month()) {
			continue
		}

		snap.TransactionCount++

		switch tx.Type {
		case transaction.TypeCredit:
			snap.TotalIncome = snap.TotalIncome.Add(tx.Amount)
		case transaction.TypeDebit:
			snap.TotalExpenses = snap.TotalExpenses.Add(tx.Amount)

			id := set.Fallback()
			if tx.CategoryID != nil && set.Has(*tx.CategoryID) {
				id = *tx.CategoryID
			}

			byCategory[id] = byCategory[id].Add(tx.Amount)
			byDay[tx.Date] = byDay[tx.Date].Add(tx.Amount)
		}
	}

	snap.NetSavings = snap.TotalIncome.Sub(snap.TotalExpenses)
	snap.Overspending = snap.TotalExpenses.GreaterThan(snap.TotalIncome)

	for id, amount := range byCategory {
		snap.CategorySpending = append(snap.CategorySpending, CategoryTotal{CategoryID: id, Name: set.Name(id), Amount: amount})
	}

	slices.SortFunc(snap.CategorySpending, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	for day, amount := range byDay {
		snap.DailySpending = append(snap.DailySpending, DailyTotal{Date: day, Amount: amount})
	}

	slices.SortFunc(snap.DailySpending, func(a, b DailyTotal) int {
		return a.Date.Compare(b.Date)
	})

	snap.Insights = statements(snap)

	return snap
}

func statements(snap Snapshot) []string {
	if snap.TransactionCount == 0 {
		return []string{"No transactions recorded for this period"}
	}

	out := []string{
		"Total income: " + dollars(snap.TotalIncome),
		"Total expenses: " + dollars(snap.TotalExpenses),
		"Net savings: " + dollars(snap.NetSavings),
	}

	switch {
	case snap.TotalIncome.IsPositive():
		out = append(out, fmt.Sprintf("Expenses are %s%% of income", percent(snap.TotalExpenses, snap.TotalIncome)))
	case snap.TotalExpenses.IsPositive():
		out = append(out, "No income recorded for this period")
	}

	if len(snap.CategorySpending) > 0 && snap.TotalExpenses.IsPositive() {
		top := snap.CategorySpending[0]
		out = append(out, fmt.Sprintf("Highest spending: %s (%s, %s%% of expenses)",
			top.Name, dollars(top.Amount), percent(top.Amount, snap.TotalExpenses)))
	}

	if snap.Overspending {
		out = append(out, "You spent more than you earned this period")
	}

	return out
}

func dollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}

	return "$" + d.StringFixed(2)
}

func percent(part, whole decimal.Decimal) string {
	return part.Mul(hundred).DivRound(whole, 4).StringFixed(1)
}
