// internal/summary/summary.go
package summary

import (
	"context"
	"controle-gastos/internal/domain"
	"fmt"
	"math"
)

type totalsReader interface {
	MonthTotals(ctx context.Context, period domain.Period) (domain.MonthTotals, error)
}

type Aggregator struct {
	store totalsReader
}

func NewAggregator(store totalsReader) *Aggregator {
	return &Aggregator{store: store}
}

// Summary returns the monthly summary or domain.ErrNoDataForPeriod.
func (a *Aggregator) Summary(ctx context.Context, period domain.Period) (domain.MonthlySummary, error) {
	totals, err := a.store.MonthTotals(ctx, period)
	if err != nil {
		return domain.MonthlySummary{}, fmt.Errorf("month totals %s: %w", period, err)
	}
	s, err := Build(totals)
	if err != nil {
		return domain.MonthlySummary{}, fmt.Errorf("summary %s: %w", period, err)
	}
	return s, nil
}

// Build reduces raw month totals to the summary.
//
// When only one kind of record exists the balance equals that kind's total,
// so a month with expenses only reports a positive balance.
func Build(t domain.MonthTotals) (domain.MonthlySummary, error) {
	hasIncome := t.IncomeCount > 0
	hasExpense := t.ExpenseCount > 0

	var balance float64
	switch {
	case hasIncome && hasExpense:
		balance = t.IncomeTotal - t.ExpenseTotal
	case hasIncome:
		balance = t.IncomeTotal
	case hasExpense:
		balance = t.ExpenseTotal
	default:
		return domain.MonthlySummary{}, domain.ErrNoDataForPeriod
	}

	byCategory := make(map[string]float64, len(domain.Categories()))
	for _, c := range domain.Categories() {
		byCategory[c.Label()] = round2(t.ByCategory[c])
	}

	return domain.MonthlySummary{
		TotalIncome:  t.IncomeTotal,
		TotalExpense: t.ExpenseTotal,
		Balance:      balance,
		ByCategory:   byCategory,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
