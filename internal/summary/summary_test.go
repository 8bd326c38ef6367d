package summary

import (
	"context"
	"controle-gastos/internal/domain"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTotals struct {
	totals domain.MonthTotals
	err    error
	got    domain.Period
}

func (f *fakeTotals) MonthTotals(_ context.Context, p domain.Period) (domain.MonthTotals, error) {
	f.got = p
	return f.totals, f.err
}

func TestBuildBalance(t *testing.T) {
	cases := []struct {
		name    string
		totals  domain.MonthTotals
		balance float64
	}{
		{"both", domain.MonthTotals{IncomeTotal: 100, IncomeCount: 1, ExpenseTotal: 40, ExpenseCount: 1}, 60},
		{"income only", domain.MonthTotals{IncomeTotal: 100, IncomeCount: 2}, 100},
		{"expense only keeps sign", domain.MonthTotals{ExpenseTotal: 40, ExpenseCount: 3}, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Build(tc.totals)
			require.NoError(t, err)
			assert.Equal(t, tc.balance, s.Balance)
			assert.Equal(t, tc.totals.IncomeTotal, s.TotalIncome)
			assert.Equal(t, tc.totals.ExpenseTotal, s.TotalExpense)
		})
	}
}

func TestBuildNoData(t *testing.T) {
	_, err := Build(domain.MonthTotals{})
	assert.ErrorIs(t, err, domain.ErrNoDataForPeriod)
}

func TestBuildCategoryBreakdown(t *testing.T) {
	s, err := Build(domain.MonthTotals{
		ExpenseTotal: 15.75,
		ExpenseCount: 2,
		ByCategory:   map[domain.Category]float64{domain.CategoryFood: 10.5 + 5.25},
	})
	require.NoError(t, err)

	require.Len(t, s.ByCategory, 8)
	for label, v := range s.ByCategory {
		if label == "Alimentação" {
			assert.Equal(t, 15.75, v)
			continue
		}
		assert.Zero(t, v, label)
	}
}

func TestBuildRoundsCategories(t *testing.T) {
	s, err := Build(domain.MonthTotals{
		ExpenseTotal: 0.1 + 0.2,
		ExpenseCount: 2,
		ByCategory:   map[domain.Category]float64{domain.CategoryLeisure: 0.1 + 0.2},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.3, s.ByCategory["Lazer"])
}

func TestAggregatorSummary(t *testing.T) {
	store := &fakeTotals{totals: domain.MonthTotals{IncomeTotal: 10, IncomeCount: 1}}
	a := NewAggregator(store)

	p := domain.Period{Year: 2022, Month: 1}
	s, err := a.Summary(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p, store.got)
	assert.Equal(t, 10.0, s.Balance)

	store.totals = domain.MonthTotals{}
	_, err = a.Summary(context.Background(), p)
	assert.ErrorIs(t, err, domain.ErrNoDataForPeriod)

	boom := errors.New("boom")
	store.err = boom
	_, err = a.Summary(context.Background(), p)
	assert.ErrorIs(t, err, boom)
}
