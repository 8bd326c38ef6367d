// internal/storage/storage.go
package storage

import (
	"context"
	"controle-gastos/internal/domain"
)

type IncomeStorage interface {
	ListIncomes(ctx context.Context, filter domain.ListFilter) ([]domain.Income, int, error)
	CreateIncome(ctx context.Context, in domain.Income) (domain.Income, error)
	UpdateIncome(ctx context.Context, id int64, in domain.Income) (domain.Income, error)
	DeleteIncome(ctx context.Context, id int64) error
}

type ExpenseStorage interface {
	ListExpenses(ctx context.Context, filter domain.ListFilter) ([]domain.Expense, int, error)
	CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error)
	UpdateExpense(ctx context.Context, id int64, e domain.Expense) (domain.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

type SummaryStorage interface {
	MonthTotals(ctx context.Context, period domain.Period) (domain.MonthTotals, error)
}

// Storage: всё, что нужно API и боту
type Storage interface {
	IncomeStorage
	ExpenseStorage
	SummaryStorage
}
