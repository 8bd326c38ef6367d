// internal/domain/models.go
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// DateLayout: формат даты на входе и на выходе API
const DateLayout = "2006-01-02"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateInPeriod = errors.New("duplicate description in period")
	ErrNoDataForPeriod   = errors.New("no data for period")
)

type Income struct {
	ID          int64
	Description string
	Amount      float64
	Date        time.Time
}

type Expense struct {
	ID          int64
	Description string
	Amount      float64
	Date        time.Time
	Category    Category
}

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

func NewPeriod(year, month int) (Period, error) {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return Period{}, fmt.Errorf("invalid period %d-%d", year, month)
	}
	return Period{Year: year, Month: month}, nil
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// Start is the first day of the month, inclusive.
func (p Period) Start() time.Time {
	return now.With(time.Date(p.Year, time.Month(p.Month), 15, 0, 0, 0, 0, time.UTC)).BeginningOfMonth()
}

// End is the first day of the next month, exclusive.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ListFilter: параметры выборки для List*
type ListFilter struct {
	Description string  // подстрока, без учёта регистра
	Period      *Period // nil: все месяцы
	Limit       int     // 0: без ограничения
	Offset      int
}

// MonthTotals: сырые суммы за месяц, из которых строится сводка
type MonthTotals struct {
	IncomeTotal  float64
	IncomeCount  int
	ExpenseTotal float64
	ExpenseCount int
	ByCategory   map[Category]float64
}

type MonthlySummary struct {
	TotalIncome  float64            `json:"total_receitas"`
	TotalExpense float64            `json:"total_despesas"`
	Balance      float64            `json:"saldo_final"`
	ByCategory   map[string]float64 `json:"gastos_por_categoria"`
}
