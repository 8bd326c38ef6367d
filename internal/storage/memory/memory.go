// internal/storage/memory/memory.go
package memory

import (
	"context"
	"controle-gastos/internal/domain"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Storage keeps records in process memory. Used for local runs and tests.
type Storage struct {
	mu       sync.RWMutex
	nextID   int64
	incomes  map[int64]domain.Income
	expenses map[int64]domain.Expense
}

func NewStorage() *Storage {
	return &Storage{
		incomes:  make(map[int64]domain.Income),
		expenses: make(map[int64]domain.Expense),
	}
}

func matches(description string, f domain.ListFilter) bool {
	if f.Description == "" {
		return true
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(f.Description))
}

func paginate[T any](items []T, f domain.ListFilter) []T {
	if f.Offset < 0 || f.Offset >= len(items) {
		return []T{}
	}
	items = items[f.Offset:]
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}

// === IncomeStorage ===

func (s *Storage) ListIncomes(_ context.Context, f domain.ListFilter) ([]domain.Income, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Income, 0, len(s.incomes))
	for _, in := range s.incomes {
		if f.Period != nil && !f.Period.Contains(in.Date) {
			continue
		}
		if !matches(in.Description, f) {
			continue
		}
		res = append(res, in)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].Date.Equal(res[j].Date) {
			return res[i].Date.After(res[j].Date)
		}
		return res[i].ID > res[j].ID
	})
	return paginate(res, f), len(res), nil
}

// описание receitas сравнивается с учётом регистра
func (s *Storage) incomeTaken(in domain.Income, exceptID int64) bool {
	p := domain.PeriodOf(in.Date)
	for id, other := range s.incomes {
		if id != exceptID && other.Description == in.Description && p.Contains(other.Date) {
			return true
		}
	}
	return false
}

func (s *Storage) CreateIncome(_ context.Context, in domain.Income) (domain.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.incomeTaken(in, 0) {
		return domain.Income{}, fmt.Errorf("create income %q: %w", in.Description, domain.ErrDuplicateInPeriod)
	}
	s.nextID++
	in.ID = s.nextID
	s.incomes[in.ID] = in
	return in, nil
}

func (s *Storage) UpdateIncome(_ context.Context, id int64, in domain.Income) (domain.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incomes[id]; !ok {
		return domain.Income{}, fmt.Errorf("update income %d: %w", id, domain.ErrNotFound)
	}
	if s.incomeTaken(in, id) {
		return domain.Income{}, fmt.Errorf("update income %d: %w", id, domain.ErrDuplicateInPeriod)
	}
	in.ID = id
	s.incomes[id] = in
	return in, nil
}

func (s *Storage) DeleteIncome(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.incomes[id]; !ok {
		return fmt.Errorf("delete income %d: %w", id, domain.ErrNotFound)
	}
	delete(s.incomes, id)
	return nil
}

// === ExpenseStorage ===

func (s *Storage) ListExpenses(_ context.Context, f domain.ListFilter) ([]domain.Expense, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]domain.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if f.Period != nil && !f.Period.Contains(e.Date) {
			continue
		}
		if !matches(e.Description, f) {
			continue
		}
		res = append(res, e)
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].Date.Equal(res[j].Date) {
			return res[i].Date.After(res[j].Date)
		}
		return res[i].ID > res[j].ID
	})
	return paginate(res, f), len(res), nil
}

// у despesas описание сравнивается без учёта регистра
func (s *Storage) expenseTaken(e domain.Expense, exceptID int64) bool {
	p := domain.PeriodOf(e.Date)
	for id, other := range s.expenses {
		if id != exceptID && strings.EqualFold(other.Description, e.Description) && p.Contains(other.Date) {
			return true
		}
	}
	return false
}

func (s *Storage) CreateExpense(_ context.Context, e domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expenseTaken(e, 0) {
		return domain.Expense{}, fmt.Errorf("create expense %q: %w", e.Description, domain.ErrDuplicateInPeriod)
	}
	if e.Category == "" {
		e.Category = domain.CategoryOther
	}
	s.nextID++
	e.ID = s.nextID
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Storage) UpdateExpense(_ context.Context, id int64, e domain.Expense) (domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return domain.Expense{}, fmt.Errorf("update expense %d: %w", id, domain.ErrNotFound)
	}
	if s.expenseTaken(e, id) {
		return domain.Expense{}, fmt.Errorf("update expense %d: %w", id, domain.ErrDuplicateInPeriod)
	}
	if e.Category == "" {
		e.Category = domain.CategoryOther
	}
	e.ID = id
	s.expenses[id] = e
	return e, nil
}

func (s *Storage) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("delete expense %d: %w", id, domain.ErrNotFound)
	}
	delete(s.expenses, id)
	return nil
}

// === SummaryStorage ===

func (s *Storage) MonthTotals(_ context.Context, p domain.Period) (domain.MonthTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// суммируем в порядке id, иначе порядок обхода map меняет последние биты
	totals := domain.MonthTotals{ByCategory: make(map[domain.Category]float64)}
	for _, id := range sortedIDs(s.incomes) {
		if in := s.incomes[id]; p.Contains(in.Date) {
			totals.IncomeTotal += in.Amount
			totals.IncomeCount++
		}
	}
	for _, id := range sortedIDs(s.expenses) {
		if e := s.expenses[id]; p.Contains(e.Date) {
			totals.ExpenseTotal += e.Amount
			totals.ExpenseCount++
			totals.ByCategory[e.Category] += e.Amount
		}
	}
	return totals, nil
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
