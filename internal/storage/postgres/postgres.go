// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"controle-gastos/internal/domain"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// escapeLike экранирует спецсимволы LIKE во вводе пользователя
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func applyFilter(b sq.SelectBuilder, f domain.ListFilter) sq.SelectBuilder {
	if f.Description != "" {
		b = b.Where(sq.ILike{"descricao": "%" + escapeLike(f.Description) + "%"})
	}
	if f.Period != nil {
		b = b.Where(sq.GtOrEq{"data": f.Period.Start()}).Where(sq.Lt{"data": f.Period.End()})
	}
	return b
}

func (s *Storage) count(ctx context.Context, table string, f domain.ListFilter) (int, error) {
	query, args, err := applyFilter(psql.Select("COUNT(*)").From(table), f).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func listQuery(table string, columns []string, f domain.ListFilter) (string, []any, error) {
	b := applyFilter(psql.Select(columns...).From(table), f).OrderBy("data DESC", "id DESC")
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}
	return b.ToSql()
}

// lockPeriod сериализует запись одинаковых описаний в одном месяце до конца транзакции
func lockPeriod(ctx context.Context, tx pgx.Tx, table, description string, date time.Time) error {
	key := table + "|" + strings.ToLower(description) + "|" + domain.PeriodOf(date).String()
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("lock period: %w", err)
	}
	return nil
}

// writeErr переводит нарушение уникального индекса в доменную ошибку
func writeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateInPeriod)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func lockRow(ctx context.Context, tx pgx.Tx, table string, id int64) error {
	var one int
	err := tx.QueryRow(ctx, "SELECT 1 FROM "+table+" WHERE id = $1 FOR UPDATE", id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// === IncomeStorage ===

func (s *Storage) ListIncomes(ctx context.Context, f domain.ListFilter) ([]domain.Income, int, error) {
	total, err := s.count(ctx, "receitas", f)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := listQuery("receitas", []string{"id", "descricao", "valor", "data"}, f)
	if err != nil {
		return nil, 0, fmt.Errorf("build list incomes: %w", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		var in domain.Income
		if err := rows.Scan(&in.ID, &in.Description, &in.Amount, &in.Date); err != nil {
			return nil, 0, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return incomes, total, nil
}

func incomeTaken(ctx context.Context, tx pgx.Tx, in domain.Income, exceptID int64) (bool, error) {
	p := domain.PeriodOf(in.Date)
	var taken bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM receitas
			WHERE descricao = $1 AND data >= $2 AND data < $3 AND id <> $4
		)
	`, in.Description, p.Start(), p.End(), exceptID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check income description: %w", err)
	}
	return taken, nil
}

func (s *Storage) CreateIncome(ctx context.Context, in domain.Income) (domain.Income, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Income{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPeriod(ctx, tx, "receitas", in.Description, in.Date); err != nil {
		return domain.Income{}, err
	}
	taken, err := incomeTaken(ctx, tx, in, 0)
	if err != nil {
		return domain.Income{}, err
	}
	if taken {
		return domain.Income{}, fmt.Errorf("create income %q: %w", in.Description, domain.ErrDuplicateInPeriod)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO receitas (descricao, valor, data) VALUES ($1, $2, $3) RETURNING id
	`, in.Description, in.Amount, in.Date).Scan(&in.ID)
	if err != nil {
		return domain.Income{}, writeErr("insert income", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Income{}, fmt.Errorf("commit tx: %w", err)
	}
	slog.Debug("CreateIncome completed", "id", in.ID, "period", domain.PeriodOf(in.Date).String())
	return in, nil
}

func (s *Storage) UpdateIncome(ctx context.Context, id int64, in domain.Income) (domain.Income, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Income{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRow(ctx, tx, "receitas", id); err != nil {
		return domain.Income{}, fmt.Errorf("update income %d: %w", id, err)
	}
	if err := lockPeriod(ctx, tx, "receitas", in.Description, in.Date); err != nil {
		return domain.Income{}, err
	}
	taken, err := incomeTaken(ctx, tx, in, id)
	if err != nil {
		return domain.Income{}, err
	}
	if taken {
		return domain.Income{}, fmt.Errorf("update income %d: %w", id, domain.ErrDuplicateInPeriod)
	}

	_, err = tx.Exec(ctx, `
		UPDATE receitas SET descricao = $1, valor = $2, data = $3 WHERE id = $4
	`, in.Description, in.Amount, in.Date, id)
	if err != nil {
		return domain.Income{}, writeErr("update income", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Income{}, fmt.Errorf("commit tx: %w", err)
	}
	in.ID = id
	return in, nil
}

func (s *Storage) DeleteIncome(ctx context.Context, id int64) error {
	result, err := s.db.Exec(ctx, "DELETE FROM receitas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete income %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// === ExpenseStorage ===

func (s *Storage) ListExpenses(ctx context.Context, f domain.ListFilter) ([]domain.Expense, int, error) {
	total, err := s.count(ctx, "despesas", f)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := listQuery("despesas", []string{"id", "descricao", "valor", "data", "categoria"}, f)
	if err != nil {
		return nil, 0, fmt.Errorf("build list expenses: %w", err)
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		var cat string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &cat); err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = domain.Category(cat)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return expenses, total, nil
}

func expenseTaken(ctx context.Context, tx pgx.Tx, e domain.Expense, exceptID int64) (bool, error) {
	p := domain.PeriodOf(e.Date)
	var taken bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM despesas
			WHERE LOWER(descricao) = LOWER($1) AND data >= $2 AND data < $3 AND id <> $4
		)
	`, e.Description, p.Start(), p.End(), exceptID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check expense description: %w", err)
	}
	return taken, nil
}

func (s *Storage) CreateExpense(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	if e.Category == "" {
		e.Category = domain.CategoryOther
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockPeriod(ctx, tx, "despesas", e.Description, e.Date); err != nil {
		return domain.Expense{}, err
	}
	taken, err := expenseTaken(ctx, tx, e, 0)
	if err != nil {
		return domain.Expense{}, err
	}
	if taken {
		return domain.Expense{}, fmt.Errorf("create expense %q: %w", e.Description, domain.ErrDuplicateInPeriod)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO despesas (descricao, valor, data, categoria) VALUES ($1, $2, $3, $4) RETURNING id
	`, e.Description, e.Amount, e.Date, string(e.Category)).Scan(&e.ID)
	if err != nil {
		return domain.Expense{}, writeErr("insert expense", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Expense{}, fmt.Errorf("commit tx: %w", err)
	}
	slog.Debug("CreateExpense completed", "id", e.ID, "period", domain.PeriodOf(e.Date).String())
	return e, nil
}

func (s *Storage) UpdateExpense(ctx context.Context, id int64, e domain.Expense) (domain.Expense, error) {
	if e.Category == "" {
		e.Category = domain.CategoryOther
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockRow(ctx, tx, "despesas", id); err != nil {
		return domain.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	if err := lockPeriod(ctx, tx, "despesas", e.Description, e.Date); err != nil {
		return domain.Expense{}, err
	}
	taken, err := expenseTaken(ctx, tx, e, id)
	if err != nil {
		return domain.Expense{}, err
	}
	if taken {
		return domain.Expense{}, fmt.Errorf("update expense %d: %w", id, domain.ErrDuplicateInPeriod)
	}

	_, err = tx.Exec(ctx, `
		UPDATE despesas SET descricao = $1, valor = $2, data = $3, categoria = $4 WHERE id = $5
	`, e.Description, e.Amount, e.Date, string(e.Category), id)
	if err != nil {
		return domain.Expense{}, writeErr("update expense", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Expense{}, fmt.Errorf("commit tx: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *Storage) DeleteExpense(ctx context.Context, id int64) error {
	result, err := s.db.Exec(ctx, "DELETE FROM despesas WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete expense %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// === SummaryStorage ===

func (s *Storage) MonthTotals(ctx context.Context, p domain.Period) (domain.MonthTotals, error) {
	totals := domain.MonthTotals{ByCategory: make(map[domain.Category]float64)}

	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(valor), 0), COUNT(*)
		FROM receitas
		WHERE data >= $1 AND data < $2
	`, p.Start(), p.End()).Scan(&totals.IncomeTotal, &totals.IncomeCount)
	if err != nil {
		return domain.MonthTotals{}, fmt.Errorf("sum incomes: %w", err)
	}

	rows, err := s.db.Query(ctx, `
		SELECT categoria, SUM(valor), COUNT(*)
		FROM despesas
		WHERE data >= $1 AND data < $2
		GROUP BY categoria
	`, p.Start(), p.End())
	if err != nil {
		return domain.MonthTotals{}, fmt.Errorf("sum expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var sum float64
		var n int
		if err := rows.Scan(&cat, &sum, &n); err != nil {
			return domain.MonthTotals{}, fmt.Errorf("scan expense group: %w", err)
		}
		totals.ByCategory[domain.Category(cat)] = sum
		totals.ExpenseTotal += sum
		totals.ExpenseCount += n
	}
	if err := rows.Err(); err != nil {
		return domain.MonthTotals{}, fmt.Errorf("rows error: %w", err)
	}
	return totals, nil
}
