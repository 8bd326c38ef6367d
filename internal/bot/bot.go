// internal/bot/bot.go
package bot

import (
	"context"
	"controle-gastos/internal/domain"
	"controle-gastos/internal/storage"
	"controle-gastos/internal/summary"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	val "controle-gastos/internal/validator"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ListLimit: сколько записей бот показывает в одном ответе
const ListLimit = 10

const helpText = "💰 *Controle de gastos*\n\n" +
	"Comandos:\n" +
	"`/receita Salário; 3500; 2024-05-05` — nova receita\n" +
	"`/despesa Mercado; 250.90; 2024-05-10; A` — nova despesa (categoria opcional)\n" +
	"`/receitas 2024-05` — receitas do mês\n" +
	"`/despesas 2024-05` — despesas do mês\n" +
	"`/resumo 2024-05` — resumo do mês\n\n" +
	"Sem mês, vale o mês atual. Categorias: A, S, M, T, E, L, I, O."

type Bot struct {
	incomes  storage.IncomeStorage
	expenses storage.ExpenseStorage
	summary  *summary.Aggregator
	now      func() time.Time
}

func New(store storage.Storage) *Bot {
	return &Bot{
		incomes:  store,
		expenses: store,
		summary:  summary.NewAggregator(store),
		now:      time.Now,
	}
}

// Handle разбирает одну команду и возвращает текст ответа.
func (b *Bot) Handle(ctx context.Context, text string) string {
	text = strings.TrimSpace(fixEncoding(text))
	command, args, _ := strings.Cut(text, " ")
	// в группах команда приходит как /resumo@имя_бота
	command, _, _ = strings.Cut(command, "@")
	args = strings.TrimSpace(args)

	var (
		msg string
		err error
	)

	switch command {
	case "/start", "/help":
		msg = helpText
	case "/receita":
		msg, err = b.addIncome(ctx, args)
	case "/despesa":
		msg, err = b.addExpense(ctx, args)
	case "/receitas":
		msg, err = b.listIncomes(ctx, args)
	case "/despesas":
		msg, err = b.listExpenses(ctx, args)
	case "/resumo":
		msg, err = b.monthlySummary(ctx, args)
	default:
		msg = "Comando desconhecido. Digite /help"
	}

	if err != nil {
		slog.Error("Bot command failed", "command", command, "error", err)
		return "❌ Erro interno, tente novamente."
	}
	return msg
}

// parseEntry разбирает "descrição; valor; AAAA-MM-DD[; categoria]" в payload
// той же формы, что приходит в API.
func parseEntry(args string, withCategory bool) (map[string]any, string) {
	usage := "❌ Use: `descrição; valor; AAAA-MM-DD`"
	maxParts := 3
	if withCategory {
		usage = "❌ Use: `descrição; valor; AAAA-MM-DD; categoria`"
		maxParts = 4
	}

	parts := strings.Split(args, ";")
	if len(parts) < 3 || len(parts) > maxParts {
		return nil, usage
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	payload := map[string]any{
		"descricao": parts[0],
		"valor":     strings.Replace(parts[1], ",", ".", 1),
		"data":      parts[2],
	}
	if len(parts) == 4 && parts[3] != "" {
		payload["categoria"] = strings.ToUpper(parts[3])
	}

	if errs := val.ValueErrors(payload); len(errs) != 0 {
		fields := make([]string, 0, len(errs))
		for field, m := range errs {
			fields = append(fields, fmt.Sprintf("- %s: %s", field, m))
		}
		sort.Strings(fields)
		return nil, "❌ Dados inválidos:\n" + strings.Join(fields, "\n")
	}
	return payload, ""
}

// md экранирует пользовательский текст для ответов в Markdown
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func entryFields(p map[string]any) (string, float64, time.Time) {
	description, _ := p["descricao"].(string)
	amount, _ := val.ParseAmount(p["valor"])
	raw, _ := p["data"].(string)
	date, _ := time.Parse(domain.DateLayout, raw)
	return description, amount, date
}

func (b *Bot) addIncome(ctx context.Context, args string) (string, error) {
	payload, problem := parseEntry(args, false)
	if problem != "" {
		return problem, nil
	}

	description, amount, date := entryFields(payload)
	in, err := b.incomes.CreateIncome(ctx, domain.Income{Description: description, Amount: amount, Date: date})
	if errors.Is(err, domain.ErrDuplicateInPeriod) {
		return "❌ Já existe uma Receita com a mesma descrição para o mês informado!", nil
	}
	if err != nil {
		return "", fmt.Errorf("create income: %w", err)
	}
	return fmt.Sprintf("✅ Receita #%d salva: %s, %.2f em %s", in.ID, md(in.Description), in.Amount, in.Date.Format(domain.DateLayout)), nil
}

func (b *Bot) addExpense(ctx context.Context, args string) (string, error) {
	payload, problem := parseEntry(args, true)
	if problem != "" {
		return problem, nil
	}

	description, amount, date := entryFields(payload)
	category := domain.CategoryOther
	if c, ok := payload["categoria"].(string); ok {
		category = domain.Category(c)
	}

	e, err := b.expenses.CreateExpense(ctx, domain.Expense{
		Description: description,
		Amount:      amount,
		Date:        date,
		Category:    category,
	})
	if errors.Is(err, domain.ErrDuplicateInPeriod) {
		return "❌ Já existe uma Despesa com a mesma descrição para o mês informado!", nil
	}
	if err != nil {
		return "", fmt.Errorf("create expense: %w", err)
	}
	return fmt.Sprintf("✅ Despesa #%d salva: %s, %.2f em %s (%s)",
		e.ID, md(e.Description), e.Amount, e.Date.Format(domain.DateLayout), e.Category.Label()), nil
}

// parseMonth принимает "AAAA-MM"; пустой аргумент: текущий месяц.
func (b *Bot) parseMonth(args string) (domain.Period, bool) {
	if args == "" {
		return domain.PeriodOf(b.now()), true
	}
	t, err := time.Parse("2006-01", args)
	if err != nil {
		return domain.Period{}, false
	}
	p, err := domain.NewPeriod(t.Year(), int(t.Month()))
	return p, err == nil
}

const badMonth = "❌ Use o mês no formato AAAA-MM"

func (b *Bot) listIncomes(ctx context.Context, args string) (string, error) {
	period, ok := b.parseMonth(args)
	if !ok {
		return badMonth, nil
	}

	items, total, err := b.incomes.ListIncomes(ctx, domain.ListFilter{Period: &period, Limit: ListLimit})
	if err != nil {
		return "", fmt.Errorf("list incomes: %w", err)
	}
	if total == 0 {
		return "📭 Nenhuma receita em " + period.String(), nil
	}

	lines := []string{fmt.Sprintf("📈 *Receitas de %s* (%d)", period, total)}
	for _, in := range items {
		lines = append(lines, fmt.Sprintf("- %s %s: %.2f", in.Date.Format(domain.DateLayout), md(in.Description), in.Amount))
	}
	if total > len(items) {
		lines = append(lines, fmt.Sprintf("… e mais %d", total-len(items)))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) listExpenses(ctx context.Context, args string) (string, error) {
	period, ok := b.parseMonth(args)
	if !ok {
		return badMonth, nil
	}

	items, total, err := b.expenses.ListExpenses(ctx, domain.ListFilter{Period: &period, Limit: ListLimit})
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}
	if total == 0 {
		return "📭 Nenhuma despesa em " + period.String(), nil
	}

	lines := []string{fmt.Sprintf("📉 *Despesas de %s* (%d)", period, total)}
	for _, e := range items {
		lines = append(lines, fmt.Sprintf("- %s %s: %.2f (%s)", e.Date.Format(domain.DateLayout), md(e.Description), e.Amount, e.Category.Label()))
	}
	if total > len(items) {
		lines = append(lines, fmt.Sprintf("… e mais %d", total-len(items)))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Bot) monthlySummary(ctx context.Context, args string) (string, error) {
	period, ok := b.parseMonth(args)
	if !ok {
		return badMonth, nil
	}

	s, err := b.summary.Summary(ctx, period)
	if errors.Is(err, domain.ErrNoDataForPeriod) {
		return "📭 Não foram encontrados valores para o período informado!", nil
	}
	if err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("📊 *Resumo de %s*", period),
		fmt.Sprintf("Receitas: %.2f", s.TotalIncome),
		fmt.Sprintf("Despesas: %.2f", s.TotalExpense),
		fmt.Sprintf("Saldo: %.2f", s.Balance),
		"",
		"Por categoria:",
	}
	for _, c := range domain.Categories() {
		lines = append(lines, fmt.Sprintf("- %s: %.2f", c.Label(), s.ByCategory[c.Label()]))
	}
	return strings.Join(lines, "\n"), nil
}
