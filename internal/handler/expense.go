// internal/handler/expense.go
package handler

import (
	"controle-gastos/internal/domain"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgExpenseDuplicate = "Já existe uma Despesa com a mesma descrição para o mês informado!"
	msgExpenseDeleted   = "Despesa excluída com sucesso!"
)

func expenseFromPayload(p map[string]any) domain.Expense {
	description, amount, date := payloadFields(p)
	e := domain.Expense{Description: description, Amount: amount, Date: date, Category: domain.CategoryOther}
	if cat, ok := p["categoria"].(string); ok {
		e.Category = domain.Category(cat)
	}
	return e
}

// ListExpenses godoc
// @Summary List expenses, most recent first, with category labels
// @Param descricao query string false "Description substring"
// @Param page query int false "Page number"
// @Success 200 {object} pageResponse
// @Router /despesas [get]
func (h *Handler) ListExpenses(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	h.listExpenses(c, page, pageFilter(c, page))
}

// ListExpensesByMonth godoc
// @Summary List expenses of one month
// @Param ano path int true "Year"
// @Param mes path int true "Month"
// @Success 200 {object} pageResponse
// @Failure 400 {object} map[string]string
// @Router /despesas/{ano}/{mes} [get]
func (h *Handler) ListExpensesByMonth(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}
	page, ok := pageParam(c)
	if !ok {
		return
	}
	f := pageFilter(c, page)
	f.Period = &period
	h.listExpenses(c, page, f)
}

func (h *Handler) listExpenses(c *gin.Context, page int, f domain.ListFilter) {
	expenses, total, err := h.expenses.ListExpenses(c.Request.Context(), f)
	if err != nil {
		respondStoreError(c, "ListExpenses", err, msgExpenseDuplicate)
		return
	}
	respondPage(c, page, total, toExpenseReadResponses(expenses))
}

// CreateExpense godoc
// @Summary Create an expense; categoria defaults to "O"
// @Accept json
// @Produce json
// @Success 201 {object} expenseResponse
// @Failure 400 {object} map[string]string
// @Router /despesas [post]
func (h *Handler) CreateExpense(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	e, err := h.expenses.CreateExpense(c.Request.Context(), expenseFromPayload(payload))
	if err != nil {
		respondStoreError(c, "CreateExpense", err, msgExpenseDuplicate)
		return
	}

	slog.Info("Expense created", "id", e.ID, "category", string(e.Category), "period", domain.PeriodOf(e.Date).String())
	c.JSON(http.StatusCreated, toExpenseWriteResponse(e))
}

// UpdateExpense godoc
// @Summary Replace all fields of an expense
// @Param id path int true "Expense ID"
// @Success 200 {object} expenseResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /despesas/{id} [put]
func (h *Handler) UpdateExpense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	e, err := h.expenses.UpdateExpense(c.Request.Context(), id, expenseFromPayload(payload))
	if err != nil {
		respondStoreError(c, "UpdateExpense", err, msgExpenseDuplicate)
		return
	}
	c.JSON(http.StatusOK, toExpenseWriteResponse(e))
}

// DeleteExpense godoc
// @Param id path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /despesas/{id} [delete]
func (h *Handler) DeleteExpense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.expenses.DeleteExpense(c.Request.Context(), id); err != nil {
		respondStoreError(c, "DeleteExpense", err, msgExpenseDuplicate)
		return
	}
	slog.Info("Expense deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"detail": msgExpenseDeleted})
}
