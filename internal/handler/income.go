// internal/handler/income.go
package handler

import (
	"controle-gastos/internal/domain"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgIncomeDuplicate = "Já existe uma Receita com a mesma descrição para o mês informado!"
	msgIncomeDeleted   = "Receita excluída com sucesso!"
)

func incomeFromPayload(p map[string]any) domain.Income {
	description, amount, date := payloadFields(p)
	return domain.Income{Description: description, Amount: amount, Date: date}
}

// ListIncomes godoc
// @Summary List incomes, most recent first
// @Param descricao query string false "Description substring"
// @Param page query int false "Page number"
// @Success 200 {object} pageResponse
// @Router /receitas [get]
func (h *Handler) ListIncomes(c *gin.Context) {
	page, ok := pageParam(c)
	if !ok {
		return
	}
	h.listIncomes(c, page, pageFilter(c, page))
}

// ListIncomesByMonth godoc
// @Summary List incomes of one month
// @Param ano path int true "Year"
// @Param mes path int true "Month"
// @Success 200 {object} pageResponse
// @Failure 400 {object} map[string]string
// @Router /receitas/{ano}/{mes} [get]
func (h *Handler) ListIncomesByMonth(c *gin.Context) {
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
	h.listIncomes(c, page, f)
}

func (h *Handler) listIncomes(c *gin.Context, page int, f domain.ListFilter) {
	incomes, total, err := h.incomes.ListIncomes(c.Request.Context(), f)
	if err != nil {
		respondStoreError(c, "ListIncomes", err, msgIncomeDuplicate)
		return
	}
	respondPage(c, page, total, toIncomeResponses(incomes))
}

// CreateIncome godoc
// @Summary Create an income
// @Accept json
// @Produce json
// @Success 201 {object} incomeResponse
// @Failure 400 {object} map[string]string
// @Router /receitas [post]
func (h *Handler) CreateIncome(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	in, err := h.incomes.CreateIncome(c.Request.Context(), incomeFromPayload(payload))
	if err != nil {
		respondStoreError(c, "CreateIncome", err, msgIncomeDuplicate)
		return
	}

	slog.Info("Income created", "id", in.ID, "period", domain.PeriodOf(in.Date).String())
	c.JSON(http.StatusCreated, toIncomeResponse(in))
}

// UpdateIncome godoc
// @Summary Replace all fields of an income
// @Param id path int true "Income ID"
// @Success 200 {object} incomeResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /receitas/{id} [put]
func (h *Handler) UpdateIncome(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}

	in, err := h.incomes.UpdateIncome(c.Request.Context(), id, incomeFromPayload(payload))
	if err != nil {
		respondStoreError(c, "UpdateIncome", err, msgIncomeDuplicate)
		return
	}
	c.JSON(http.StatusOK, toIncomeResponse(in))
}

// DeleteIncome godoc
// @Param id path int true "Income ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /receitas/{id} [delete]
func (h *Handler) DeleteIncome(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.incomes.DeleteIncome(c.Request.Context(), id); err != nil {
		respondStoreError(c, "DeleteIncome", err, msgIncomeDuplicate)
		return
	}
	slog.Info("Income deleted", "id", id)
	c.JSON(http.StatusOK, gin.H{"detail": msgIncomeDeleted})
}
