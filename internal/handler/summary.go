package handler

import (
	"controle-gastos/internal/domain"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MonthlySummary godoc
// @Summary Totals, balance and per-category expenses of one month
// @Param ano path int true "Year"
// @Param mes path int true "Month"
// @Success 200 {object} domain.MonthlySummary
// @Failure 400 {object} map[string]string
// @Router /resumo/{ano}/{mes} [get]
func (h *Handler) MonthlySummary(c *gin.Context) {
	period, ok := parsePeriod(c)
	if !ok {
		return
	}

	s, err := h.summary.Summary(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, domain.ErrNoDataForPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": msgNoData})
			return
		}
		slog.Error("MonthlySummary failed", "error", err, "period", period.String())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, s)
}
