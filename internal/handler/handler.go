// internal/handler/handler.go
package handler

import (
	"controle-gastos/internal/domain"
	"controle-gastos/internal/storage"
	"controle-gastos/internal/summary"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	val "controle-gastos/internal/validator"

	"github.com/gin-gonic/gin"
)

// PageSize: фиксированный размер страницы для списков
const PageSize = 25

const (
	msgInvalidJSON   = "JSON inválido"
	msgNotFound      = "Não encontrado."
	msgInvalidPage   = "Página inválida."
	msgInvalidPeriod = "Período inválido."
	msgNoData        = "Não foram encontrados valores para o período informado!"
)

type Handler struct {
	incomes  storage.IncomeStorage
	expenses storage.ExpenseStorage
	summary  *summary.Aggregator
}

func NewHandler(store storage.Storage) *Handler {
	return &Handler{
		incomes:  store,
		expenses: store,
		summary:  summary.NewAggregator(store),
	}
}

// bindPayload читает тело как JSON-объект и прогоняет обе проверки.
// При ошибке ответ уже записан.
func bindPayload(c *gin.Context) (map[string]any, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgInvalidJSON})
		return nil, false
	}

	if n, missing := val.RequiredFields(payload); n != 0 {
		c.JSON(http.StatusBadRequest, missing)
		return nil, false
	}

	if errs := val.ValueErrors(payload); len(errs) != 0 {
		c.JSON(http.StatusBadRequest, errs)
		return nil, false
	}
	return payload, true
}

// payloadFields достаёт общие поля из уже проверенного payload
func payloadFields(p map[string]any) (string, float64, time.Time) {
	description, _ := p["descricao"].(string)
	amount, _ := val.ParseAmount(p["valor"])
	raw, _ := p["data"].(string)
	date, _ := time.Parse(domain.DateLayout, raw)
	return description, amount, date
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
		return 0, false
	}
	return id, true
}

func parsePeriod(c *gin.Context) (domain.Period, bool) {
	year, errY := strconv.Atoi(c.Param("ano"))
	month, errM := strconv.Atoi(c.Param("mes"))
	if errY != nil || errM != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgInvalidPeriod})
		return domain.Period{}, false
	}
	p, err := domain.NewPeriod(year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgInvalidPeriod})
		return domain.Period{}, false
	}
	return p, true
}

// respondStoreError отвечает на ошибки хранилища; duplicateMsg: текст для конфликта описаний
func respondStoreError(c *gin.Context, op string, err error, duplicateMsg string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateInPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"erro": duplicateMsg})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
	default:
		slog.Error(op+" failed", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
