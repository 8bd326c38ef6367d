package handler

import (
	"controle-gastos/internal/middleware"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Routes is the full route table of the API.
func (h *Handler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/receitas", h.ListIncomes},
		{http.MethodPost, "/receitas", h.CreateIncome},
		{http.MethodPut, "/receitas/:id", h.UpdateIncome},
		{http.MethodDelete, "/receitas/:id", h.DeleteIncome},
		{http.MethodGet, "/receitas/:ano/:mes", h.ListIncomesByMonth},

		{http.MethodGet, "/despesas", h.ListExpenses},
		{http.MethodPost, "/despesas", h.CreateExpense},
		{http.MethodPut, "/despesas/:id", h.UpdateExpense},
		{http.MethodDelete, "/despesas/:id", h.DeleteExpense},
		{http.MethodGet, "/despesas/:ano/:mes", h.ListExpensesByMonth},

		{http.MethodGet, "/resumo/:ano/:mes", h.MonthlySummary},
	}
}

func Register(r gin.IRoutes, routes []Route) {
	for _, rt := range routes {
		r.Handle(rt.Method, rt.Path, rt.Handler)
	}
}

// NewRouter builds the gin engine with middleware, service endpoints and the route table.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(), middleware.Metrics(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	Register(router, h.Routes())
	return router
}
