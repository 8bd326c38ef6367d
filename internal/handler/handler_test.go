package handler

import (
	"bytes"
	"controle-gastos/internal/storage/memory"
	val "controle-gastos/internal/validator"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(memory.NewStorage()))
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type pageOf[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func TestCreateIncome(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/receitas", map[string]any{"descricao": "Salário", "valor": 2500.5, "data": "2022-01-05"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	got := decode[incomeResponse](t, w)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "Salário", got.Description)
	assert.Equal(t, 2500.5, got.Amount)
	assert.Equal(t, "2022-01-05", got.Date)

	list := decode[pageOf[incomeResponse]](t, do(t, r, http.MethodGet, "/receitas", nil))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, got, list.Results[0])
}

func TestCreateMissingFields(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/receitas", map[string]any{"descricao": "Salário"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{
		"valor": "O campo é obrigatório!",
		"data":  "O campo é obrigatório!",
	}, decode[map[string]string](t, w))
}

func TestCreateInvalidValues(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/despesas", map[string]any{
		"descricao": "Mercado",
		"valor":     "dez",
		"data":      "25/01/2022",
		"categoria": "X",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[map[string]string](t, w)
	assert.Contains(t, errs, "valor")
	assert.Contains(t, errs, "data")
	assert.Contains(t, errs, "categoria")
}

func TestCreateInvalidJSON(t *testing.T) {
	r := setupRouter(t)

	for _, body := range []string{"{", "[]", "null"} {
		w := do(t, r, http.MethodPost, "/receitas", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestNonFiniteAmountIsRejected(t *testing.T) {
	r := setupRouter(t)

	for _, tc := range []struct{ path, valor string }{
		{"/receitas", "NaN"},
		{"/despesas", "Inf"},
		{"/despesas", "-Infinity"},
	} {
		w := do(t, r, http.MethodPost, tc.path, map[string]any{"descricao": "Conta", "valor": tc.valor, "data": "2022-01-05"})
		require.Equal(t, http.StatusBadRequest, w.Code, tc.valor)
		assert.Equal(t, val.MsgTypeMismatch, decode[map[string]string](t, w)["valor"])
	}

	w := do(t, r, http.MethodGet, "/receitas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decode[pageOf[incomeResponse]](t, w).Count)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/resumo/2022/1", nil).Code)
}

func TestNumericStringAmountIsAccepted(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/receitas", map[string]any{"descricao": "Freela", "valor": "150.75", "data": "2022-01-05"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 150.75, decode[incomeResponse](t, w).Amount)
}

func TestIncomeDuplicateInMonth(t *testing.T) {
	r := setupRouter(t)

	body := map[string]any{"descricao": "Salário", "valor": 100, "data": "2022-01-05"}
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas", body).Code)

	body["data"] = "2022-01-28"
	w := do(t, r, http.MethodPost, "/receitas", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgIncomeDuplicate, decode[map[string]string](t, w)["erro"])

	// регистр важен для receitas
	body["descricao"] = "SALÁRIO"
	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas", body).Code)

	body["descricao"] = "Salário"
	body["data"] = "2022-02-05"
	assert.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas", body).Code)
}

func TestExpenseDuplicateIgnoresCase(t *testing.T) {
	r := setupRouter(t)

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/despesas",
		map[string]any{"descricao": "Aluguel", "valor": 900, "data": "2022-01-05", "categoria": "M"}).Code)

	w := do(t, r, http.MethodPost, "/despesas",
		map[string]any{"descricao": "aluguel", "valor": 900, "data": "2022-01-10", "categoria": "M"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgExpenseDuplicate, decode[map[string]string](t, w)["erro"])
}

func TestExpenseCategoryShapes(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/despesas", map[string]any{"descricao": "Mercado", "valor": 10.5, "data": "2022-01-05", "categoria": "A"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "A", decode[expenseResponse](t, w).Category)

	w = do(t, r, http.MethodPost, "/despesas", map[string]any{"descricao": "Presente", "valor": 50, "data": "2022-01-06"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "O", decode[expenseResponse](t, w).Category)

	list := decode[pageOf[expenseResponse]](t, do(t, r, http.MethodGet, "/despesas", nil))
	require.Len(t, list.Results, 2)
	assert.Equal(t, "Outro", list.Results[0].Category)
	assert.Equal(t, "Alimentação", list.Results[1].Category)
}

func TestUpdate(t *testing.T) {
	r := setupRouter(t)

	a := decode[expenseResponse](t, do(t, r, http.MethodPost, "/despesas", map[string]any{"descricao": "Luz", "valor": 80, "data": "2022-03-01"}))
	b := decode[expenseResponse](t, do(t, r, http.MethodPost, "/despesas", map[string]any{"descricao": "Água", "valor": 40, "data": "2022-03-02"}))

	w := do(t, r, http.MethodPut, fmt.Sprintf("/despesas/%d", a.ID), map[string]any{"descricao": "Luz", "valor": 95, "data": "2022-03-01", "categoria": "M"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[expenseResponse](t, w)
	assert.Equal(t, 95.0, got.Amount)
	assert.Equal(t, "M", got.Category)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/despesas/%d", b.ID), map[string]any{"descricao": "LUZ", "valor": 40, "data": "2022-03-02"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPut, "/despesas/999", map[string]any{"descricao": "Gás", "valor": 40, "data": "2022-03-02"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/despesas/%d", b.ID), map[string]any{"descricao": "Água"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	r := setupRouter(t)

	in := decode[incomeResponse](t, do(t, r, http.MethodPost, "/receitas", map[string]any{"descricao": "Bônus", "valor": 10, "data": "2022-03-01"}))

	w := do(t, r, http.MethodDelete, fmt.Sprintf("/receitas/%d", in.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, msgIncomeDeleted, decode[map[string]string](t, w)["detail"])

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, fmt.Sprintf("/receitas/%d", in.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/receitas/abc", nil).Code)

	list := decode[pageOf[incomeResponse]](t, do(t, r, http.MethodGet, "/receitas", nil))
	assert.Zero(t, list.Count)
	assert.Empty(t, list.Results)
}

func TestListFilterAndMonth(t *testing.T) {
	r := setupRouter(t)

	for _, b := range []map[string]any{
		{"descricao": "Mercado", "valor": 100, "data": "2022-01-05", "categoria": "A"},
		{"descricao": "Supermercado", "valor": 50, "data": "2022-02-05", "categoria": "A"},
		{"descricao": "Cinema", "valor": 30, "data": "2022-02-07", "categoria": "L"},
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/despesas", b).Code)
	}

	list := decode[pageOf[expenseResponse]](t, do(t, r, http.MethodGet, "/despesas?descricao=MERCADO", nil))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Supermercado", list.Results[0].Description)

	list = decode[pageOf[expenseResponse]](t, do(t, r, http.MethodGet, "/despesas/2022/2", nil))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Cinema", list.Results[0].Description)

	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/despesas/2022/13", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/receitas/ano/1", nil).Code)
}

func TestPagination(t *testing.T) {
	r := setupRouter(t)

	for i := 0; i < PageSize+5; i++ {
		body := map[string]any{"descricao": fmt.Sprintf("Receita %d", i), "valor": 1, "data": "2022-01-05"}
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas", body).Code)
	}

	first := decode[pageOf[incomeResponse]](t, do(t, r, http.MethodGet, "/receitas", nil))
	assert.Equal(t, PageSize+5, first.Count)
	assert.Len(t, first.Results, PageSize)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Nil(t, first.Previous)

	second := decode[pageOf[incomeResponse]](t, do(t, r, http.MethodGet, "/receitas?page=2", nil))
	assert.Len(t, second.Results, 5)
	assert.Nil(t, second.Next)
	require.NotNil(t, second.Previous)
	assert.NotContains(t, *second.Previous, "page=")

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/receitas?page=3", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/receitas?page=0", nil).Code)
}

func TestPaginationHugePage(t *testing.T) {
	r := setupRouter(t)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas",
		map[string]any{"descricao": "Salário", "valor": 1, "data": "2022-01-05"}).Code)

	for _, page := range []string{"368934881474191034", fmt.Sprint(maxPage), "99999999999999999999"} {
		w := do(t, r, http.MethodGet, "/receitas?page="+page, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, page)
		assert.Equal(t, msgInvalidPage, decode[map[string]string](t, w)["detail"])
	}
}

func TestMonthlySummary(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/resumo/2022/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgNoData, decode[map[string]string](t, w)["detail"])

	for _, b := range []map[string]any{
		{"descricao": "Mercado", "valor": 10.5, "data": "2022-01-05", "categoria": "A"},
		{"descricao": "Feira", "valor": 5.25, "data": "2022-01-06", "categoria": "A"},
	} {
		require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/despesas", b).Code)
	}

	w = do(t, r, http.MethodGet, "/resumo/2022/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	type summary struct {
		TotalIncome  float64            `json:"total_receitas"`
		TotalExpense float64            `json:"total_despesas"`
		Balance      float64            `json:"saldo_final"`
		ByCategory   map[string]float64 `json:"gastos_por_categoria"`
	}
	s := decode[summary](t, w)
	assert.Zero(t, s.TotalIncome)
	assert.Equal(t, 15.75, s.TotalExpense)
	assert.Equal(t, 15.75, s.Balance)
	assert.Len(t, s.ByCategory, 8)
	assert.Equal(t, 15.75, s.ByCategory["Alimentação"])
	assert.Zero(t, s.ByCategory["Lazer"])

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/receitas",
		map[string]any{"descricao": "Salário", "valor": 100, "data": "2022-01-01"}).Code)

	s = decode[summary](t, do(t, r, http.MethodGet, "/resumo/2022/1", nil))
	assert.Equal(t, 100.0, s.TotalIncome)
	assert.Equal(t, 84.25, s.Balance)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])

	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/metrics", nil).Code)
}
