package handler

import "controle-gastos/internal/domain"

type incomeResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	Date        string  `json:"data"`
}

type expenseResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"descricao"`
	Amount      float64 `json:"valor"`
	Date        string  `json:"data"`
	Category    string  `json:"categoria"`
}

func toIncomeResponse(in domain.Income) incomeResponse {
	return incomeResponse{
		ID:          in.ID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date.Format(domain.DateLayout),
	}
}

func toIncomeResponses(incomes []domain.Income) []incomeResponse {
	out := make([]incomeResponse, 0, len(incomes))
	for _, in := range incomes {
		out = append(out, toIncomeResponse(in))
	}
	return out
}

// toExpenseWriteResponse echoes the stored category code, as sent by the client.
func toExpenseWriteResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.Format(domain.DateLayout),
		Category:    string(e.Category),
	}
}

// toExpenseReadResponse renders the category label for listings.
func toExpenseReadResponse(e domain.Expense) expenseResponse {
	r := toExpenseWriteResponse(e)
	r.Category = e.Category.Label()
	return r
}

func toExpenseReadResponses(expenses []domain.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseReadResponse(e))
	}
	return out
}
