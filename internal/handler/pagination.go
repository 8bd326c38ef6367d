package handler

import (
	"controle-gastos/internal/domain"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type pageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// maxPage keeps (page-1)*PageSize within int.
const maxPage = (math.MaxInt-1)/PageSize + 1

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *gin.Context) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > maxPage {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgInvalidPage})
		return 0, false
	}
	return page, true
}

func pageFilter(c *gin.Context, page int) domain.ListFilter {
	return domain.ListFilter{
		Description: c.Query("descricao"),
		Limit:       PageSize,
		Offset:      (page - 1) * PageSize,
	}
}

func pageURL(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	s := scheme + "://" + c.Request.Host + u.RequestURI()
	return &s
}

// respondPage пишет страницу результатов; страница за пределами выборки: 404
func respondPage(c *gin.Context, page, total int, results any) {
	if page > 1 && (page-1)*PageSize >= total {
		c.JSON(http.StatusNotFound, gin.H{"detail": msgInvalidPage})
		return
	}

	resp := pageResponse{Count: total, Results: results}
	if page*PageSize < total {
		resp.Next = pageURL(c, page+1)
	}
	if page > 1 {
		resp.Previous = pageURL(c, page-1)
	}
	c.JSON(http.StatusOK, resp)
}
