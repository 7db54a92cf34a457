package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and clamps page/limit from query parameters.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Sort resolves sort_by/order query params against an allow-list of
// column names. Unknown fields and orders fall back to the default
// rather than erroring.
func Sort(c *gin.Context, allowed map[string]string, defaultColumn string) string {
	column := defaultColumn
	if mapped, ok := allowed[c.Query("sort_by")]; ok {
		column = mapped
	}
	order := "desc"
	if strings.EqualFold(c.DefaultQuery("order", "desc"), "asc") {
		order = "asc"
	}
	return column + " " + order
}
