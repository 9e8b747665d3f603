package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// intParam parses a path parameter as a pk; 0 when absent or malformed.
func intParam(ctx echo.Context, name string) int {
	id, _ := strconv.Atoi(ctx.Param(name))
	return id
}

// intsQueryParam parses a repeated query parameter as pks, dropping
// malformed values.
func intsQueryParam(ctx echo.Context, name string) []int {
	vals, ok := ctx.QueryParams()[name]
	if !ok {
		return nil
	}
	ids := make([]int, 0, len(vals))
	for _, val := range vals {
		if id, err := strconv.Atoi(val); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
