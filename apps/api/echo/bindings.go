package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shusseki/core"
)

var orderingParam = "ordering"

// bindOrderings reads `?ordering=name,-size`.
func bindOrderings(ctx echo.Context) []core.Ordering {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return nil
	}
	return core.ParseOrderings(val)
}
