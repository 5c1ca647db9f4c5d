package echoapi

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDMaxLen caps ids coming from clients; longer ones are replaced.
const requestIDMaxLen = 64

// requestIDMiddleware reads X-Request-ID or generates a UUID, and echoes it on the response.
func requestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			rid := ctx.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" || len(rid) > requestIDMaxLen {
				rid = uuid.New().String()
				ctx.Request().Header.Set(echo.HeaderXRequestID, rid)
			}
			ctx.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(ctx)
		}
	}
}
