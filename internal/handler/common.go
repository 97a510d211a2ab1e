// Package handler contains the Echo HTTP handlers. Handlers bind and
// validate request DTOs, call repositories with the caller identity
// taken from the validated token claims, and map sentinel errors to
// status codes. Driver errors never reach the client.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/middleware"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// accountID returns the caller's account id set by the JWT middleware.
func accountID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxAccountID).(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("no account id in context")
}

func callerEmail(c echo.Context) string {
	s, _ := c.Get(middleware.CtxEmail).(string)
	return s
}

func callerRole(c echo.Context) string {
	s, _ := c.Get(middleware.CtxRole).(string)
	return s
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	if s := c.QueryParam(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

// parseDate parses an optional yyyy-mm-dd value from a DTO.
func parseDate(s *string) (*time.Time, bool) {
	if s == nil || *s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
