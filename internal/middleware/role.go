package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the
// authenticated account holds one of the given roles. Role values
// correspond to the JWT "role" claim stored by JWTAuth. Requests with
// a missing or disallowed role are rejected with 403 Forbidden.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
