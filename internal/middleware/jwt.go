package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys under which the validated claims are stored. Handlers
// read the caller identity from here and pass it explicitly into
// repository calls; it is never taken from request payloads.
const (
	CtxAccountID = "account_id"
	CtxEmail     = "email"
	CtxRole      = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the account id, email and role claims into the
// request context. The provided secret must match the one used when
// issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Reject any token not signed with our HMAC secret; the
			// signing-method check prevents algorithm substitution.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			id, ok := numericClaim(claims[CtxAccountID])
			if !ok || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set(CtxAccountID, id)
			if email, ok := claims["sub"].(string); ok {
				c.Set(CtxEmail, email)
			}
			if role, ok := claims[CtxRole].(string); ok {
				c.Set(CtxRole, role)
			}
			return next(c)
		}
	}
}

// numericClaim converts a JSON-decoded claim value to uint64. Numbers
// arrive as float64 from encoding/json.
func numericClaim(v interface{}) (uint64, bool) {
	switch t := v.(type) {
	case float64:
		return uint64(t), true
	case uint64:
		return t, true
	case int64:
		return uint64(t), true
	}
	return 0, false
}
