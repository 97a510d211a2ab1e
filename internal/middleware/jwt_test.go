package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/utils"
)

func runProtected(t *testing.T, secret, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := JWTAuth(secret)(next)(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	return rec
}

func TestJWTAuthSetsClaims(t *testing.T) {
	at, err := utils.NewAccessToken("secret", "iss", "aud", "ana@example.com", 42, "CUSTOMER", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotID uint64
	var gotEmail, gotRole string
	rec := runProtected(t, "secret", "Bearer "+at.Token, func(c echo.Context) error {
		gotID, _ = c.Get(CtxAccountID).(uint64)
		gotEmail, _ = c.Get(CtxEmail).(string)
		gotRole, _ = c.Get(CtxRole).(string)
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != 42 || gotEmail != "ana@example.com" || gotRole != "CUSTOMER" {
		t.Fatalf("claims = %d/%s/%s", gotID, gotEmail, gotRole)
	}
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := runProtected(t, "secret", "", func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", "iss", "aud", "a@b.c", 1, "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := runProtected(t, "secret", "Bearer "+at.Token, func(c echo.Context) error {
		t.Fatal("next must not run")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"allowed", "ADMIN", []string{"ADMIN", "EMPLOYEE"}, http.StatusOK},
		{"denied", "CUSTOMER", []string{"ADMIN"}, http.StatusForbidden},
		{"missing", nil, []string{"ADMIN"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set(CtxRole, tc.role)
			}
			err := RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				t.Fatalf("middleware: %v", err)
			}
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
