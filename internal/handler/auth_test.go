package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/config"
	"github.com/haichau/electrostore/internal/mailer"
	"github.com/haichau/electrostore/internal/repository"
	"github.com/haichau/electrostore/internal/utils"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "electrostore",
		JWTAudience:    "clients",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	h := NewAuthHandler(testConfig(),
		repository.NewAccountRepo(db),
		repository.NewTokenRepo(db),
		mailer.NopMailer{})
	return h, mock
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

const accountSelectByUsername = `SELECT id,username,email,phone,password_hash,role,is_active,created_at,updated_at FROM accounts WHERE username=\? LIMIT 1`

func accountRow(hash string, active bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "phone", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(11, "ana", "ana@example.com", nil, hash, "CUSTOMER", active, now, now)
}

func TestLoginUnknownUser(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery(accountSelectByUsername).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	c, rec := postJSON(t, echo.New(), "/v1/auth/login", `{"username":"ghost","password":"x"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, _ := utils.HashPassword("right", 4)
	mock.ExpectQuery(accountSelectByUsername).WithArgs("ana").WillReturnRows(accountRow(hash, true))

	c, rec := postJSON(t, echo.New(), "/v1/auth/login", `{"username":"ana","password":"wrong"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, _ := utils.HashPassword("right", 4)
	mock.ExpectQuery(accountSelectByUsername).WithArgs("ana").WillReturnRows(accountRow(hash, false))

	c, rec := postJSON(t, echo.New(), "/v1/auth/login", `{"username":"ana","password":"right"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLoginSuccessReturnsTokenPair(t *testing.T) {
	h, mock := newAuthHandler(t)
	hash, _ := utils.HashPassword("right", 4)
	mock.ExpectQuery(accountSelectByUsername).WithArgs("ana").WillReturnRows(accountRow(hash, true))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (account_id, token_hash, expires_at) VALUES (?,?,?)")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := postJSON(t, echo.New(), "/v1/auth/login", `{"username":"ana","password":"right"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp authResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.AccessToken.Token == "" || resp.RefreshToken.Token == "" {
		t.Fatal("missing token in response")
	}
	if resp.Account.ID != 11 || resp.Account.Role != "CUSTOMER" {
		t.Fatalf("unexpected account part: %+v", resp.Account)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO accounts").
		WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'ana@example.com' for key 'accounts.uq_accounts_email'",
		})
	mock.ExpectRollback()

	c, rec := postJSON(t, echo.New(), "/v1/auth/register",
		`{"username":"ana","email":"ana@example.com","password":"pw","fullName":"Ana"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email already exists") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRegisterValidatesRequiredFields(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := postJSON(t, echo.New(), "/v1/auth/register", `{"username":"ana"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	h, mock := newAuthHandler(t)
	mock.ExpectQuery("SELECT account_id, expires_at, consumed_at FROM refresh_tokens").
		WillReturnError(sql.ErrNoRows)

	c, rec := postJSON(t, echo.New(), "/v1/auth/refresh", `{"refreshToken":"stale-or-fake"}`)
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
