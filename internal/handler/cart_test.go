package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/haichau/electrostore/internal/middleware"
	"github.com/haichau/electrostore/internal/repository"
)

func newCartHandler(t *testing.T) (*CartHandler, sqlmock.Sqlmock) {
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
	return NewCartHandler(repository.NewCartRepo(db)), mock
}

func authedContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set(middleware.CtxAccountID, uint64(1))
	c.Set(middleware.CtxRole, "CUSTOMER")
	return c, rec
}

func TestViewEmptyCartReturnsMarkerMessage(t *testing.T) {
	h, mock := newCartHandler(t)
	mock.ExpectQuery("SELECT ci.product_id, p.name, p.sell_price, p.discount_price, ci.quantity").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "sell_price", "discount_price", "quantity"}))

	c, rec := authedContext(t, http.MethodGet, "/v1/cart", "")
	if err := h.View(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your cart is empty.") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAddInsufficientStockIs400(t *testing.T) {
	h, mock := newCartHandler(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT stock_quantity FROM products WHERE id=? FOR UPDATE")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT quantity FROM cart_items WHERE account_id=? AND product_id=? FOR UPDATE")).
		WithArgs(uint64(1), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := authedContext(t, http.MethodPost, "/v1/cart/add", `{"productId":3,"quantity":5}`)
	if err := h.Add(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "insufficient inventory") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAddUnknownProductIs404(t *testing.T) {
	h, mock := newCartHandler(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT stock_quantity FROM products WHERE id=? FOR UPDATE")).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	c, rec := authedContext(t, http.MethodPost, "/v1/cart/add", `{"productId":404,"quantity":1}`)
	if err := h.Add(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	h, _ := newCartHandler(t)

	c, rec := authedContext(t, http.MethodPost, "/v1/cart/add", `{"productId":3,"quantity":0}`)
	if err := h.Add(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRemoveMissingLineIs404(t *testing.T) {
	h, mock := newCartHandler(t)
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM cart_items WHERE account_id=? AND product_id=?")).
		WithArgs(uint64(1), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := authedContext(t, http.MethodDelete, "/v1/cart/remove/9", "")
	c.SetParamNames("productId")
	c.SetParamValues("9")
	if err := h.Remove(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestClearReturns204(t *testing.T) {
	h, mock := newCartHandler(t)
	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM cart_items WHERE account_id=?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := authedContext(t, http.MethodDelete, "/v1/cart/clear", "")
	if err := h.Clear(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
