package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	lockProduct = "SELECT stock_quantity FROM products WHERE id=? FOR UPDATE"
	lockLine    = "SELECT quantity FROM cart_items WHERE account_id=? AND product_id=? FOR UPDATE"
)

func TestAddMergesIntoExistingLine(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(lockLine)).
		WithArgs(uint64(1), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE cart_items SET quantity=? WHERE account_id=? AND product_id=?")).
		WithArgs(uint32(6), uint64(1), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Add(context.Background(), 1, 3, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestAddCreatesLineWhenAbsent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(lockLine)).
		WithArgs(uint64(1), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO cart_items (account_id, product_id, quantity) VALUES (?,?,?)")).
		WithArgs(uint64(1), uint64(3), uint32(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Add(context.Background(), 1, 3, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
}

func TestAddRejectsQuantityAboveStock(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	// 4 in the cart + 7 requested > 10 in stock: no write happens.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(10))
	mock.ExpectQuery(regexp.QuoteMeta(lockLine)).
		WithArgs(uint64(1), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(4))
	mock.ExpectRollback()

	if err := repo.Add(context.Background(), 1, 3, 7); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if err := repo.Add(context.Background(), 1, 404, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateQuantityChecksStockLikeAdd(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(lockLine)).
		WithArgs(uint64(1), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))
	mock.ExpectRollback()

	if err := repo.UpdateQuantity(context.Background(), 1, 3, 6); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
}

func TestUpdateQuantityRequiresExistingLine(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockProduct)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(lockLine)).
		WithArgs(uint64(1), uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	if err := repo.UpdateQuantity(context.Background(), 1, 3, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRemoveMissingLineIsNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM cart_items WHERE account_id=? AND product_id=?")).
		WithArgs(uint64(1), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Remove(context.Background(), 1, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClearEmptyCartIsNoOp(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM cart_items WHERE account_id=?")).
		WithArgs(uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Clear(context.Background(), 1); err != nil {
		t.Fatalf("clear: %v", err)
	}
}

func TestLinesJoinsProductFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCartRepo(db)

	discount := 99.0
	mock.ExpectQuery("SELECT ci.product_id, p.name, p.sell_price, p.discount_price, ci.quantity").
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "sell_price", "discount_price", "quantity"}).
			AddRow(3, "Keyboard", 120.0, discount, 2).
			AddRow(4, "Mouse", 35.0, nil, 1))

	lines, err := repo.Lines(context.Background(), 1)
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len = %d, want 2", len(lines))
	}
	if lines[0].DiscountPrice == nil || *lines[0].DiscountPrice != 99.0 {
		t.Fatalf("discount = %v", lines[0].DiscountPrice)
	}
	if lines[1].DiscountPrice != nil {
		t.Fatalf("expected nil discount, got %v", *lines[1].DiscountPrice)
	}
}
