package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOrderClauseWhitelistsColumns(t *testing.T) {
	cases := []struct {
		sortBy, sortOrder, want string
	}{
		{"name", "asc", " ORDER BY name ASC"},
		{"price", "desc", " ORDER BY sell_price DESC"},
		{"createdAt", "", " ORDER BY created_at DESC"},
		{"password_hash; DROP TABLE", "asc", " ORDER BY created_at ASC"},
		{"", "", " ORDER BY created_at DESC"},
	}
	for _, tc := range cases {
		if got := orderClause(tc.sortBy, tc.sortOrder); got != tc.want {
			t.Errorf("orderClause(%q, %q) = %q, want %q", tc.sortBy, tc.sortOrder, got, tc.want)
		}
	}
}

func TestListComputesPageShape(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery("SELECT " + strings.ReplaceAll(productColumns, "(", "\\(") + " FROM products").
		WillReturnRows(sqlmock.NewRows(strings.Split(productColumns, ",")))

	page, err := repo.List(context.Background(), nil, "", "", 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalItems != 21 || page.TotalPages != 3 || page.PageNumber != 2 || page.PageSize != 10 {
		t.Fatalf("page shape: %+v", page)
	}
	if page.Items == nil {
		t.Fatal("items must be an empty slice, not nil")
	}
}

func TestListFiltersByCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepo(db)

	cat := uint64(4)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE category_id = ").
		WithArgs(cat).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM products WHERE category_id = ").
		WithArgs(cat, 10, 0).
		WillReturnRows(sqlmock.NewRows(strings.Split(productColumns, ",")))

	page, err := repo.List(context.Background(), &cat, "name", "asc", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalItems != 0 || page.TotalPages != 0 {
		t.Fatalf("page shape: %+v", page)
	}
}

func TestSearchUsesLikePattern(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepo(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE name LIKE ").
		WithArgs("%phone%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("FROM products WHERE name LIKE ").
		WithArgs("%phone%", 10, 0).
		WillReturnRows(sqlmock.NewRows(strings.Split(productColumns, ",")))

	if _, err := repo.Search(context.Background(), "phone", "", "", 1, 10); err != nil {
		t.Fatalf("search: %v", err)
	}
}
