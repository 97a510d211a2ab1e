package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/haichau/electrostore/internal/model"
)

const insertAccount = "INSERT INTO accounts (username, email, phone, password_hash, role) VALUES (?,?,?,?,?)"

func TestCreateCustomerInsertsAccountAndProfileInOneTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertAccount)).
		WithArgs("ana", "ana@example.com", nil, "hashed", "CUSTOMER").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO customers (account_id, full_name) VALUES (?,?)")).
		WithArgs(uint64(11), "Ana Tran").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	id, err := repo.CreateCustomer(context.Background(), model.Account{
		Username:     "ana",
		Email:        "Ana@Example.com", // normalized to lower case
		PasswordHash: "hashed",
	}, "Ana Tran")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 11 {
		t.Fatalf("id = %d, want 11", id)
	}
}

func TestCreateCustomerTranslatesDuplicateKey(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email", "uq_accounts_email", ErrEmailExists},
		{"phone", "uq_accounts_phone", ErrPhoneExists},
		{"username", "uq_accounts_username", ErrUsernameExists},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewAccountRepo(db)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(insertAccount)).
				WillReturnError(&mysql.MySQLError{
					Number:  1062,
					Message: "Duplicate entry 'x' for key 'accounts." + tc.constraint + "'",
				})
			mock.ExpectRollback()

			_, err := repo.CreateCustomer(context.Background(), model.Account{
				Username:     "ana",
				Email:        "ana@example.com",
				PasswordHash: "hashed",
			}, "Ana Tran")
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateCustomerRollsBackWhenProfileInsertFails(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertAccount)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO customers (account_id, full_name) VALUES (?,?)")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if _, err := repo.CreateCustomer(context.Background(), model.Account{
		Username:     "ana",
		Email:        "ana@example.com",
		PasswordHash: "hashed",
	}, "Ana Tran"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+accountColumns+" FROM accounts WHERE username=? LIMIT 1")).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "phone", "password_hash", "role", "is_active", "created_at", "updated_at",
		}).AddRow(11, "ana", "ana@example.com", nil, "hashed", "CUSTOMER", true, now, now))

	a, err := repo.GetByUsername(context.Background(), "ana")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.ID != 11 || a.Role != model.RoleCustomer || !a.IsActive {
		t.Fatalf("unexpected account: %+v", a)
	}
}

func TestUpdatePasswordHashRequiresRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAccountRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE accounts SET password_hash=? WHERE id=?")).
		WithArgs("new-hash", uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdatePasswordHash(context.Background(), 99, "new-hash"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
