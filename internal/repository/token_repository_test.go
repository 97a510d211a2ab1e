package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
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
	return db, mock
}

const tokenSelect = `SELECT account_id, expires_at, consumed_at FROM refresh_tokens WHERE token_hash=\? LIMIT 1`

func TestValidateActiveToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(tokenSelect).
		WithArgs("hash-a").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "expires_at", "consumed_at"}).
			AddRow(7, time.Now().UTC().Add(time.Hour), nil))

	id, err := repo.Validate(context.Background(), "hash-a")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id != 7 {
		t.Fatalf("account id = %d, want 7", id)
	}
}

func TestValidateRejectsConsumedAndExpired(t *testing.T) {
	now := time.Now().UTC()
	consumed := now.Add(-time.Minute)
	cases := []struct {
		name string
		rows func() *sqlmock.Rows
	}{
		{"consumed", func() *sqlmock.Rows {
			return sqlmock.NewRows([]string{"account_id", "expires_at", "consumed_at"}).
				AddRow(7, now.Add(time.Hour), consumed)
		}},
		{"expired", func() *sqlmock.Rows {
			return sqlmock.NewRows([]string{"account_id", "expires_at", "consumed_at"}).
				AddRow(7, now.Add(-time.Hour), nil)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewTokenRepo(db)

			mock.ExpectQuery(tokenSelect).WithArgs("h").WillReturnRows(tc.rows())

			if _, err := repo.Validate(context.Background(), "h"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestValidateRejectsUnknownToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectQuery(tokenSelect).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	if _, err := repo.Validate(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRotateConsumesOldAndInsertsNew(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	exp := time.Now().UTC().Add(24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET consumed_at=NOW() WHERE token_hash=? AND consumed_at IS NULL AND expires_at > NOW()")).
		WithArgs("old-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (account_id, token_hash, expires_at) VALUES (?,?,?)")).
		WithArgs(uint64(7), "new-hash", exp).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := repo.Rotate(context.Background(), "old-hash", "new-hash", 7, exp); err != nil {
		t.Fatalf("rotate: %v", err)
	}
}

func TestRotateFailsWhenOldTokenAlreadyConsumed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET consumed_at=NOW() WHERE token_hash=? AND consumed_at IS NULL AND expires_at > NOW()")).
		WithArgs("stale-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), "stale-hash", "new-hash", 7, time.Now().Add(time.Hour))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRevokeAllForAccount(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET consumed_at=NOW() WHERE account_id=? AND consumed_at IS NULL")).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllForAccount(context.Background(), 7); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
}
