package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/haichau/electrostore/internal/model"
)

// AccountRepo persists accounts and their role-specific profile rows.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = "id,username,email,phone,password_hash,role,is_active,created_at,updated_at"

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Phone, &a.PasswordHash,
		&a.Role, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// CreateCustomer inserts an account with the CUSTOMER role and its
// customer profile row in one transaction, so a failed profile insert
// never leaves an orphaned account behind. It returns the new account
// id, or a uniqueness sentinel when username, email or phone is taken.
func (r *AccountRepo) CreateCustomer(ctx context.Context, a model.Account, fullName string) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO accounts (username, email, phone, password_hash, role) VALUES (?,?,?,?,?)",
		strings.TrimSpace(a.Username), normalizeEmail(a.Email), a.Phone, a.PasswordHash, model.RoleCustomer)
	if err != nil {
		return 0, translateDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO customers (account_id, full_name) VALUES (?,?)",
		uint64(id), fullName); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(id), nil
}

// CreateEmployee inserts an EMPLOYEE account plus its employee profile
// row in one transaction and returns the new employee id.
func (r *AccountRepo) CreateEmployee(ctx context.Context, a model.Account, p model.EmployeeProfile) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO accounts (username, email, phone, password_hash, role) VALUES (?,?,?,?,?)",
		strings.TrimSpace(a.Username), normalizeEmail(a.Email), a.Phone, a.PasswordHash, model.RoleEmployee)
	if err != nil {
		return 0, translateDuplicate(err)
	}
	accountID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	res, err = tx.ExecContext(ctx,
		"INSERT INTO employees (account_id, full_name, address, position, salary, hire_date, birth_date) VALUES (?,?,?,?,?,?,?)",
		uint64(accountID), p.FullName, p.Address, p.Position, p.Salary, p.HireDate, p.BirthDate)
	if err != nil {
		return 0, err
	}
	employeeID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uint64(employeeID), nil
}

// GetByUsername fetches an account by its exact username.
func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// GetByEmail fetches an account by normalized email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1",
		normalizeEmail(email)))
}

// GetByID fetches an account by id.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (model.Account, error) {
	return scanAccount(r.DB.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id))
}

// UpdatePasswordHash replaces the stored hash for an account.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET password_hash=? WHERE id=?", hash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateContact updates the mutable contact fields of an account.
// Uniqueness violations on email or phone surface as sentinels.
func (r *AccountRepo) UpdateContact(ctx context.Context, id uint64, email string, phone *string, isActive bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE accounts SET email=?, phone=?, is_active=? WHERE id=?",
		normalizeEmail(email), phone, isActive, id)
	if err != nil {
		return translateDuplicate(err)
	}
	return requireRow(res)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// requireRow converts a zero-row UPDATE/DELETE into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
