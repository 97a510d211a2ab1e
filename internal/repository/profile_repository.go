package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/haichau/electrostore/internal/model"
)

// ProfileRepo reads and updates the role-specific profile rows joined
// with their account. Staff listings page over these views.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// CustomerView is a customer profile joined with its account fields.
type CustomerView struct {
	CustomerID uint64     `json:"customerId"`
	AccountID  uint64     `json:"accountId"`
	FullName   string     `json:"fullName"`
	Address    *string    `json:"address"`
	BirthDate  *time.Time `json:"birthDate"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone"`
	IsActive   bool       `json:"isActive"`
}

// EmployeeView is an employee profile joined with its account fields.
type EmployeeView struct {
	EmployeeID uint64     `json:"employeeId"`
	AccountID  uint64     `json:"accountId"`
	FullName   string     `json:"fullName"`
	Address    *string    `json:"address"`
	Position   *string    `json:"position"`
	Salary     *float64   `json:"salary"`
	HireDate   *time.Time `json:"hireDate"`
	BirthDate  *time.Time `json:"birthDate"`
	Email      string     `json:"email"`
	Phone      *string    `json:"phone"`
	IsActive   bool       `json:"isActive"`
}

// Page wraps a listing page of profile views.
type Page[T any] struct {
	TotalItems int `json:"totalItems"`
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	Items      []T `json:"items"`
}

func pageBounds(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}

const customerSelect = `SELECT c.id, c.account_id, c.full_name, c.address, c.birth_date,
	a.email, a.phone, a.is_active
	FROM customers c JOIN accounts a ON a.id = c.account_id`

func scanCustomer(rows *sql.Rows) (CustomerView, error) {
	var v CustomerView
	err := rows.Scan(&v.CustomerID, &v.AccountID, &v.FullName, &v.Address, &v.BirthDate,
		&v.Email, &v.Phone, &v.IsActive)
	return v, err
}

// ListCustomers returns one page of customers, newest first.
func (r *ProfileRepo) ListCustomers(ctx context.Context, page, pageSize int) (Page[CustomerView], error) {
	page, pageSize = pageBounds(page, pageSize)
	out := Page[CustomerView]{PageNumber: page, PageSize: pageSize, Items: []CustomerView{}}
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&out.TotalItems); err != nil {
		return out, err
	}
	out.TotalPages = (out.TotalItems + pageSize - 1) / pageSize

	rows, err := r.DB.QueryContext(ctx,
		customerSelect+" ORDER BY c.id DESC LIMIT ? OFFSET ?",
		pageSize, (page-1)*pageSize)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanCustomer(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, v)
	}
	return out, rows.Err()
}

// GetCustomer fetches a customer view by customer id.
func (r *ProfileRepo) GetCustomer(ctx context.Context, id uint64) (CustomerView, error) {
	var v CustomerView
	err := r.DB.QueryRowContext(ctx, customerSelect+" WHERE c.id=? LIMIT 1", id).
		Scan(&v.CustomerID, &v.AccountID, &v.FullName, &v.Address, &v.BirthDate,
			&v.Email, &v.Phone, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

// GetCustomerByAccount fetches the customer view owned by an account.
func (r *ProfileRepo) GetCustomerByAccount(ctx context.Context, accountID uint64) (CustomerView, error) {
	var v CustomerView
	err := r.DB.QueryRowContext(ctx, customerSelect+" WHERE c.account_id=? LIMIT 1", accountID).
		Scan(&v.CustomerID, &v.AccountID, &v.FullName, &v.Address, &v.BirthDate,
			&v.Email, &v.Phone, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

// SearchCustomersByPhone returns customers whose account phone matches
// exactly.
func (r *ProfileRepo) SearchCustomersByPhone(ctx context.Context, phone string) ([]CustomerView, error) {
	rows, err := r.DB.QueryContext(ctx, customerSelect+" WHERE a.phone=?", phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CustomerView
	for rows.Next() {
		v, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateCustomerProfile overwrites the profile fields a customer may
// edit about themselves, addressed by account id.
func (r *ProfileRepo) UpdateCustomerProfile(ctx context.Context, accountID uint64, p model.CustomerProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE customers SET full_name=?, address=?, birth_date=? WHERE account_id=?",
		p.FullName, p.Address, p.BirthDate, accountID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

const employeeSelect = `SELECT e.id, e.account_id, e.full_name, e.address, e.position,
	e.salary, e.hire_date, e.birth_date, a.email, a.phone, a.is_active
	FROM employees e JOIN accounts a ON a.id = e.account_id`

func scanEmployee(rows *sql.Rows) (EmployeeView, error) {
	var v EmployeeView
	err := rows.Scan(&v.EmployeeID, &v.AccountID, &v.FullName, &v.Address, &v.Position,
		&v.Salary, &v.HireDate, &v.BirthDate, &v.Email, &v.Phone, &v.IsActive)
	return v, err
}

// ListEmployees returns one page of employees, newest first.
func (r *ProfileRepo) ListEmployees(ctx context.Context, page, pageSize int) (Page[EmployeeView], error) {
	page, pageSize = pageBounds(page, pageSize)
	out := Page[EmployeeView]{PageNumber: page, PageSize: pageSize, Items: []EmployeeView{}}
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees").Scan(&out.TotalItems); err != nil {
		return out, err
	}
	out.TotalPages = (out.TotalItems + pageSize - 1) / pageSize

	rows, err := r.DB.QueryContext(ctx,
		employeeSelect+" ORDER BY e.id DESC LIMIT ? OFFSET ?",
		pageSize, (page-1)*pageSize)
	if err != nil {
		return out, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanEmployee(rows)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, v)
	}
	return out, rows.Err()
}

// GetEmployee fetches an employee view by employee id.
func (r *ProfileRepo) GetEmployee(ctx context.Context, id uint64) (EmployeeView, error) {
	var v EmployeeView
	err := r.DB.QueryRowContext(ctx, employeeSelect+" WHERE e.id=? LIMIT 1", id).
		Scan(&v.EmployeeID, &v.AccountID, &v.FullName, &v.Address, &v.Position,
			&v.Salary, &v.HireDate, &v.BirthDate, &v.Email, &v.Phone, &v.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return v, ErrNotFound
	}
	return v, err
}

// SearchEmployeesByPhone returns employees whose account phone matches
// exactly.
func (r *ProfileRepo) SearchEmployeesByPhone(ctx context.Context, phone string) ([]EmployeeView, error) {
	rows, err := r.DB.QueryContext(ctx, employeeSelect+" WHERE a.phone=?", phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []EmployeeView
	for rows.Next() {
		v, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateEmployeeProfile overwrites the staff-editable profile fields
// of an employee, addressed by employee id.
func (r *ProfileRepo) UpdateEmployeeProfile(ctx context.Context, id uint64, p model.EmployeeProfile) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE employees SET full_name=?, address=?, position=?, salary=?, hire_date=?, birth_date=? WHERE id=?",
		p.FullName, p.Address, p.Position, p.Salary, p.HireDate, p.BirthDate, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
