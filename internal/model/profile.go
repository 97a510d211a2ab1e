package model

import "time"

// Profile data is a tagged union keyed by the account role: a
// CUSTOMER account owns exactly one CustomerProfile row, an EMPLOYEE
// account exactly one EmployeeProfile row, and an ADMIN account owns
// neither. Readers switch on Account.Role instead of joining both
// tables optionally.

// CustomerProfile mirrors the `customers` table.
type CustomerProfile struct {
	ID        uint64     // customers.id
	AccountID uint64     // customers.account_id
	FullName  string     // customers.full_name
	Address   *string    // customers.address (nullable)
	BirthDate *time.Time // customers.birth_date (nullable)
	CreatedAt time.Time  // customers.created_at
}

// EmployeeProfile mirrors the `employees` table.
type EmployeeProfile struct {
	ID        uint64     // employees.id
	AccountID uint64     // employees.account_id
	FullName  string     // employees.full_name
	Address   *string    // employees.address (nullable)
	Position  *string    // employees.position (nullable)
	Salary    *float64   // employees.salary (nullable)
	HireDate  *time.Time // employees.hire_date (nullable)
	BirthDate *time.Time // employees.birth_date (nullable)
	CreatedAt time.Time  // employees.created_at
}
