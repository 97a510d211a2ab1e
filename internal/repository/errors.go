// Package repository implements plain-SQL data access for the store.
// Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting driver errors. Uniqueness conflicts are
// detected from the MySQL duplicate-key error (1062) raised by the
// schema constraints, not from a prior existence query, so concurrent
// inserts of the same email or phone cannot both succeed.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a requested entity does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists, ErrEmailExists and ErrPhoneExists signal a
// uniqueness conflict on the corresponding accounts column.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
	ErrPhoneExists    = errors.New("phone number already exists")
)

// ErrInsufficientStock is returned when a cart mutation would push a
// line's quantity above the product's stock.
var ErrInsufficientStock = errors.New("insufficient inventory")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as cancelling an order that already shipped.
var ErrConflict = errors.New("conflict")

const mysqlDupEntry = 1062

// translateDuplicate maps a MySQL duplicate-key error to the sentinel
// for the violated accounts constraint. Unrelated errors pass through
// unchanged.
func translateDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDupEntry {
		return err
	}
	switch {
	case strings.Contains(me.Message, "uq_accounts_username"):
		return ErrUsernameExists
	case strings.Contains(me.Message, "uq_accounts_email"):
		return ErrEmailExists
	case strings.Contains(me.Message, "uq_accounts_phone"):
		return ErrPhoneExists
	}
	return ErrConflict
}
