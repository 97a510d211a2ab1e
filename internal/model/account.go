package model

import "time"

// Role is the authorization scope of an account. Roles are a fixed
// enumeration stored directly on the accounts row; they are never
// created or mutated at runtime.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// Account mirrors the `accounts` table. The password is only ever
// stored as a bcrypt hash and never serialized. Username, email and
// phone are unique at the schema level; the repository translates
// duplicate-key errors into conflict sentinels.
type Account struct {
	ID           uint64    `json:"id"`        // accounts.id
	Username     string    `json:"username"`  // accounts.username
	Email        string    `json:"email"`     // accounts.email
	Phone        *string   `json:"phone"`     // accounts.phone (nullable)
	PasswordHash string    `json:"-"`         // accounts.password_hash
	Role         Role      `json:"role"`      // accounts.role
	IsActive     bool      `json:"isActive"`  // accounts.is_active
	CreatedAt    time.Time `json:"createdAt"` // accounts.created_at
	UpdatedAt    time.Time `json:"updatedAt"` // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` ledger. The
// plain token is never stored; only its SHA-256 hash. Rotation marks
// the old row consumed and inserts a new one, so prior values of a
// session remain on record.
type RefreshToken struct {
	ID         uint64     // refresh_tokens.id
	AccountID  uint64     // refresh_tokens.account_id
	TokenHash  string     // refresh_tokens.token_hash
	ExpiresAt  time.Time  // refresh_tokens.expires_at
	ConsumedAt *time.Time // refresh_tokens.consumed_at (nullable)
	CreatedAt  time.Time  // refresh_tokens.created_at
}
