package models

import "time"

// UserRole enumerates login account roles.
type UserRole string

const (
	UserRoleStaff    UserRole = "staff"
	UserRoleCustomer UserRole = "customer"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	return r == UserRoleStaff || r == UserRoleCustomer
}

// User represents a login-capable account, either a staff member or a
// customer portal login linked from Customer.UserID.
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}
