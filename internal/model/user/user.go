// Package user holds the account records managed by the HR backend.
package user

import "slices"

// Role gates which pages and operations a user may reach.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// Roles lists every known role.
var Roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// In reports whether r is one of allowed.
func (r Role) In(allowed ...Role) bool {
	return slices.Contains(allowed, r)
}

// User is the account record returned by the backend. Passwords never leave it.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// CreateUser is the admin form for a new account.
type CreateUser struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=employee manager hr admin"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UpdateUser carries a partial update; nil fields are left unchanged.
type UpdateUser struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=employee manager hr admin"`
	IsActive *bool   `json:"is_active,omitempty"`
}
