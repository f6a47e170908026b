package domain

import "time"

// Role gates access to the support and admin areas.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupport  Role = "support"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSupport, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may act on behalf of support.
func (r Role) Staff() bool {
	return r == RoleSupport || r == RoleAdmin
}

// User is a registered account.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	Phone            string    `json:"phone,omitempty"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserSummary is embedded in staff views of orders, invoices and tickets.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
