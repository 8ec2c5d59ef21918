package models

import "time"

// Staff roles. Admins manage accounts under /admin/users; both roles may
// edit the catalog and customer records. Shoppers never hold a User, they
// are tracked by cart session instead.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ValidRole reports whether role is one RequireRole can be asked for.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// User is a dashboard operator account.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
