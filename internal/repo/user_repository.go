package repo

import "github.com/rogerio-castellano/storefront-crm/internal/models"

// UserRepository stores the staff accounts that sign in to the storefront
// dashboard. The role saved here ends up in the JWT and is what RequireRole
// checks on /admin/users.
type UserRepository interface {
	// GetByUsername returns ErrUserNotFound for an unknown name.
	GetByUsername(username string) (models.User, error)
	// CreateUser returns ErrDuplicatedValueUnique when the username is taken
	// and ErrInvalidRole for a role outside models.RoleAdmin and models.RoleUser.
	CreateUser(u models.User) (models.User, error)
}
