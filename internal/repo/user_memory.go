package repo

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// InMemoryUserRepository keeps staff accounts for tests and for running the
// dashboard without Postgres.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	seq   int
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: map[string]models.User{},
	}
}

func (r *InMemoryUserRepository) GetByUsername(username string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return models.User{}, ErrUserNotFound
}

// CreateUser stamps CreatedAt and UpdatedAt when the caller left them zero.
func (r *InMemoryUserRepository) CreateUser(u models.User) (models.User, error) {
	if !models.ValidRole(u.Role) {
		return models.User{}, ErrInvalidRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.users[u.Username]; taken {
		return models.User{}, ErrDuplicatedValueUnique
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	r.seq++
	u.ID = r.seq
	r.users[u.Username] = u
	return u, nil
}
