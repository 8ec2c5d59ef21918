package repo

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// InMemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers []models.Customer
	nextID    int
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: []models.Customer{},
		nextID:    1,
	}
}

func (r *InMemoryCustomerRepository) emailTaken(email string, exceptID int) bool {
	for _, c := range r.customers {
		if c.ID != exceptID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func (r *InMemoryCustomerRepository) Create(customer models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(customer.Email, 0) {
		return models.Customer{}, ErrDuplicatedValueUnique
	}
	customer.ID = r.nextID
	r.nextID++
	customer.Tags = slices.Clone(customer.Tags)
	r.customers = append(r.customers, customer)
	return customer, nil
}

// GetAll returns a copy of every customer in insertion order.
func (r *InMemoryCustomerRepository) GetAll() ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.customers), nil
}

func (r *InMemoryCustomerRepository) GetByID(id int) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) GetByEmail(email string) (models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Update(customer models.Customer) (models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.ID != customer.ID {
			continue
		}
		if r.emailTaken(customer.Email, customer.ID) {
			return models.Customer{}, ErrDuplicatedValueUnique
		}
		customer.DateCreated = c.DateCreated
		customer.Tags = slices.Clone(customer.Tags)
		r.customers[i] = customer
		return customer, nil
	}
	return models.Customer{}, ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.customers {
		if c.ID == id {
			r.customers = append(r.customers[:i], r.customers[i+1:]...)
			return nil
		}
	}
	return ErrCustomerNotFound
}

func (r *InMemoryCustomerRepository) DeleteMany(ids []int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.customers)
	r.customers = slices.DeleteFunc(r.customers, func(c models.Customer) bool {
		return slices.Contains(ids, c.ID)
	})
	return before - len(r.customers), nil
}

func (r *InMemoryCustomerRepository) SetStatus(ids []int, status models.CustomerStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	n := 0
	for i := range r.customers {
		if slices.Contains(ids, r.customers[i].ID) {
			r.customers[i].Status = status
			r.customers[i].LastUpdated = now
			n++
		}
	}
	return n, nil
}

func (r *InMemoryCustomerRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = []models.Customer{}
	r.nextID = 1
}
