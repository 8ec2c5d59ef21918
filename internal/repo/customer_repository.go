package repo

import "github.com/rogerio-castellano/storefront-crm/internal/models"

// CustomerRepository defines the interface for customer data operations.
type CustomerRepository interface {
	Create(customer models.Customer) (models.Customer, error)
	GetAll() ([]models.Customer, error)
	GetByID(id int) (models.Customer, error)
	GetByEmail(email string) (models.Customer, error)
	Update(customer models.Customer) (models.Customer, error)
	Delete(id int) error
	// DeleteMany removes the given ids and returns how many existed.
	DeleteMany(ids []int) (int, error)
	// SetStatus changes the status of the given ids and returns how many existed.
	SetStatus(ids []int, status models.CustomerStatus) (int, error)
}
