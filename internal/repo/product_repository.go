package repo

import "github.com/rogerio-castellano/storefront-crm/internal/models"

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetAll() ([]models.Product, error)
	GetByID(id int) (models.Product, error)
	Update(product models.Product) (models.Product, error)
	Delete(id int) error
	// AdjustStock adds delta to the stock, refusing to go below zero.
	AdjustStock(id int, delta int) (models.Product, error)
	// Upsert inserts the product keeping its id, or replaces an existing one.
	Upsert(product models.Product) (models.Product, error)
}
