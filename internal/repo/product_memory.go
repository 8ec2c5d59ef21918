package repo

import (
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

func (r *InMemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products), nil
}

func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) index(id int) int {
	return slices.IndexFunc(r.products, func(p models.Product) bool { return p.ID == id })
}

func (r *InMemoryProductRepository) Update(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(product.ID)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	product.CreatedAt = r.products[i].CreatedAt
	r.products[i] = product
	return product, nil
}

func (r *InMemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return ErrProductNotFound
	}
	r.products = append(r.products[:i], r.products[i+1:]...)
	return nil
}

func (r *InMemoryProductRepository) AdjustStock(id int, delta int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return models.Product{}, ErrProductNotFound
	}
	if r.products[i].Stock+delta < 0 {
		return models.Product{}, ErrInsufficientStock
	}
	r.products[i].Stock += delta
	r.products[i].UpdatedAt = time.Now().UTC()
	return r.products[i], nil
}

func (r *InMemoryProductRepository) Upsert(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.index(product.ID); i >= 0 {
		r.products[i] = product
		return product, nil
	}
	r.products = append(r.products, product)
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	return product, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	r.nextID = 1
}
