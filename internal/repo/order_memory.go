package repo

import (
	"slices"
	"sync"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type InMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: []models.Order{},
	}
}

func (r *InMemoryOrderRepository) Create(order models.Order) (models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderID == order.OrderID {
			return models.Order{}, ErrDuplicatedValueUnique
		}
	}
	order.Items = slices.Clone(order.Items)
	r.orders = append(r.orders, order)
	return order, nil
}

func (r *InMemoryOrderRepository) GetByID(orderID string) (models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.OrderID == orderID {
			return o, nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

func (r *InMemoryOrderRepository) List(of OrderFilter) ([]models.Order, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Order{}
	for i := len(r.orders) - 1; i >= 0; i-- {
		o := r.orders[i]
		if (of.Since != nil && o.CreatedAt.Before(*of.Since)) ||
			(of.Until != nil && o.CreatedAt.After(*of.Until)) {
			continue
		}
		filtered = append(filtered, o)
	}

	start := 0
	if of.Offset != nil {
		start = clamp(*of.Offset, 0, len(filtered))
	}

	limit := defaultOrderLimit
	if of.Limit != nil && *of.Limit > 0 {
		limit = min(*of.Limit, defaultOrderLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func (r *InMemoryOrderRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = []models.Order{}
}
