package repo

import (
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// OrderFilter narrows an order listing. Nil fields are not applied.
type OrderFilter struct {
	Since  *time.Time
	Until  *time.Time
	Offset *int
	Limit  *int
}

type OrderRepository interface {
	Create(order models.Order) (models.Order, error)
	GetByID(orderID string) (models.Order, error)
	// List returns the newest orders first and the total matching count.
	List(of OrderFilter) ([]models.Order, int, error)
}
