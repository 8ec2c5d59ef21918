package catalog

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
)

// Source is anything that can list upstream products.
type Source interface {
	List(ctx context.Context, limit int) ([]models.Product, error)
}

// Seed upserts the first limit upstream products, keeping their ids.
func Seed(ctx context.Context, src Source, products repo.ProductRepository, limit int) (int, error) {
	list, err := src.List(ctx, limit)
	if err != nil {
		return 0, err
	}
	for _, p := range list {
		if _, err := products.Upsert(p); err != nil {
			return 0, fmt.Errorf("failed to seed product %d: %w", p.ID, err)
		}
	}
	return len(list), nil
}
