package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/auth"
	"github.com/rogerio-castellano/storefront-crm/internal/checkout"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
)

// CatalogSearcher queries the upstream product catalog.
type CatalogSearcher interface {
	Search(ctx context.Context, q string) ([]models.Product, error)
}

var (
	customerRepo repo.CustomerRepository
	productRepo  repo.ProductRepository
	userRepo     repo.UserRepository
	orderRepo    repo.OrderRepository
	metricsRepo  repo.MetricsRepository
	sessionStore repo.SessionStore

	refreshStore auth.RefreshStore = auth.NewMemoryRefreshStore()
	refreshTTL                     = 7 * 24 * time.Hour

	checkoutService *checkout.Service
	catalogSearcher CatalogSearcher
)

func SetCustomerRepo(r repo.CustomerRepository) {
	customerRepo = r
}

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetUserRepo(r repo.UserRepository) {
	userRepo = r
}

func SetOrderRepo(r repo.OrderRepository) {
	orderRepo = r
}

func SetMetricsRepo(r repo.MetricsRepository) {
	metricsRepo = r
}

func SetSessionStore(s repo.SessionStore) {
	sessionStore = s
}

func SetRefreshStore(s auth.RefreshStore, ttl time.Duration) {
	refreshStore = s
	if ttl > 0 {
		refreshTTL = ttl
	}
}

func SetCheckoutService(s *checkout.Service) {
	checkoutService = s
}

// SetCatalogSearcher enables GET /catalog/search. Nil disables it.
func SetCatalogSearcher(s CatalogSearcher) {
	catalogSearcher = s
}
