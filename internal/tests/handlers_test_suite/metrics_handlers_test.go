package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	handler "github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
)

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	if w := doJSON(r, http.MethodGet, "/metrics/dashboard", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}

	seedCustomers(r)
	seedCatalog()
	p := seedProduct(models.Product{Name: "Mug", Price: 100, Stock: 5})
	session := newSession(r)
	addToCart(r, session, handler.CartItemRequest{ProductID: p.ID, Quantity: 2})
	if w := inSession(r, session, http.MethodPost, "/checkout", validCheckout()); w.Code != http.StatusCreated {
		t.Fatalf("checkout failed: %d", w.Code)
	}

	w := authed(r, http.MethodGet, "/metrics/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var m repo.Metrics
	if err := json.NewDecoder(w.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}

	if m.Customers.Total != 3 {
		t.Errorf("expected 3 customers, got %d", m.Customers.Total)
	}
	if m.Customers.ByStatus["active"] != 2 || m.Customers.ByStatus["inactive"] != 1 || m.Customers.ByStatus["pending"] != 0 {
		t.Errorf("unexpected status counts %v", m.Customers.ByStatus)
	}
	if m.Customers.TotalRevenue != 9000 {
		t.Errorf("expected revenue 9000, got %v", m.Customers.TotalRevenue)
	}
	if m.Customers.TopCompany.Name != "Acme" || m.Customers.TopCompany.CustomerCount != 2 {
		t.Errorf("expected Acme as top company, got %+v", m.Customers.TopCompany)
	}
	if m.Products.Total != 5 || m.Products.OutOfStock != 1 {
		t.Errorf("unexpected product metrics %+v", m.Products)
	}
	if m.Orders.Total != 1 || m.Orders.Revenue != 225.99 {
		t.Errorf("unexpected order metrics %+v", m.Orders)
	}
}
