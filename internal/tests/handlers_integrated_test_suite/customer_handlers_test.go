//go:build integration

package handlers_integrated_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	handler "github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

func TestCustomerLifecycle(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	alice := mustCreateCustomer(r, customerRequest("Alice", "alice@acme.com", "Acme", "active", 1000))
	mustCreateCustomer(r, customerRequest("Bob", "bob@globex.com", "Globex", "inactive", 5000))
	mustCreateCustomer(r, customerRequest("Carol", "carol@acme.com", "Acme", "active", 3000))

	t.Run("Duplicate email is rejected case-insensitively", func(t *testing.T) {
		w := authed(r, http.MethodPost, "/customers", customerRequest("Al", "ALICE@acme.com", "Acme", "active", 1))
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 Conflict, got %d", w.Code)
		}
	})

	t.Run("Filter and sort", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/customers?company=acme&sort=revenue&order=desc", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var res handler.CustomersSearchResult
		json.NewDecoder(w.Body).Decode(&res)
		if res.Meta.TotalCount != 2 || len(res.Data) != 2 || res.Data[0].FirstName != "Carol" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("Patch persists tags", func(t *testing.T) {
		w := authed(r, http.MethodPatch, fmt.Sprintf("/customers/%d", alice.ID), handler.CustomerPatchRequest{Tags: &[]string{"enterprise", "renewal"}})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		stored, err := customerRepo.GetByID(alice.ID)
		if err != nil {
			t.Fatalf("failed to load customer: %v", err)
		}
		if len(stored.Tags) != 2 || stored.Tags[0] != "enterprise" {
			t.Errorf("expected tags to be stored, got %v", stored.Tags)
		}
	})

	t.Run("Bulk status on a filtered selection", func(t *testing.T) {
		req := handler.BulkStatusRequest{
			SelectionRequest: handler.SelectionRequest{All: true, Filter: handler.CustomerFilter{Company: "Acme"}},
			Status:           string(models.StatusInactive),
		}
		w := authed(r, http.MethodPost, "/customers/bulk/status", req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var res handler.BulkResult
		json.NewDecoder(w.Body).Decode(&res)
		if res.Affected != 2 {
			t.Errorf("expected 2 affected, got %d", res.Affected)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if w := authed(r, http.MethodDelete, fmt.Sprintf("/customers/%d", alice.ID), nil); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if w := doJSON(r, http.MethodGet, fmt.Sprintf("/customers/%d", alice.ID), nil); w.Code != http.StatusNotFound {
			t.Errorf("expected 404 after delete, got %d", w.Code)
		}
	})
}
