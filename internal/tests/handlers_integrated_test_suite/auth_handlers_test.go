//go:build integration

package handlers_integrated_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	handler "github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-crm/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

func runWithVisitorCleanup(t *testing.T, name string, testFunc func(t *testing.T)) {
	t.Run(name, func(t *testing.T) {
		rl.CleanupAllVisitors()
		testFunc(t)
	})
}

func TestAuthFlow(t *testing.T) {
	t.Cleanup(clearAllUsersExceptAdmin)
	r := api.NewRouter()

	runWithVisitorCleanup(t, "Register then login", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "shopper", Password: "password123"})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		w = doJSON(r, http.MethodPost, "/register", handler.CredentialsRequest{Username: "shopper", Password: "password123"})
		if w.Code != http.StatusConflict {
			t.Errorf("expected 409 Conflict, got %d", w.Code)
		}

		if _, err := generateToken(r, "shopper", "password123"); err != nil {
			t.Errorf("expected login to succeed: %v", err)
		}
	})

	runWithVisitorCleanup(t, "Protected route without token is rejected", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/products", handler.ProductRequest{Name: "AuthBox", Price: 999})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 Unauthorized, got %d", w.Code)
		}
	})

	runWithVisitorCleanup(t, "Refresh rotates the token", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/login", handler.UserLogin{Username: "admin", Password: "secret"})
		var first handler.LoginResult
		json.NewDecoder(w.Body).Decode(&first)

		w = doJSON(r, http.MethodPost, "/refresh", handler.RefreshRequest{RefreshToken: first.RefreshToken})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		w = doJSON(r, http.MethodPost, "/refresh", handler.RefreshRequest{RefreshToken: first.RefreshToken})
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for a used token, got %d", w.Code)
		}
	})

	runWithVisitorCleanup(t, "Admin creates users with a role", func(t *testing.T) {
		req := handler.RegisterAsAdminRequest{Username: "ops", Password: "password123", Role: models.RoleAdmin}
		if w := authed(r, http.MethodPost, "/admin/users", req); w.Code != http.StatusCreated {
			t.Fatalf("expected 201 Created, got %d", w.Code)
		}
		u, err := userRepo.GetByUsername("ops")
		if err != nil || u.Role != models.RoleAdmin {
			t.Errorf("expected an admin user, got %+v (%v)", u, err)
		}

		opsToken, err := generateToken(r, "ops", "password123")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		req = handler.RegisterAsAdminRequest{Username: "viewer", Password: "password123", Role: models.RoleUser}
		w := doJSON(r, http.MethodPost, "/admin/users", req, "Authorization", "Bearer "+opsToken)
		if w.Code != http.StatusCreated {
			t.Errorf("expected 201 Created, got %d", w.Code)
		}
	})
}
