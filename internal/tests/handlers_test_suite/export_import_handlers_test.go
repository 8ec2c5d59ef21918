package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	handler "github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

func TestExportCustomersHandler_CSV(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	seedCustomers(r)

	w := doJSON(r, http.MethodGet, "/customers/export?status=active&sort=first_name&order=desc", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "customers-export-") || !strings.Contains(cd, ".csv") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}

	lines := strings.Split(w.Body.String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,First Name,Last Name,Email") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Carol"`) || !strings.Contains(lines[2], `"Alice"`) {
		t.Errorf("expected Carol then Alice, got %q / %q", lines[1], lines[2])
	}
}

func TestExportCustomersHandler_SelectedIDs(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	seedCustomers(r)

	w := doJSON(r, http.MethodGet, "/customers/export?ids=2,3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, `"Alice"`) || !strings.Contains(body, `"Bob"`) || !strings.Contains(body, `"Carol"`) {
		t.Errorf("unexpected export body: %s", body)
	}

	if w := doJSON(r, http.MethodGet, "/customers/export?ids=x", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad ids, got %d", w.Code)
	}
}

func TestExportCustomersHandler_PDF(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	seedCustomers(r)

	w := doJSON(r, http.MethodGet, "/customers/export?format=pdf", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("expected a PDF document")
	}

	if w := doJSON(r, http.MethodGet, "/customers/export?format=xlsx", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", w.Code)
	}
}

const importHeader = "First Name,Last Name,Email,Phone,Company,Position,Status,Revenue,Street,City,State,Zip Code"

func importCustomers(r http.Handler, mode, csvData string) *httptest.ResponseRecorder {
	buf, contentType := multipartCSV(csvData, "customers.csv")
	req := httptest.NewRequest(http.MethodPost, "/customers/import?mode="+mode, buf)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestImportCustomersHandler(t *testing.T) {
	r := api.NewRouter()

	t.Run("Valid and invalid rows", func(t *testing.T) {
		t.Cleanup(clearAll)
		csvData := importHeader + `
Dana,Smith,dana@initech.com,555-0101,Initech,CTO,active,2500,"2 Elm St, Suite 4",Austin,TX,73301
Eve,Smith,not-an-email,555-0102,Initech,CEO,active,100,3 Elm St,Austin,TX,73301
Frank,Smith,frank@initech.com,555-0103,Initech,CFO,,abc,4 Elm St,Austin,TX,73301`

		w := importCustomers(r, "skip", csvData)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
		}
		var resp handler.ImportCustomersResult
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Created != 1 {
			t.Errorf("expected 1 created, got %d", resp.Created)
		}
		if len(resp.Errors) != 2 {
			t.Fatalf("expected 2 errors, got %v", resp.Errors)
		}
		if !strings.HasPrefix(resp.Errors[0].Description, "row 3:") {
			t.Errorf("expected row 3 error, got %q", resp.Errors[0].Description)
		}
		if !strings.Contains(resp.Errors[1].Description, "Revenue must be a number") {
			t.Errorf("expected revenue error, got %q", resp.Errors[1].Description)
		}

		c, err := customerRepo.GetByEmail("dana@initech.com")
		if err != nil {
			t.Fatalf("expected Dana to be imported: %v", err)
		}
		if c.Address.Street != "2 Elm St, Suite 4" {
			t.Errorf("expected quoted street to survive, got %q", c.Address.Street)
		}
	})

	t.Run("Existing email is skipped or updated", func(t *testing.T) {
		t.Cleanup(clearAll)
		mustCreateCustomer(r, customerRequest("Dana", "dana@initech.com", "Initech", "pending", 10))
		csvData := importHeader + `
Dana,Smith,DANA@initech.com,555-0101,Initech,CTO,active,2500,2 Elm St,Austin,TX,73301`

		w := importCustomers(r, "skip", csvData)
		var resp handler.ImportCustomersResult
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Skipped != 1 || resp.Created != 0 {
			t.Errorf("expected 1 skipped, got %+v", resp)
		}

		w = importCustomers(r, "update", csvData)
		resp = handler.ImportCustomersResult{}
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Updated != 1 {
			t.Errorf("expected 1 updated, got %+v", resp)
		}
		c, _ := customerRepo.GetByEmail("dana@initech.com")
		if c.Revenue != 2500 || c.Status != models.StatusActive || c.Position != "CTO" {
			t.Errorf("expected customer to be updated, got %+v", c)
		}
	})

	t.Run("Missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers/import", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Header without email", func(t *testing.T) {
		w := importCustomers(r, "skip", "First Name,Last Name\nA,B")
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()
	seedCustomers(r)

	w := doJSON(r, http.MethodGet, "/customers/export", nil)
	exported := w.Body.String()
	customerRepo.Clear()

	w = importCustomers(r, "skip", exported)
	var resp handler.ImportCustomersResult
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Created != 3 || len(resp.Errors) != 0 {
		t.Fatalf("expected 3 created without errors, got %+v", resp)
	}
	if got := listCustomers(t, r, "?company=acme"); got.Meta.TotalCount != 2 {
		t.Errorf("expected 2 Acme customers, got %d", got.Meta.TotalCount)
	}
}
