package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/rogerio-castellano/storefront-crm/internal/checkout"
	"github.com/rogerio-castellano/storefront-crm/internal/config"
	api "github.com/rogerio-castellano/storefront-crm/internal/http"
	handler "github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-crm/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/notify"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	"golang.org/x/crypto/bcrypt"
)

var (
	token        string
	customerRepo *repo.InMemoryCustomerRepository
	productRepo  *repo.InMemoryProductRepository
	orderRepo    *repo.InMemoryOrderRepository
	userRepo     *repo.InMemoryUserRepository
	sessionStore *repo.InMemorySessionStore
)

func init() {
	setupTestRepos("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	rl.CleanupAllVisitors()
}

func setupTestRepos(password string) {
	customerRepo = repo.NewInMemoryCustomerRepository()
	handler.SetCustomerRepo(customerRepo)

	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	orderRepo = repo.NewInMemoryOrderRepository()
	handler.SetOrderRepo(orderRepo)

	sessionStore = repo.NewInMemorySessionStore()
	handler.SetSessionStore(sessionStore)

	userRepo = repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(customerRepo, productRepo, orderRepo)
	handler.SetMetricsRepo(metricsRepo)

	notifier := notify.NewNotifier(notify.NewMailer(config.SMTPConfig{}), notify.NewMemorySalesLog(), "")
	handler.SetCheckoutService(checkout.NewService(productRepo, orderRepo, sessionStore, notifier))
}

func clearAll() {
	customerRepo.Clear()
	productRepo.Clear()
	orderRepo.Clear()
	sessionStore.Clear()
	rl.CleanupAllVisitors()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	resp, err := login(r, username, password)
	return resp.Token, err
}

func login(r http.Handler, username, password string) (handler.LoginResult, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	if w.Code != http.StatusOK {
		return resp, fmt.Errorf("login failed with %d", w.Code)
	}
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return resp, fmt.Errorf("token decoding failed: %v", err)
	}
	return resp, nil
}

func ptr[T any](v T) *T {
	return &v
}

func customerRequest(first, email, company, status string, revenue float64) handler.CustomerRequest {
	return handler.CustomerRequest{
		FirstName: first,
		LastName:  "Tester",
		Email:     email,
		Phone:     "555-0100",
		Company:   company,
		Position:  "Manager",
		Status:    status,
		Address: handler.AddressRequest{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62701",
		},
		Revenue: ptr(revenue),
		Tags:    []string{"vip"},
	}
}

func doJSON(r http.Handler, method, path string, payload any, headers ...string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authed(r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	return doJSON(r, method, path, payload, "Authorization", "Bearer "+token)
}

func createCustomer(r http.Handler, c handler.CustomerRequest) *httptest.ResponseRecorder {
	return authed(r, http.MethodPost, "/customers", c)
}

func mustCreateCustomer(r http.Handler, c handler.CustomerRequest) models.Customer {
	w := createCustomer(r, c)
	if w.Code != http.StatusCreated {
		panic(fmt.Sprintf("customer creation failed: %d %s", w.Code, w.Body.String()))
	}
	var created models.Customer
	json.NewDecoder(w.Body).Decode(&created)
	return created
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return authed(r, http.MethodPost, "/products", p)
}

// seedProduct stores a product directly, bypassing the API.
func seedProduct(p models.Product) models.Product {
	created, err := productRepo.Create(p)
	if err != nil {
		panic(err)
	}
	return created
}

func inSession(r http.Handler, session, method, path string, payload any) *httptest.ResponseRecorder {
	return doJSON(r, method, path, payload, handler.SessionHeader, session)
}

func newSession(r http.Handler) string {
	w := doJSON(r, http.MethodGet, "/cart", nil)
	return w.Header().Get(handler.SessionHeader)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
