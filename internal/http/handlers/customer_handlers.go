package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	"github.com/rogerio-castellano/storefront-crm/internal/view"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

func (req CustomerRequest) toModel() models.Customer {
	status := models.CustomerStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if status == "" {
		status = models.StatusPending
	}
	c := models.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		Position:  strings.TrimSpace(req.Position),
		Status:    status,
		Address: models.Address{
			Street:  strings.TrimSpace(req.Address.Street),
			City:    strings.TrimSpace(req.Address.City),
			State:   strings.TrimSpace(req.Address.State),
			ZipCode: strings.TrimSpace(req.Address.ZipCode),
		},
		Tags: req.Tags,
	}
	if req.Revenue != nil {
		c.Revenue = *req.Revenue
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c
}

func (p CustomerPatchRequest) apply(c models.Customer) models.Customer {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.FirstName, p.FirstName)
	set(&c.LastName, p.LastName)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Company, p.Company)
	set(&c.Position, p.Position)
	if p.Status != nil {
		c.Status = models.CustomerStatus(strings.ToLower(strings.TrimSpace(*p.Status)))
	}
	if p.Address != nil {
		c.Address = models.Address{
			Street:  strings.TrimSpace(p.Address.Street),
			City:    strings.TrimSpace(p.Address.City),
			State:   strings.TrimSpace(p.Address.State),
			ZipCode: strings.TrimSpace(p.Address.ZipCode),
		}
	}
	if p.Revenue != nil {
		c.Revenue = *p.Revenue
	}
	if p.Tags != nil {
		c.Tags = slices.Clone(*p.Tags)
	}
	return c
}

// filteredCustomers loads every customer and applies filter and sort.
func filteredCustomers(f view.CustomerFilter, sort view.SortState) ([]models.Customer, error) {
	all, err := customerRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return view.Sort(view.Filter(all, f.Predicates()...), sort, view.CustomerComparators), nil
}

// GetCustomersHandler godoc
// @Summary List customers
// @Description Filters, sorts and paginates the customer list. A stale view_key resets the page to 1.
// @Tags customers
// @Produce json
// @Param search query string false "Matches first name, last name or email"
// @Param status query string false "active, inactive, pending or all"
// @Param company query string false "Company substring"
// @Param date_from query string false "Created on or after (YYYY-MM-DD)"
// @Param date_to query string false "Created on or before (YYYY-MM-DD)"
// @Param revenue_min query number false "Minimum revenue"
// @Param revenue_max query number false "Maximum revenue"
// @Param tags query string false "Comma separated tags, any of"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param view_key query string false "Key returned by the previous page"
// @Success 200 {object} CustomersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /customers [get]
func GetCustomersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := customerFilterFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sort, err := sortFromQuery(q, view.CustomerComparators)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	customers, err := customerRepo.GetAll()
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch customers")
		http.Error(w, "could not fetch customers", http.StatusInternalServerError)
		return
	}

	page, key, err := pageQuery[models.Customer](q, customers, filter, sort, view.CustomerComparators)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respond(w, http.StatusOK, CustomersSearchResult{Data: page.Rows, Meta: listMeta(page, key)})
}

// GetCustomerByIDHandler godoc
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /customers/{id} [get]
func GetCustomerByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	c, err := customerRepo.GetByID(id)
	if err != nil {
		writeCustomerError(w, err, "could not fetch customer")
		return
	}
	respond(w, http.StatusOK, c)
}

// CreateCustomerHandler godoc
// @Summary Create a customer
// @Description Every field is required; status defaults to pending
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} models.Customer
// @Failure 400 {array} ValidationError
// @Failure 409 {string} string "Email already in use"
// @Router /customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	c := req.toModel()
	if errs := validateCustomer(c, req.Revenue != nil); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}

	now := time.Now().UTC()
	c.DateCreated = now
	c.LastUpdated = now
	created, err := customerRepo.Create(c)
	if err != nil {
		writeCustomerError(w, err, "could not create customer")
		return
	}
	respond(w, http.StatusCreated, created)
}

// UpdateCustomerHandler godoc
// @Summary Replace a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param customer body CustomerRequest true "Full customer record"
// @Success 200 {object} models.Customer
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Email already in use"
// @Router /customers/{id} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	existing, err := customerRepo.GetByID(id)
	if err != nil {
		writeCustomerError(w, err, "could not fetch customer")
		return
	}

	c := req.toModel()
	if errs := validateCustomer(c, req.Revenue != nil); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}
	c.ID = existing.ID
	c.DateCreated = existing.DateCreated
	saveCustomer(w, c)
}

// PatchCustomerHandler godoc
// @Summary Partially update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param customer body CustomerPatchRequest true "Fields to change"
// @Success 200 {object} models.Customer
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Router /customers/{id} [patch]
func PatchCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	var patch CustomerPatchRequest
	if err := readJSON(w, r, &patch); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	existing, err := customerRepo.GetByID(id)
	if err != nil {
		writeCustomerError(w, err, "could not fetch customer")
		return
	}

	c := patch.apply(existing)
	if errs := validateCustomer(c, true); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}
	saveCustomer(w, c)
}

func saveCustomer(w http.ResponseWriter, c models.Customer) {
	c.LastUpdated = time.Now().UTC()
	updated, err := customerRepo.Update(c)
	if err != nil {
		writeCustomerError(w, err, "could not update customer")
		return
	}
	respond(w, http.StatusOK, updated)
}

// DeleteCustomerHandler godoc
// @Summary Delete a customer
// @Tags customers
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 204
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /customers/{id} [delete]
func DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	if err := customerRepo.Delete(id); err != nil {
		writeCustomerError(w, err, "could not delete customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeCustomerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repo.ErrCustomerNotFound):
		http.Error(w, "customer not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		http.Error(w, "email already in use", http.StatusConflict)
	default:
		logx.Error().Err(err).Msg(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
