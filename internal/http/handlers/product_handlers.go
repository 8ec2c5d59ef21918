package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	"github.com/rogerio-castellano/storefront-crm/internal/view"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

func (req ProductRequest) toModel() models.Product {
	return models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      strings.TrimSpace(req.Category),
		Brand:         strings.TrimSpace(req.Brand),
		Rating:        req.Rating,
		ReviewCount:   req.ReviewCount,
		Stock:         req.Stock,
		Image:         req.Image,
		Thumbnail:     req.Thumbnail,
		Variants:      req.Variants,
	}
}

func (p ProductPatchRequest) apply(prod models.Product) models.Product {
	if p.Name != nil {
		prod.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		prod.OriginalPrice = p.OriginalPrice
	}
	if p.Category != nil {
		prod.Category = strings.TrimSpace(*p.Category)
	}
	if p.Brand != nil {
		prod.Brand = strings.TrimSpace(*p.Brand)
	}
	if p.Rating != nil {
		prod.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		prod.ReviewCount = *p.ReviewCount
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	if p.Thumbnail != nil {
		prod.Thumbnail = *p.Thumbnail
	}
	if p.Variants != nil {
		prod.Variants = *p.Variants
	}
	return prod
}

// GetProductsHandler godoc
// @Summary List products
// @Description Filters, sorts and paginates the catalog. A stale view_key resets the page to 1.
// @Tags products
// @Produce json
// @Param search query string false "Matches name or description"
// @Param category query string false "Exact category"
// @Param price_min query number false "Minimum price"
// @Param price_max query number false "Maximum price"
// @Param brands query string false "Comma separated brands, any of"
// @Param rating query number false "Minimum rating"
// @Param in_stock query bool false "Only products in stock"
// @Param sort query string false "name, price, rating, stock or newest"
// @Param order query string false "asc or desc"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Param view_key query string false "Key returned by the previous page"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /products [get]
func GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := productFilterFromQuery(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sort, err := sortFromQuery(q, view.ProductComparators)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := productRepo.GetAll()
	if err != nil {
		logx.Error().Err(err).Msg("failed to fetch products")
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}

	page, key, err := pageQuery[models.Product](q, products, filter, sort, view.ProductComparators)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := make([]ProductResponse, len(page.Rows))
	for i, p := range page.Rows {
		data[i] = productResponse(p)
	}
	respond(w, http.StatusOK, ProductsSearchResult{Data: data, Meta: listMeta(page, key)})
}

// GetCategoriesHandler godoc
// @Summary List product categories
// @Tags products
// @Produce json
// @Success 200 {array} string
// @Failure 500 {string} string "Internal error"
// @Router /products/categories [get]
func GetCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	products, err := productRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch products", http.StatusInternalServerError)
		return
	}
	categories := view.Categories(products)
	if categories == nil {
		categories = []string{}
	}
	respond(w, http.StatusOK, categories)
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /products/{id} [get]
func GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	p, err := productRepo.GetByID(id)
	if err != nil {
		writeProductError(w, err, "could not fetch product")
		return
	}
	respond(w, http.StatusOK, productResponse(p))
}

// CreateProductHandler godoc
// @Summary Create a new product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Router /products [post]
func CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	p := req.toModel()
	if errs := validateProduct(p); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	created, err := productRepo.Create(p)
	if err != nil {
		writeProductError(w, err, "could not create product")
		return
	}
	respond(w, http.StatusCreated, productResponse(created))
}

// UpdateProductHandler godoc
// @Summary Replace a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductRequest true "Full product"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [put]
func UpdateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	existing, err := productRepo.GetByID(id)
	if err != nil {
		writeProductError(w, err, "could not fetch product")
		return
	}

	p := req.toModel()
	if errs := validateProduct(p); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	saveProduct(w, p)
}

// PatchProductHandler godoc
// @Summary Partially update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductPatchRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} ValidationError
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [patch]
func PatchProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	var patch ProductPatchRequest
	if err := readJSON(w, r, &patch); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	existing, err := productRepo.GetByID(id)
	if err != nil {
		writeProductError(w, err, "could not fetch product")
		return
	}

	p := patch.apply(existing)
	if errs := validateProduct(p); len(errs) > 0 {
		respond(w, http.StatusBadRequest, errs)
		return
	}
	saveProduct(w, p)
}

func saveProduct(w http.ResponseWriter, p models.Product) {
	p.UpdatedAt = time.Now().UTC()
	updated, err := productRepo.Update(p)
	if err != nil {
		writeProductError(w, err, "could not update product")
		return
	}
	respond(w, http.StatusOK, productResponse(updated))
}

// DeleteProductHandler godoc
// @Summary Delete a product
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /products/{id} [delete]
func DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	if err := productRepo.Delete(id); err != nil {
		writeProductError(w, err, "could not delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchCatalogHandler godoc
// @Summary Search the upstream product catalog
// @Tags products
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} ProductResponse
// @Failure 400 {string} string "Missing query"
// @Failure 502 {string} string "Catalog unavailable"
// @Failure 503 {string} string "Catalog not configured"
// @Router /catalog/search [get]
func SearchCatalogHandler(w http.ResponseWriter, r *http.Request) {
	if catalogSearcher == nil {
		http.Error(w, "catalog not configured", http.StatusServiceUnavailable)
		return
	}
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		http.Error(w, "missing search term", http.StatusBadRequest)
		return
	}

	products, err := catalogSearcher.Search(r.Context(), term)
	if err != nil {
		logx.Error().Err(err).Str("q", term).Msg("catalog search failed")
		http.Error(w, "catalog unavailable", http.StatusBadGateway)
		return
	}
	data := make([]ProductResponse, len(products))
	for i, p := range products {
		data[i] = productResponse(p)
	}
	respond(w, http.StatusOK, data)
}

func writeProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, repo.ErrProductNotFound):
		http.Error(w, "product not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		http.Error(w, "product already exists", http.StatusConflict)
	default:
		logx.Error().Err(err).Msg(fallback)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
