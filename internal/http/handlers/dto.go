package handlers

import (
	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

// CustomerRequest is the body of POST and PUT /customers. Status defaults
// to pending.
type CustomerRequest struct {
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Company   string         `json:"company"`
	Position  string         `json:"position"`
	Status    string         `json:"status"`
	Address   AddressRequest `json:"address"`
	Revenue   *float64       `json:"revenue"`
	Tags      []string       `json:"tags"`
}

// CustomerPatchRequest is the body of PATCH /customers/{id}; nil fields are
// left unchanged.
type CustomerPatchRequest struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	Email     *string         `json:"email"`
	Phone     *string         `json:"phone"`
	Company   *string         `json:"company"`
	Position  *string         `json:"position"`
	Status    *string         `json:"status"`
	Address   *AddressRequest `json:"address"`
	Revenue   *float64        `json:"revenue"`
	Tags      *[]string       `json:"tags"`
}

type ListMeta struct {
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	PageCount  int    `json:"page_count"`
	ViewKey    string `json:"view_key"`
}

type CustomersSearchResult struct {
	Data []models.Customer `json:"data"`
	Meta ListMeta          `json:"meta"`
}

// SelectionRequest names the customers a bulk action applies to. With All
// set, every customer matching Filter is targeted and IDs is ignored.
type SelectionRequest struct {
	IDs    []int          `json:"ids"`
	All    bool           `json:"all"`
	Filter CustomerFilter `json:"filter"`
}

// CustomerFilter is the JSON form of the list query parameters.
type CustomerFilter struct {
	Search     string   `json:"search"`
	Status     string   `json:"status"`
	Company    string   `json:"company"`
	DateFrom   string   `json:"date_from"`
	DateTo     string   `json:"date_to"`
	RevenueMin *float64 `json:"revenue_min"`
	RevenueMax *float64 `json:"revenue_max"`
	Tags       []string `json:"tags"`
}

type BulkStatusRequest struct {
	SelectionRequest
	Status string `json:"status"`
}

type BulkResult struct {
	Affected int `json:"affected"`
}

type ImportCustomersResult struct {
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Skipped int               `json:"skipped"`
	Errors  []ValidationError `json:"errors"`
}

type ProductRequest struct {
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Price         float64                 `json:"price"`
	OriginalPrice *float64                `json:"original_price,omitempty"`
	Category      string                  `json:"category"`
	Brand         string                  `json:"brand"`
	Rating        float64                 `json:"rating"`
	ReviewCount   int                     `json:"review_count"`
	Stock         int                     `json:"stock"`
	Image         string                  `json:"image"`
	Thumbnail     string                  `json:"thumbnail"`
	Variants      []models.ProductVariant `json:"variants"`
}

type ProductPatchRequest struct {
	Name          *string                  `json:"name"`
	Description   *string                  `json:"description"`
	Price         *float64                 `json:"price"`
	OriginalPrice *float64                 `json:"original_price"`
	Category      *string                  `json:"category"`
	Brand         *string                  `json:"brand"`
	Rating        *float64                 `json:"rating"`
	ReviewCount   *int                     `json:"review_count"`
	Stock         *int                     `json:"stock"`
	Image         *string                  `json:"image"`
	Thumbnail     *string                  `json:"thumbnail"`
	Variants      *[]models.ProductVariant `json:"variants"`
}

type ProductResponse struct {
	models.Product
	InStock bool `json:"in_stock"`
}

func productResponse(p models.Product) ProductResponse {
	if p.Variants == nil {
		p.Variants = []models.ProductVariant{}
	}
	return ProductResponse{Product: p, InStock: p.InStock()}
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta ListMeta          `json:"meta"`
}

type CartItemRequest struct {
	ProductID int           `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Variant   *cart.Variant `json:"variant,omitempty"`
}

type CartQuantityRequest struct {
	Quantity int           `json:"quantity"`
	Variant  *cart.Variant `json:"variant,omitempty"`
}

type PromoRequest struct {
	Code string `json:"code"`
}

type CartResponse struct {
	SessionID string       `json:"session_id"`
	Items     []cart.Item  `json:"items"`
	Summary   cart.Summary `json:"summary"`
}

func cartResponse(sessionID string, c cart.Cart) CartResponse {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return CartResponse{SessionID: sessionID, Items: items, Summary: c.Summary()}
}

type WishlistItemRequest struct {
	ProductID int `json:"product_id"`
}

type WishlistResponse struct {
	SessionID string              `json:"session_id"`
	Items     []cart.WishlistItem `json:"items"`
	Count     int                 `json:"count"`
}

func wishlistResponse(sessionID string, w cart.Wishlist) WishlistResponse {
	items := w.Items
	if items == nil {
		items = []cart.WishlistItem{}
	}
	return WishlistResponse{SessionID: sessionID, Items: items, Count: w.Count()}
}

type OrdersSearchResult struct {
	Data []models.Order `json:"data"`
	Meta Meta           `json:"meta"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CredentialsRequest = UserLogin

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
