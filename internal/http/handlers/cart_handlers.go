package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront-crm/internal/cart"
	"github.com/rogerio-castellano/storefront-crm/internal/models"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
)

func productIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "product_id"))
}

// lookupProduct writes the error response itself and reports false on failure.
func lookupProduct(w http.ResponseWriter, id int) (models.Product, bool) {
	p, err := productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
		} else {
			http.Error(w, "could not fetch product", http.StatusInternalServerError)
		}
		return models.Product{}, false
	}
	return p, true
}

// updateCart applies fn to the session cart atomically and responds with
// the result.
func updateCart(w http.ResponseWriter, r *http.Request, status int, fn func(c *cart.Cart) error) {
	sid := SessionID(r)
	var opErr error
	c, err := sessionStore.UpdateCart(r.Context(), sid, func(c *cart.Cart) error {
		opErr = fn(c)
		return opErr
	})
	if opErr != nil {
		writeCartError(w, opErr)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond(w, status, cartResponse(sid, c))
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidVariant),
		errors.Is(err, cart.ErrPromoRequired),
		errors.Is(err, cart.ErrInvalidPromo):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repo.ErrInsufficientStock):
		http.Error(w, "product out of stock", http.StatusConflict)
	default:
		http.Error(w, "could not update cart", http.StatusInternalServerError)
	}
}

// GetCartHandler godoc
// @Summary Get the session cart with its order summary
// @Tags cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Success 200 {object} CartResponse
// @Router /cart [get]
func GetCartHandler(w http.ResponseWriter, r *http.Request) {
	sid := SessionID(r)
	c, err := sessionStore.GetCart(r.Context(), sid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, cartResponse(sid, c))
}

// AddCartItemHandler godoc
// @Summary Add a product to the cart
// @Description Adding the same product and variant again accumulates the quantity. Quantity defaults to 1.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param item body CartItemRequest true "Product, quantity and variant"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {string} string "Out of stock"
// @Router /cart/items [post]
func AddCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, ok := lookupProduct(w, req.ProductID)
	if !ok {
		return
	}
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		if !p.InStock() {
			return repo.ErrInsufficientStock
		}
		return c.AddItem(p, req.Variant, req.Quantity)
	})
}

// UpdateCartItemHandler godoc
// @Summary Set the quantity of a cart line
// @Description Quantities below one remove the line.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param product_id path int true "Product ID"
// @Param item body CartQuantityRequest true "New quantity and the line's variant"
// @Success 200 {object} CartResponse
// @Failure 404 {string} string "Not in cart"
// @Router /cart/items/{product_id} [patch]
func UpdateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	var req CartQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		return c.UpdateQuantity(id, req.Variant, req.Quantity)
	})
}

// RemoveCartItemHandler godoc
// @Summary Remove every line of a product from the cart
// @Tags cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param product_id path int true "Product ID"
// @Success 200 {object} CartResponse
// @Failure 404 {string} string "Not in cart"
// @Router /cart/items/{product_id} [delete]
func RemoveCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		if !c.RemoveItem(id) {
			return cart.ErrItemNotFound
		}
		return nil
	})
}

// ClearCartHandler godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Success 200 {object} CartResponse
// @Router /cart [delete]
func ClearCartHandler(w http.ResponseWriter, r *http.Request) {
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// ApplyPromoHandler godoc
// @Summary Apply a promo code
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param promo body PromoRequest true "Promo code"
// @Success 200 {object} CartResponse
// @Failure 400 {string} string "Invalid promo code"
// @Router /cart/promo [post]
func ApplyPromoHandler(w http.ResponseWriter, r *http.Request) {
	var req PromoRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		_, err := c.ApplyPromo(req.Code)
		return err
	})
}

// RemovePromoHandler godoc
// @Summary Remove the applied promo code
// @Tags cart
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Success 200 {object} CartResponse
// @Router /cart/promo [delete]
func RemovePromoHandler(w http.ResponseWriter, r *http.Request) {
	updateCart(w, r, http.StatusOK, func(c *cart.Cart) error {
		c.RemovePromo()
		return nil
	})
}
