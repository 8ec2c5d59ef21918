package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
)

func updateWishlist(w http.ResponseWriter, r *http.Request, fn func(wl *cart.Wishlist) (int, error)) {
	sid := SessionID(r)
	var status int
	var opErr error
	wl, err := sessionStore.UpdateWishlist(r.Context(), sid, func(wl *cart.Wishlist) error {
		status, opErr = fn(wl)
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
	respond(w, status, wishlistResponse(sid, wl))
}

// GetWishlistHandler godoc
// @Summary Get the session wishlist
// @Tags wishlist
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Success 200 {object} WishlistResponse
// @Router /wishlist [get]
func GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sid := SessionID(r)
	wl, err := sessionStore.GetWishlist(r.Context(), sid)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, wishlistResponse(sid, wl))
}

// AddWishlistItemHandler godoc
// @Summary Add a product to the wishlist
// @Description Adding a product twice is a no-op answered with 200.
// @Tags wishlist
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param item body WishlistItemRequest true "Product"
// @Success 201 {object} WishlistResponse
// @Success 200 {object} WishlistResponse
// @Failure 404 {string} string "Product not found"
// @Router /wishlist/items [post]
func AddWishlistItemHandler(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	p, ok := lookupProduct(w, req.ProductID)
	if !ok {
		return
	}
	updateWishlist(w, r, func(wl *cart.Wishlist) (int, error) {
		if wl.Add(p, time.Now().UTC()) {
			return http.StatusCreated, nil
		}
		return http.StatusOK, nil
	})
}

// RemoveWishlistItemHandler godoc
// @Summary Remove a product from the wishlist
// @Tags wishlist
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param product_id path int true "Product ID"
// @Success 200 {object} WishlistResponse
// @Failure 404 {string} string "Not in wishlist"
// @Router /wishlist/items/{product_id} [delete]
func RemoveWishlistItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	updateWishlist(w, r, func(wl *cart.Wishlist) (int, error) {
		if !wl.Remove(id) {
			return 0, cart.ErrItemNotFound
		}
		return http.StatusOK, nil
	})
}

// ClearWishlistHandler godoc
// @Summary Empty the wishlist
// @Tags wishlist
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Success 200 {object} WishlistResponse
// @Router /wishlist [delete]
func ClearWishlistHandler(w http.ResponseWriter, r *http.Request) {
	updateWishlist(w, r, func(wl *cart.Wishlist) (int, error) {
		wl.Clear()
		return http.StatusOK, nil
	})
}

// MoveToCartHandler godoc
// @Summary Move a wishlist product into the cart
// @Description Adds one unit to the cart and drops the product from the wishlist.
// @Tags wishlist
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param product_id path int true "Product ID"
// @Success 200 {object} CartResponse
// @Failure 404 {string} string "Not in wishlist"
// @Failure 409 {string} string "Out of stock"
// @Router /wishlist/items/{product_id}/move-to-cart [post]
func MoveToCartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		http.Error(w, "invalid product ID", http.StatusBadRequest)
		return
	}
	p, ok := lookupProduct(w, id)
	if !ok {
		return
	}
	if !p.InStock() {
		http.Error(w, "product out of stock", http.StatusConflict)
		return
	}

	sid := SessionID(r)
	var opErr error
	c, _, err := sessionStore.UpdateSession(r.Context(), sid, func(c *cart.Cart, wl *cart.Wishlist) error {
		opErr = cart.MoveToCart(wl, c, p)
		return opErr
	})
	if errors.Is(opErr, cart.ErrItemNotFound) {
		http.Error(w, "product not in wishlist", http.StatusNotFound)
		return
	}
	if opErr != nil {
		writeCartError(w, opErr)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	respond(w, http.StatusOK, cartResponse(sid, c))
}
