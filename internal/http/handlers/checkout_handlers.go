package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/storefront-crm/internal/checkout"
	"github.com/rogerio-castellano/storefront-crm/internal/repo"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

// CheckoutHandler godoc
// @Summary Place an order from the session cart
// @Description Validates shipping and payment, takes stock for every line and empties the cart.
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Cart-Session header string false "Cart session id"
// @Param checkout body checkout.Request true "Shipping and payment details"
// @Success 201 {object} models.Order
// @Failure 400 {array} ValidationError
// @Failure 409 {string} string "Insufficient stock"
// @Router /checkout [post]
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	order, err := checkoutService.PlaceOrder(r.Context(), SessionID(r), req)
	if err != nil {
		var verrs checkout.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			respond(w, http.StatusBadRequest, fromCheckoutErrors(verrs))
		case errors.Is(err, checkout.ErrCartEmpty):
			http.Error(w, "cart is empty", http.StatusBadRequest)
		case errors.Is(err, repo.ErrInsufficientStock):
			http.Error(w, "insufficient stock", http.StatusConflict)
		case errors.Is(err, repo.ErrProductNotFound):
			http.Error(w, "product no longer available", http.StatusConflict)
		default:
			if status, msg := storeStatus(err); status != 0 {
				http.Error(w, msg, status)
				return
			}
			logx.Error().Err(err).Msg("checkout failed")
			http.Error(w, "could not place order", http.StatusInternalServerError)
		}
		return
	}
	respond(w, http.StatusCreated, order)
}

// GetOrderHandler godoc
// @Summary Get an order confirmation
// @Tags checkout
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 404 {string} string "Not found"
// @Router /orders/{order_id} [get]
func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	order, err := orderRepo.GetByID(chi.URLParam(r, "order_id"))
	if err != nil {
		if errors.Is(err, repo.ErrOrderNotFound) {
			http.Error(w, "order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch order", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, order)
}

// GetOrdersHandler godoc
// @Summary List orders, newest first
// @Tags checkout
// @Produce json
// @Security BearerAuth
// @Param since query string false "Created on or after (YYYY-MM-DD or RFC3339)"
// @Param until query string false "Created on or before (YYYY-MM-DD or RFC3339)"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} OrdersSearchResult
// @Failure 400 {string} string "Invalid query"
// @Router /orders [get]
func GetOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var of repo.OrderFilter
	var err error
	if of.Since, err = parseDate(q.Get("since"), false); err != nil {
		http.Error(w, "invalid since", http.StatusBadRequest)
		return
	}
	if of.Until, err = parseDate(q.Get("until"), true); err != nil {
		http.Error(w, "invalid until", http.StatusBadRequest)
		return
	}
	if of.Offset, err = parseIntPtr(q.Get("offset")); err != nil {
		http.Error(w, "invalid offset", http.StatusBadRequest)
		return
	}
	if of.Limit, err = parseIntPtr(q.Get("limit")); err != nil {
		http.Error(w, "invalid limit", http.StatusBadRequest)
		return
	}

	orders, total, err := orderRepo.List(of)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list orders")
		http.Error(w, "could not fetch orders", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, OrdersSearchResult{Data: orders, Meta: Meta{TotalCount: total}})
}
