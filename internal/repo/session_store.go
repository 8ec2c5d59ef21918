package repo

import (
	"context"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
)

// SessionStore keeps carts and wishlists per anonymous session. A session
// with nothing saved yields an empty cart or wishlist.
//
// The Update methods run fn against the current state and persist the result
// atomically per session; when fn fails nothing is written and its error is
// returned unchanged. fn may run more than once, so it must not have side
// effects beyond the values it is handed.
type SessionStore interface {
	GetCart(ctx context.Context, sessionID string) (cart.Cart, error)
	SaveCart(ctx context.Context, sessionID string, c cart.Cart) error
	GetWishlist(ctx context.Context, sessionID string) (cart.Wishlist, error)
	SaveWishlist(ctx context.Context, sessionID string, w cart.Wishlist) error

	UpdateCart(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (cart.Cart, error)
	UpdateWishlist(ctx context.Context, sessionID string, fn func(w *cart.Wishlist) error) (cart.Wishlist, error)
	UpdateSession(ctx context.Context, sessionID string, fn func(c *cart.Cart, w *cart.Wishlist) error) (cart.Cart, cart.Wishlist, error)
}
