package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/rogerio-castellano/storefront-crm/internal/cart"
)

type InMemorySessionStore struct {
	mu        sync.RWMutex
	carts     map[string]cart.Cart
	wishlists map[string]cart.Wishlist
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		carts:     map[string]cart.Cart{},
		wishlists: map[string]cart.Wishlist{},
	}
}

func (s *InMemorySessionStore) GetCart(_ context.Context, sessionID string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.carts[sessionID]
	c.Items = slices.Clone(c.Items)
	return c, nil
}

func (s *InMemorySessionStore) SaveCart(_ context.Context, sessionID string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.Items = slices.Clone(c.Items)
	s.carts[sessionID] = c
	return nil
}

func (s *InMemorySessionStore) GetWishlist(_ context.Context, sessionID string) (cart.Wishlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.wishlists[sessionID]
	w.Items = slices.Clone(w.Items)
	return w, nil
}

func (s *InMemorySessionStore) SaveWishlist(_ context.Context, sessionID string, w cart.Wishlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Items = slices.Clone(w.Items)
	s.wishlists[sessionID] = w
	return nil
}

func (s *InMemorySessionStore) UpdateCart(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) (cart.Cart, error) {
	c, _, err := s.UpdateSession(ctx, sessionID, func(c *cart.Cart, _ *cart.Wishlist) error {
		return fn(c)
	})
	return c, err
}

func (s *InMemorySessionStore) UpdateWishlist(ctx context.Context, sessionID string, fn func(w *cart.Wishlist) error) (cart.Wishlist, error) {
	_, w, err := s.UpdateSession(ctx, sessionID, func(_ *cart.Cart, w *cart.Wishlist) error {
		return fn(w)
	})
	return w, err
}

// UpdateSession holds the write lock for the whole read-modify-write.
func (s *InMemorySessionStore) UpdateSession(_ context.Context, sessionID string, fn func(c *cart.Cart, w *cart.Wishlist) error) (cart.Cart, cart.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.carts[sessionID]
	c.Items = slices.Clone(c.Items)
	w := s.wishlists[sessionID]
	w.Items = slices.Clone(w.Items)
	if err := fn(&c, &w); err != nil {
		return cart.Cart{}, cart.Wishlist{}, err
	}

	s.carts[sessionID] = c
	s.wishlists[sessionID] = w
	out, outW := c, w
	out.Items = slices.Clone(c.Items)
	outW.Items = slices.Clone(w.Items)
	return out, outW, nil
}

func (s *InMemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts = map[string]cart.Cart{}
	s.wishlists = map[string]cart.Wishlist{}
}
