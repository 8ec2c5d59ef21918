package cart

import (
	"time"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

type WishlistItem struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Category  string    `json:"category,omitempty"`
	InStock   bool      `json:"in_stock"`
	AddedAt   time.Time `json:"added_at"`
}

// Wishlist holds at most one entry per product.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// Add is idempotent; it reports whether the product was newly added.
func (w *Wishlist) Add(p models.Product, now time.Time) bool {
	if w.Contains(p.ID) {
		return false
	}
	w.Items = append(w.Items, WishlistItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Thumbnail,
		Category:  p.Category,
		InStock:   p.InStock(),
		AddedAt:   now,
	})
	return true
}

func (w *Wishlist) Remove(productID int) bool {
	for i, it := range w.Items {
		if it.ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (w *Wishlist) Clear() {
	w.Items = []WishlistItem{}
}

func (w Wishlist) Contains(productID int) bool {
	for _, it := range w.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

func (w Wishlist) Count() int {
	return len(w.Items)
}

// MoveToCart adds one unit of p to c and drops it from w.
func MoveToCart(w *Wishlist, c *Cart, p models.Product) error {
	if !w.Contains(p.ID) {
		return ErrItemNotFound
	}
	if err := c.AddItem(p, nil, 1); err != nil {
		return err
	}
	w.Remove(p.ID)
	return nil
}
