package cart

import (
	"errors"
	"math"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidVariant  = errors.New("product has no such variant")
)

// Variant is the option picked for a product, e.g. {Name: "size", Value: "M"}.
type Variant struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func sameVariant(a, b *Variant) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type Item struct {
	ProductID int      `json:"product_id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Image     string   `json:"image,omitempty"`
	Category  string   `json:"category,omitempty"`
	Variant   *Variant `json:"variant,omitempty"`
}

func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Cart is a keyed collection of items. An item is identified by product id
// plus variant; totals are always derived from Items.
type Cart struct {
	Items     []Item `json:"items"`
	PromoCode string `json:"promo_code,omitempty"`
}

func (c *Cart) find(productID int, variant *Variant) int {
	for i, it := range c.Items {
		if it.ProductID == productID && sameVariant(it.Variant, variant) {
			return i
		}
	}
	return -1
}

// AddItem accumulates quantity on a matching id+variant entry, or appends a
// new one.
func (c *Cart) AddItem(p models.Product, variant *Variant, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if variant != nil && len(p.Variants) > 0 && !p.HasVariantOption(variant.Name, variant.Value) {
		return ErrInvalidVariant
	}

	if i := c.find(p.ID, variant); i >= 0 {
		c.Items[i].Quantity += quantity
		return nil
	}

	var v *Variant
	if variant != nil {
		cp := *variant
		v = &cp
	}
	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		Image:     p.Thumbnail,
		Category:  p.Category,
		Variant:   v,
	})
	return nil
}

// UpdateQuantity sets the quantity of an entry, clamped at zero. An entry
// clamped to zero is removed, so every stored quantity stays positive.
func (c *Cart) UpdateQuantity(productID int, variant *Variant, quantity int) error {
	i := c.find(productID, variant)
	if i < 0 {
		return ErrItemNotFound
	}
	quantity = max(0, quantity)
	if quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	}
	c.Items[i].Quantity = quantity
	return nil
}

// RemoveItem deletes every entry for productID, whatever its variant.
func (c *Cart) RemoveItem(productID int) bool {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	removed := len(kept) != len(c.Items)
	c.Items = kept
	return removed
}

// Merge folds other's lines into c, accumulating quantity on matching
// id+variant lines. c keeps its own promo code when it has one.
func (c *Cart) Merge(other Cart) {
	for _, it := range other.Items {
		if i := c.find(it.ProductID, it.Variant); i >= 0 {
			c.Items[i].Quantity += it.Quantity
			continue
		}
		c.Items = append(c.Items, it)
	}
	if c.PromoCode == "" {
		c.PromoCode = other.PromoCode
	}
}

func (c *Cart) Clear() {
	c.Items = []Item{}
	c.PromoCode = ""
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Subtotal() float64 {
	total := 0.0
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return round2(total)
}

// Count is the number of units in the cart, not the number of entries.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
