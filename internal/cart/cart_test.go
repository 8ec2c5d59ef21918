package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

var (
	phone = models.Product{ID: 1, Name: "iPhone 9", Price: 549, Stock: 10, Variants: []models.ProductVariant{
		{Name: "color", Options: []string{"black", "white"}},
	}}
	oil    = models.Product{ID: 3, Name: "perfume oil", Price: 13, Stock: 65}
	laptop = models.Product{ID: 2, Name: "Galaxy Book", Price: 1499, Stock: 0}
)

func TestAddItem_SameIDAndVariantAccumulates(t *testing.T) {
	var c Cart
	black := &Variant{Name: "color", Value: "black"}

	require.NoError(t, c.AddItem(phone, black, 1))
	require.NoError(t, c.AddItem(phone, &Variant{Name: "color", Value: "black"}, 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItem_DifferentVariantAppends(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(phone, &Variant{Name: "color", Value: "black"}, 1))
	require.NoError(t, c.AddItem(phone, &Variant{Name: "color", Value: "white"}, 1))
	require.NoError(t, c.AddItem(phone, nil, 1))

	assert.Len(t, c.Items, 3)
	assert.Equal(t, 3, c.Count())
}

func TestAddItem_Rejects(t *testing.T) {
	var c Cart
	assert.ErrorIs(t, c.AddItem(oil, nil, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(oil, nil, -2), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(phone, &Variant{Name: "color", Value: "red"}, 1), ErrInvalidVariant)
	assert.True(t, c.IsEmpty())
}

func TestAddItem_CopiesVariant(t *testing.T) {
	var c Cart
	v := &Variant{Name: "color", Value: "black"}
	require.NoError(t, c.AddItem(phone, v, 1))
	v.Value = "white"
	assert.Equal(t, "black", c.Items[0].Variant.Value)
}

func TestUpdateQuantity(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(oil, nil, 1))
	require.NoError(t, c.AddItem(phone, nil, 1))

	require.NoError(t, c.UpdateQuantity(oil.ID, nil, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, c.UpdateQuantity(oil.ID, nil, -3))
	require.Len(t, c.Items, 1, "clamped to zero removes the entry")
	assert.Equal(t, phone.ID, c.Items[0].ProductID)

	assert.ErrorIs(t, c.UpdateQuantity(99, nil, 1), ErrItemNotFound)
}

func TestRemoveItem_DropsAllVariants(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(phone, &Variant{Name: "color", Value: "black"}, 1))
	require.NoError(t, c.AddItem(oil, nil, 2))
	require.NoError(t, c.AddItem(phone, &Variant{Name: "color", Value: "white"}, 1))

	assert.True(t, c.RemoveItem(phone.ID))
	assert.False(t, c.RemoveItem(phone.ID))
	require.Len(t, c.Items, 1)
	assert.Equal(t, oil.ID, c.Items[0].ProductID)
}

func TestTotalsAreDerived(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(oil, nil, 3))
	require.NoError(t, c.AddItem(phone, nil, 1))

	assert.Equal(t, 4, c.Count())
	assert.InDelta(t, 588.0, c.Subtotal(), 0.001)

	c.Clear()
	assert.Zero(t, c.Count())
	assert.Zero(t, c.Subtotal())
}

func TestSummary(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(oil, nil, 2))

	s := c.Summary()
	assert.InDelta(t, 26.0, s.Subtotal, 0.001)
	assert.InDelta(t, StandardShipping, s.Shipping, 0.001)
	assert.InDelta(t, 2.08, s.Tax, 0.001)
	assert.InDelta(t, 38.07, s.Total, 0.001)
	assert.InDelta(t, 474.0, s.AmountToFreeShipping, 0.001)

	require.NoError(t, c.AddItem(phone, nil, 1))
	s = c.Summary()
	assert.Zero(t, s.Shipping, "free shipping over the threshold")
	assert.Zero(t, s.AmountToFreeShipping)
}

func TestSummary_EmptyCart(t *testing.T) {
	s := Cart{}.Summary()
	assert.Zero(t, s.Total)
	assert.Zero(t, s.Shipping)
}

func TestPromoCodes(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(oil, nil, 4))

	_, err := c.ApplyPromo("  ")
	assert.ErrorIs(t, err, ErrPromoRequired)
	_, err = c.ApplyPromo("BOGUS")
	assert.ErrorIs(t, err, ErrInvalidPromo)

	p, err := c.ApplyPromo("save10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", p.Code)
	assert.InDelta(t, 5.2, c.Summary().Discount, 0.001)

	_, err = c.ApplyPromo("WELCOME")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, c.Summary().Discount, 0.001)

	_, err = c.ApplyPromo("FREESHIP")
	require.NoError(t, err)
	s := c.Summary()
	assert.InDelta(t, s.Shipping, s.Discount, 0.001)

	c.RemovePromo()
	assert.Zero(t, c.Summary().Discount)
}

func TestSummary_FixedDiscountCappedAtSubtotal(t *testing.T) {
	var c Cart
	require.NoError(t, c.AddItem(oil, nil, 1))
	_, err := c.ApplyPromo("WELCOME")
	require.NoError(t, err)

	s := c.Summary()
	assert.InDelta(t, 13.0, s.Discount, 0.001)
	assert.GreaterOrEqual(t, s.Total, 0.0)
}

func TestWishlist(t *testing.T) {
	var w Wishlist
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, w.Add(phone, now))
	assert.False(t, w.Add(phone, now), "adding twice is a no-op")
	assert.True(t, w.Add(laptop, now))
	assert.Equal(t, 2, w.Count())
	assert.False(t, w.Items[1].InStock)

	assert.True(t, w.Contains(laptop.ID))
	assert.True(t, w.Remove(laptop.ID))
	assert.False(t, w.Remove(laptop.ID))

	w.Clear()
	assert.Zero(t, w.Count())
}

func TestMoveToCart(t *testing.T) {
	var (
		w Wishlist
		c Cart
	)
	w.Add(oil, time.Now())

	require.NoError(t, MoveToCart(&w, &c, oil))
	assert.False(t, w.Contains(oil.ID))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)

	assert.ErrorIs(t, MoveToCart(&w, &c, oil), ErrItemNotFound)
}

func TestMerge(t *testing.T) {
	var claimed Cart
	require.NoError(t, claimed.AddItem(oil, nil, 2))
	require.NoError(t, claimed.AddItem(phone, &Variant{Name: "color", Value: "black"}, 1))
	claimed.PromoCode = "SAVE10"

	var current Cart
	require.NoError(t, current.AddItem(oil, nil, 1))
	current.Merge(claimed)

	require.Len(t, current.Items, 2)
	assert.Equal(t, 3, current.Items[0].Quantity)
	assert.Equal(t, phone.ID, current.Items[1].ProductID)
	assert.Equal(t, "SAVE10", current.PromoCode)

	current.PromoCode = "WELCOME"
	current.Merge(claimed)
	assert.Equal(t, "WELCOME", current.PromoCode)
}
