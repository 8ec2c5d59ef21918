package cart

const (
	FreeShippingThreshold = 500.0
	StandardShipping      = 9.99
	TaxRate               = 0.08
)

type Summary struct {
	ItemCount int     `json:"item_count"`
	Subtotal  float64 `json:"subtotal"`
	Discount  float64 `json:"discount"`
	Shipping  float64 `json:"shipping"`
	Tax       float64 `json:"tax"`
	Total     float64 `json:"total"`
	PromoCode string  `json:"promo_code,omitempty"`
	// AmountToFreeShipping is how much more the cart needs for free shipping.
	AmountToFreeShipping float64 `json:"amount_to_free_shipping"`
}

func shippingFor(subtotal float64) float64 {
	if subtotal <= 0 || subtotal > FreeShippingThreshold {
		return 0
	}
	return StandardShipping
}

// Summary derives the order totals from the items and the applied promo.
func (c Cart) Summary() Summary {
	subtotal := c.Subtotal()
	shipping := shippingFor(subtotal)

	s := Summary{
		ItemCount: c.Count(),
		Subtotal:  subtotal,
		Shipping:  shipping,
		Tax:       round2(subtotal * TaxRate),
	}
	if subtotal > 0 && subtotal <= FreeShippingThreshold {
		s.AmountToFreeShipping = round2(FreeShippingThreshold - subtotal)
	}

	if p, err := LookupPromo(c.PromoCode); err == nil {
		s.PromoCode = p.Code
		switch p.Type {
		case PromoPercentage:
			s.Discount = round2(subtotal * p.Amount)
		case PromoFixed:
			s.Discount = min(p.Amount, subtotal)
		case PromoShipping:
			s.Discount = shipping
		}
	}

	s.Total = max(0, round2(s.Subtotal-s.Discount+s.Shipping+s.Tax))
	return s
}
