package cart

import (
	"errors"
	"strings"
)

type PromoType string

const (
	PromoPercentage PromoType = "percentage"
	PromoFixed      PromoType = "fixed"
	PromoShipping   PromoType = "shipping"
)

type Promo struct {
	Code        string    `json:"code"`
	Type        PromoType `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

var (
	ErrPromoRequired = errors.New("please enter a promo code")
	ErrInvalidPromo  = errors.New("invalid promo code")
)

var promos = map[string]Promo{
	"SAVE10":   {Code: "SAVE10", Type: PromoPercentage, Amount: 0.10, Description: "10% off"},
	"WELCOME":  {Code: "WELCOME", Type: PromoFixed, Amount: 15, Description: "$15 off"},
	"FREESHIP": {Code: "FREESHIP", Type: PromoShipping, Amount: StandardShipping, Description: "Free shipping"},
}

// LookupPromo resolves a code case-insensitively.
func LookupPromo(code string) (Promo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Promo{}, ErrPromoRequired
	}
	p, ok := promos[code]
	if !ok {
		return Promo{}, ErrInvalidPromo
	}
	return p, nil
}

func (c *Cart) ApplyPromo(code string) (Promo, error) {
	p, err := LookupPromo(code)
	if err != nil {
		return Promo{}, err
	}
	c.PromoCode = p.Code
	return p, nil
}

func (c *Cart) RemovePromo() {
	c.PromoCode = ""
}
