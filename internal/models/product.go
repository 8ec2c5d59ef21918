package models

import "time"

type ProductVariant struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Product represents a catalog entry in the storefront.
type Product struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         float64          `json:"price"`
	OriginalPrice *float64         `json:"original_price,omitempty"`
	Category      string           `json:"category"`
	Brand         string           `json:"brand"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	Stock         int              `json:"stock"`
	Image         string           `json:"image"`
	Thumbnail     string           `json:"thumbnail"`
	Variants      []ProductVariant `json:"variants,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p Product) RecordID() int {
	return p.ID
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// HasVariantOption reports whether the product offers value under the named variant.
func (p Product) HasVariantOption(name, value string) bool {
	for _, v := range p.Variants {
		if v.Name != name {
			continue
		}
		for _, o := range v.Options {
			if o == value {
				return true
			}
		}
	}
	return false
}
