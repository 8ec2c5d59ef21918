package view

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

// ProductFilter is the storefront filter state. Empty fields are no-ops.
type ProductFilter struct {
	Search      string   `json:"search,omitempty"`
	Category    string   `json:"category,omitempty"`
	PriceMin    *float64 `json:"price_min,omitempty"`
	PriceMax    *float64 `json:"price_max,omitempty"`
	Brands      []string `json:"brands,omitempty"`
	MinRating   float64  `json:"rating,omitempty"`
	InStockOnly bool     `json:"in_stock,omitempty"`
}

func (f ProductFilter) Predicates() []Predicate[models.Product] {
	var preds []Predicate[models.Product]

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		preds = append(preds, func(p models.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.Description), term)
		})
	}

	if f.Category != "" {
		category := f.Category
		preds = append(preds, func(p models.Product) bool { return p.Category == category })
	}

	if f.PriceMin != nil {
		lo := *f.PriceMin
		preds = append(preds, func(p models.Product) bool { return p.Price >= lo })
	}
	if f.PriceMax != nil {
		hi := *f.PriceMax
		preds = append(preds, func(p models.Product) bool { return p.Price <= hi })
	}

	if len(f.Brands) > 0 {
		brands := slices.Clone(f.Brands)
		preds = append(preds, func(p models.Product) bool { return slices.Contains(brands, p.Brand) })
	}

	if f.MinRating > 0 {
		rating := f.MinRating
		preds = append(preds, func(p models.Product) bool { return p.Rating >= rating })
	}

	if f.InStockOnly {
		preds = append(preds, models.Product.InStock)
	}

	return preds
}

var ProductSortFields = []string{"name", "price", "rating", "stock", "newest"}

// ProductComparators sort ascending by the named field. "newest" puts the
// most recently created product first when ascending.
var ProductComparators = Comparators[models.Product]{
	"name":   func(a, b models.Product) int { return compareFold(a.Name, b.Name) },
	"price":  func(a, b models.Product) int { return cmp.Compare(a.Price, b.Price) },
	"rating": func(a, b models.Product) int { return cmp.Compare(a.Rating, b.Rating) },
	"stock":  func(a, b models.Product) int { return cmp.Compare(a.Stock, b.Stock) },
	"newest": func(a, b models.Product) int { return cmp.Compare(b.ID, a.ID) },
}

// Categories returns the distinct product categories in first-seen order.
func Categories(products []models.Product) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
