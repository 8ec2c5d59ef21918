package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rogerio-castellano/storefront-crm/internal/models"
)

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "iPhone 9", Description: "An apple mobile", Price: 549, Category: "smartphones", Brand: "Apple", Rating: 4.69, Stock: 94},
		{ID: 2, Name: "Galaxy Book", Description: "Samsung laptop", Price: 1499, Category: "laptops", Brand: "Samsung", Rating: 4.25, Stock: 0},
		{ID: 3, Name: "perfume oil", Description: "Mega discount", Price: 13, Category: "fragrances", Brand: "Impression of Acqua Di Gio", Rating: 4.26, Stock: 65},
		{ID: 4, Name: "Samsung Universe 9", Description: "Phone with a big screen", Price: 1249, Category: "smartphones", Brand: "Samsung", Rating: 4.09, Stock: 36},
	}
}

func TestProductFilter_EmptyIsNoOp(t *testing.T) {
	all := sampleProducts()
	got := Filter(all, ProductFilter{}.Predicates()...)
	assert.Equal(t, ids(all), ids(got))
}

func TestProductFilter_Predicates(t *testing.T) {
	all := sampleProducts()

	tests := []struct {
		name   string
		filter ProductFilter
		want   []int
	}{
		{"search name", ProductFilter{Search: "galaxy"}, []int{2}},
		{"search description", ProductFilter{Search: "phone"}, []int{1, 4}},
		{"category", ProductFilter{Category: "smartphones"}, []int{1, 4}},
		{"price range", ProductFilter{PriceMin: ptr(100.0), PriceMax: ptr(1300.0)}, []int{1, 4}},
		{"brands", ProductFilter{Brands: []string{"Samsung"}}, []int{2, 4}},
		{"min rating", ProductFilter{MinRating: 4.25}, []int{1, 2, 3}},
		{"in stock", ProductFilter{InStockOnly: true}, []int{1, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(all, tt.filter.Predicates()...)))
		})
	}
}

func TestProductComparators(t *testing.T) {
	all := sampleProducts()

	assert.Equal(t, []int{2, 1, 3, 4}, ids(Sort(all, SortState{Field: "name"}, ProductComparators)))
	assert.Equal(t, []int{3, 1, 4, 2}, ids(Sort(all, SortState{Field: "price"}, ProductComparators)))
	assert.Equal(t, []int{4, 3, 2, 1}, ids(Sort(all, SortState{Field: "newest"}, ProductComparators)))
	assert.Equal(t, []int{1, 3, 2, 4}, ids(Sort(all, SortState{Field: "rating", Order: Desc}, ProductComparators)))
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"smartphones", "laptops", "fragrances"}, Categories(sampleProducts()))
}
