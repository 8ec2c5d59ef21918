package view

import (
	"slices"
	"strings"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder treats anything other than "desc" as ascending.
func ParseOrder(s string) Order {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

func (o Order) Reverse() Order {
	if o == Desc {
		return Asc
	}
	return Desc
}

type SortState struct {
	Field string `json:"field"`
	Order Order  `json:"order"`
}

// Comparators maps sortable field names to a three-way comparison.
type Comparators[T any] map[string]func(a, b T) int

// Has reports whether field names a sortable column.
func (c Comparators[T]) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Sort returns a stably sorted copy of records. An empty or unknown field
// leaves the order untouched.
func Sort[T any](records []T, s SortState, cmps Comparators[T]) []T {
	out := slices.Clone(records)
	cmp, ok := cmps[s.Field]
	if s.Field == "" || !ok {
		return out
	}
	if s.Order == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return cmp(b, a) })
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
