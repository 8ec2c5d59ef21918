package view

// Predicate reports whether a record passes one filter criterion.
type Predicate[T any] func(T) bool

// Query produces the predicates for a filter state. A predicate whose input
// field is empty must not be returned at all, so the zero filter passes every
// record through.
type Query[T any] interface {
	Predicates() []Predicate[T]
}

// Filter returns the records matching every predicate, in input order. The
// input slice is never modified.
func Filter[T any](records []T, preds ...Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if matchesAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll[T any](r T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if p != nil && !p(r) {
			return false
		}
	}
	return true
}
