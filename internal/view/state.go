package view

// Record is anything with a stable numeric identity.
type Record interface {
	RecordID() int
}

// State composes records, filter, sort, pagination and selection. Every change
// to the filtered set (records, query or sort) sends the view back to page 1
// and resynchronises the selection.
type State[T Record] struct {
	records     []T
	query       Query[T]
	sort        SortState
	comparators Comparators[T]
	pagination  Pagination
	selection   *Selection
	filtered    []T
}

func NewState[T Record](cmps Comparators[T], pageSize int) *State[T] {
	s := &State[T]{
		comparators: cmps,
		pagination:  Pagination{Page: 1, PageSize: pageSize}.Normalize(),
		selection:   NewSelection(),
	}
	s.recompute()
	return s
}

func (s *State[T]) SetRecords(records []T) {
	s.records = records
	s.recompute()
}

func (s *State[T]) SetQuery(q Query[T]) {
	s.query = q
	s.recompute()
}

func (s *State[T]) SetSort(sort SortState) {
	s.sort = sort
	s.recompute()
}

func (s *State[T]) ToggleSortOrder() {
	s.sort.Order = s.sort.Order.Reverse()
	s.recompute()
}

func (s *State[T]) SetPage(page int) {
	s.pagination.Page = page
	s.pagination = s.pagination.Normalize()
}

func (s *State[T]) SetPageSize(size int) {
	s.pagination.PageSize = size
	s.pagination = s.pagination.Normalize()
}

func (s *State[T]) Sort() SortState {
	return s.sort
}

func (s *State[T]) Pagination() Pagination {
	return s.pagination
}

func (s *State[T]) Selection() *Selection {
	return s.selection
}

// Filtered returns the full filtered and sorted list, ignoring pagination.
func (s *State[T]) Filtered() []T {
	return s.filtered
}

func (s *State[T]) FilteredIDs() []int {
	ids := make([]int, len(s.filtered))
	for i, r := range s.filtered {
		ids[i] = r.RecordID()
	}
	return ids
}

func (s *State[T]) Page() Page[T] {
	return Paginate(s.filtered, s.pagination)
}

func (s *State[T]) ToggleSelectAll() {
	s.selection.ToggleAll(s.FilteredIDs())
}

func (s *State[T]) ToggleSelection(id int) {
	s.selection.Toggle(id)
}

// SelectedRecords returns the filtered records that are currently checked.
func (s *State[T]) SelectedRecords() []T {
	return Filter(s.filtered, func(r T) bool { return s.selection.Contains(r.RecordID()) })
}

func (s *State[T]) recompute() {
	var preds []Predicate[T]
	if s.query != nil {
		preds = s.query.Predicates()
	}
	s.filtered = Sort(Filter(s.records, preds...), s.sort, s.comparators)
	s.pagination.Page = 1
	s.selection.Resync(s.FilteredIDs())
}
