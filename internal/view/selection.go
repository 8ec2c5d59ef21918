package view

// Selection tracks checked record ids for bulk actions, in check order.
type Selection struct {
	ids []int
	set map[int]struct{}
	all bool
}

func NewSelection(ids ...int) *Selection {
	s := &Selection{set: map[int]struct{}{}}
	s.Select(ids...)
	return s
}

func (s *Selection) Select(ids ...int) {
	for _, id := range ids {
		if _, ok := s.set[id]; ok {
			continue
		}
		s.set[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
}

func (s *Selection) Toggle(id int) {
	if _, ok := s.set[id]; !ok {
		s.Select(id)
		return
	}
	delete(s.set, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *Selection) Clear() {
	s.ids = nil
	s.set = map[int]struct{}{}
	s.all = false
}

// SelectAll checks every id in visible and keeps tracking it as select-all.
func (s *Selection) SelectAll(visible []int) {
	s.ids = nil
	s.set = map[int]struct{}{}
	s.Select(visible...)
	s.all = true
}

func (s *Selection) ToggleAll(visible []int) {
	if s.all {
		s.Clear()
		return
	}
	s.SelectAll(visible)
}

// Resync reacts to a new filtered set: select-all follows it, a manual
// selection is dropped.
func (s *Selection) Resync(visible []int) {
	if s.all {
		s.SelectAll(visible)
		return
	}
	s.Clear()
}

func (s *Selection) Contains(id int) bool {
	_, ok := s.set[id]
	return ok
}

func (s *Selection) All() bool {
	return s.all
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IDs() []int {
	out := make([]int, len(s.ids))
	copy(out, s.ids)
	return out
}
