package listing

// SelectionSet tracks which product ids are marked for catalog export.
// It is not safe for concurrent use; the owning controller serializes access.
type SelectionSet struct {
	ids map[string]struct{}
}

func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[string]struct{})}
}

// Toggle inserts the id if absent, removes it if present.
func (s *SelectionSet) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// Selected reports whether the id is marked.
func (s *SelectionSet) Selected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// SelectAll toggles whole-page selection: if the selection already equals
// exactly the given page ids it clears, otherwise it becomes exactly them.
// Select-all is scoped to the visible page, never the full result set.
func (s *SelectionSet) SelectAll(pageIDs []string) {
	if s.equals(pageIDs) {
		s.Clear()
		return
	}
	s.ids = make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		s.ids[id] = struct{}{}
	}
}

func (s *SelectionSet) equals(pageIDs []string) bool {
	if len(s.ids) != len(pageIDs) {
		return false
	}
	for _, id := range pageIDs {
		if _, ok := s.ids[id]; !ok {
			return false
		}
	}
	return true
}

// Clear removes every id.
func (s *SelectionSet) Clear() {
	s.ids = make(map[string]struct{})
}

// Count returns the number of marked ids.
func (s *SelectionSet) Count() int {
	return len(s.ids)
}
