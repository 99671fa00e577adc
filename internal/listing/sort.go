package listing

import "catalogforge/internal/store"

// SortOption pairs a sort directive with its display label.
type SortOption struct {
	Value store.Sort
	Label string
}

// SortOptions returns the fixed set of sort directives in display order.
func SortOptions() []SortOption {
	return []SortOption{
		{Value: store.SortCreatedDesc, Label: "Date Added (Newest)"},
		{Value: store.SortCreatedAsc, Label: "Date Added (Oldest)"},
		{Value: store.SortNameAsc, Label: "Alphabetical (A-Z)"},
		{Value: store.SortNameDesc, Label: "Alphabetical (Z-A)"},
	}
}

// SortSelector holds the dropdown's open flag and the single active
// directive. Exactly one directive is active at all times.
type SortSelector struct {
	open   bool
	active store.Sort
}

func NewSortSelector() *SortSelector {
	return &SortSelector{active: store.SortCreatedDesc}
}

// Toggle flips the dropdown between open and closed.
func (s *SortSelector) Toggle() {
	s.open = !s.open
}

func (s *SortSelector) IsOpen() bool {
	return s.open
}

// Select sets the active directive and closes the dropdown. Unknown values
// normalize to the default directive.
func (s *SortSelector) Select(value store.Sort) {
	s.active = store.ParseSort(string(value))
	s.open = false
}

// DismissOutside closes the dropdown without changing the active directive.
// Called for pointer interactions outside the component.
func (s *SortSelector) DismissOutside() {
	s.open = false
}

func (s *SortSelector) Active() store.Sort {
	return s.active
}

// ActiveLabel returns the display label of the active directive.
func (s *SortSelector) ActiveLabel() string {
	for _, opt := range SortOptions() {
		if opt.Value == s.active {
			return opt.Label
		}
	}
	return ""
}
