package listing

// PageCount computes the number of pages needed for totalMatches results,
// zero meaning no results.
func PageCount(totalMatches int64, pageSize int) int {
	if pageSize <= 0 || totalMatches <= 0 {
		return 0
	}
	return int((totalMatches + int64(pageSize) - 1) / int64(pageSize))
}

// Paginator derives page-control state from the current page and the total
// page count. It holds no state of its own.
type Paginator struct {
	Current    int
	TotalPages int
}

// PageButton is one numbered page control.
type PageButton struct {
	Number int
	Active bool
}

// Buttons returns one button per page, the current one marked active.
func (p Paginator) Buttons() []PageButton {
	if p.TotalPages <= 0 {
		return nil
	}
	buttons := make([]PageButton, p.TotalPages)
	for i := range buttons {
		n := i + 1
		buttons[i] = PageButton{Number: n, Active: n == p.Current}
	}
	return buttons
}

// PrevEnabled reports whether stepping back is possible.
func (p Paginator) PrevEnabled() bool {
	return p.TotalPages > 0 && p.Current > 1
}

// NextEnabled reports whether stepping forward is possible.
func (p Paginator) NextEnabled() bool {
	return p.TotalPages > 0 && p.Current < p.TotalPages
}

// Request validates a page-change request. Out-of-range requests are no-ops.
func (p Paginator) Request(page int) (int, bool) {
	if page < 1 || page > p.TotalPages {
		return 0, false
	}
	return page, true
}
