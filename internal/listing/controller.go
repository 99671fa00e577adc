package listing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"catalogforge/internal/models"
	"catalogforge/internal/store"
)

// State is the visible listing state: the current query, the last applied
// page result, and the loading/error flags. It changes only through the
// controller's named transitions.
type State struct {
	Query   store.ListQuery
	Result  *models.PageResult
	Loading bool
	ErrMsg  string
}

// Paginator derives the page controls for the current state.
func (s State) Paginator() Paginator {
	var total int64
	if s.Result != nil {
		total = s.Result.Total
	}
	return Paginator{
		Current:    s.Query.Page,
		TotalPages: PageCount(total, s.Query.PageSize),
	}
}

const fetchErrMsg = "Failed to load data."

// Controller drives the listing for one owner session. Every filter change
// issues a new generation-tagged fetch; a response is applied to visible
// state only if its generation is still the latest, so a slow stale response
// can never overwrite a newer one.
type Controller struct {
	mu        sync.Mutex
	fetcher   *Fetcher
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	gen       uint64
	state     State
	selection *SelectionSet
	debouncer *Debouncer
	closed    bool
}

// NewController creates a controller with the default query (newest first,
// page 1). Call Refresh to load the initial page.
func NewController(fetcher *Fetcher, log *slog.Logger, ownerID string, pageSize int, debounce time.Duration) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:   fetcher,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		selection: NewSelectionSet(),
		state: State{
			Query: store.ListQuery{
				OwnerID:  ownerID,
				Sort:     store.SortCreatedDesc,
				Page:     1,
				PageSize: pageSize,
			},
		},
	}
	c.debouncer = NewDebouncer(debounce, c.applySearch)
	return c
}

// SetSearchTerm feeds a raw search value through the debouncer. Only the
// value that stays stable for the debounce delay reaches the query.
func (c *Controller) SetSearchTerm(raw string) {
	c.debouncer.Set(raw)
}

func (c *Controller) applySearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || term == c.state.Query.Search {
		return
	}
	c.state.Query.Search = term
	c.state.Query.Page = 1
	c.selection.Clear()
	c.launchLocked()
}

// SetCategory applies a category filter, resetting to page 1.
func (c *Controller) SetCategory(categoryID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || categoryID == c.state.Query.CategoryID {
		return
	}
	c.state.Query.CategoryID = categoryID
	c.state.Query.Page = 1
	c.selection.Clear()
	c.launchLocked()
}

// SetSort applies a sort directive, resetting to page 1. The selection is
// kept: sorting reorders the same result universe.
func (c *Controller) SetSort(sort store.Sort) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort = store.ParseSort(string(sort))
	if c.closed || sort == c.state.Query.Sort {
		return
	}
	c.state.Query.Sort = sort
	c.state.Query.Page = 1
	c.launchLocked()
}

// ChangePage navigates to a page. Requests outside [1, totalPages] are
// no-ops, as are requests before any result has loaded.
func (c *Controller) ChangePage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	target, ok := c.state.Paginator().Request(page)
	if !ok || target == c.state.Query.Page {
		return
	}
	c.state.Query.Page = target
	c.launchLocked()
}

// Refresh re-issues the current query.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.launchLocked()
}

// launchLocked starts a fetch for the current query under a fresh
// generation. Callers must hold the mutex.
func (c *Controller) launchLocked() {
	c.gen++
	gen := c.gen
	c.state.Loading = true
	query := c.state.Query

	go func() {
		result, err := c.fetcher.FetchPage(c.ctx, query)
		c.apply(gen, result, err)
	}()
}

// apply reconciles a fetch response. Responses from superseded generations
// are discarded so completion order cannot override issuance order.
func (c *Controller) apply(gen uint64, result *models.PageResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		c.log.Debug("discarding stale fetch", "generation", gen, "latest", c.gen)
		return
	}

	c.state.Loading = false
	if err != nil {
		// Keep the last good page visible; the failure is recoverable.
		c.log.Error("listing fetch failed", "error", err)
		c.state.ErrMsg = fetchErrMsg
		return
	}
	c.state.Result = result
	c.state.ErrMsg = ""
}

// DismissError clears the visible error message.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ErrMsg = ""
}

// Snapshot returns a copy of the visible state. The result it points to is
// read-only.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ToggleSelection flips one product id in the export selection.
func (c *Controller) ToggleSelection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Toggle(id)
}

// SelectAllVisible toggles selection of exactly the ids on the loaded page.
func (c *Controller) SelectAllVisible() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Result == nil || len(c.state.Result.Items) == 0 {
		return
	}
	ids := make([]string, len(c.state.Result.Items))
	for i, item := range c.state.Result.Items {
		ids[i] = item.ID.Hex()
	}
	c.selection.SelectAll(ids)
}

// IsSelected reports whether a product id is marked for export.
func (c *Controller) IsSelected(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Selected(id)
}

// SelectionCount returns the number of marked ids.
func (c *Controller) SelectionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Count()
}

// SelectedProducts returns the selected products in the order they appear
// on the loaded page. Ids that are selected but not visible are omitted.
func (c *Controller) SelectedProducts() []models.DecoratedProduct {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Result == nil {
		return nil
	}
	var selected []models.DecoratedProduct
	for _, item := range c.state.Result.Items {
		if c.selection.Selected(item.ID.Hex()) {
			selected = append(selected, item)
		}
	}
	return selected
}

// Close tears the controller down. Outstanding fetches are invalidated and
// the debouncer will never fire again.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.debouncer.Stop()
	c.cancel()
}
