package listing

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalogforge/internal/cache"
	"catalogforge/internal/store"
)

// fakeClient scripts the store for controller tests. Category listings are
// served from a fixed slice; product listings go through the products hook
// so tests can control latency and failures per call.
type fakeClient struct {
	mu         sync.Mutex
	categories []store.Document
	products   func(preds []store.Predicate) (*store.ListResult, error)
	calls      [][]store.Predicate
}

func (f *fakeClient) List(ctx context.Context, collection string, preds []store.Predicate) (*store.ListResult, error) {
	if collection == store.CollectionCategories {
		return &store.ListResult{
			Documents: f.categories,
			Total:     int64(len(f.categories)),
		}, nil
	}

	f.mu.Lock()
	f.calls = append(f.calls, preds)
	hook := f.products
	f.mu.Unlock()

	return hook(preds)
}

func (f *fakeClient) productCalls() [][]store.Predicate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]store.Predicate(nil), f.calls...)
}

func searchTermOf(preds []store.Predicate) string {
	for _, p := range preds {
		if p.Kind == store.KindSearch {
			return p.Value.(string)
		}
	}
	return ""
}

func offsetOf(preds []store.Predicate) int {
	for _, p := range preds {
		if p.Kind == store.KindOffset {
			return p.Value.(int)
		}
	}
	return 0
}

func categoryDoc(id primitive.ObjectID, owner, name string) store.Document {
	return store.Document{"_id": id, "user_id": owner, "name": name}
}

func productDoc(owner, name, categoryID string) store.Document {
	return store.Document{
		"_id":         primitive.NewObjectID(),
		"user_id":     owner,
		"name":        name,
		"price":       9.99,
		"quantity":    int32(3),
		"category_id": categoryID,
		"image_url":   "https://img.example/" + name + ".jpg",
		"created_at":  time.Now(),
	}
}

func pageOf(total int64, docs ...store.Document) *store.ListResult {
	return &store.ListResult{Documents: docs, Total: total}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T, fc *fakeClient, debounce time.Duration) *Controller {
	t.Helper()
	categoryCache := cache.New(time.Minute)
	t.Cleanup(categoryCache.Close)

	fetcher := &Fetcher{Client: fc, Categories: categoryCache}
	c := NewController(fetcher, testLogger(), "u1", 12, debounce)
	t.Cleanup(c.Close)
	return c
}

func TestControllerLatestGenerationWins(t *testing.T) {
	shirtGate := make(chan struct{})
	started := make(chan string, 8)

	fc := &fakeClient{
		products: func(preds []store.Predicate) (*store.ListResult, error) {
			term := searchTermOf(preds)
			started <- term
			if term == "shirt" {
				// Hold the older request until the newer one has landed.
				<-shirtGate
			}
			return pageOf(1, productDoc("u1", term+" result", "")), nil
		},
	}
	c := newTestController(t, fc, time.Millisecond)

	c.SetSearchTerm("shirt")
	require.Equal(t, "shirt", <-started)

	c.SetSearchTerm("pen")
	require.Equal(t, "pen", <-started)

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Result != nil && len(s.Result.Items) == 1 &&
			s.Result.Items[0].Name == "pen result"
	}, time.Second, time.Millisecond)

	// Release the stale response; it must be discarded, not applied.
	close(shirtGate)
	time.Sleep(50 * time.Millisecond)

	s := c.Snapshot()
	require.NotNil(t, s.Result)
	assert.Equal(t, "pen result", s.Result.Items[0].Name)
	assert.False(t, s.Loading)
}

func TestControllerFilterChangeResetsPage(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(60, productDoc("u1", "widget", "")), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().Result != nil
	}, time.Second, time.Millisecond)

	c.ChangePage(3)
	require.Eventually(t, func() bool {
		return c.Snapshot().Query.Page == 3 && !c.Snapshot().Loading
	}, time.Second, time.Millisecond)

	calls := fc.productCalls()
	assert.Equal(t, 24, offsetOf(calls[len(calls)-1]))

	c.SetCategory("groceries")
	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Query.Page == 1 && !s.Loading
	}, time.Second, time.Millisecond)

	calls = fc.productCalls()
	last := calls[len(calls)-1]
	assert.Equal(t, 0, offsetOf(last), "new filter must query page 1")
	assert.Contains(t, last, store.Equal("category_id", "groceries"))
}

func TestControllerPageRequestsOutOfRangeAreNoOps(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(20, productDoc("u1", "widget", "")), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	// Before any result has loaded, every page change is a no-op.
	c.ChangePage(2)
	assert.Empty(t, fc.productCalls())

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().Result != nil
	}, time.Second, time.Millisecond)

	before := len(fc.productCalls())
	c.ChangePage(0)
	c.ChangePage(3) // only 2 pages at total=20, pageSize=12
	c.ChangePage(1) // already current
	assert.Equal(t, before, len(fc.productCalls()))
	assert.Equal(t, 1, c.Snapshot().Query.Page)
}

func TestControllerKeepsLastGoodPageOnFailure(t *testing.T) {
	fail := false
	var mu sync.Mutex

	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, context.DeadlineExceeded
		}
		return pageOf(1, productDoc("u1", "widget", "")), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().Result != nil
	}, time.Second, time.Millisecond)

	mu.Lock()
	fail = true
	mu.Unlock()

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().ErrMsg != ""
	}, time.Second, time.Millisecond)

	s := c.Snapshot()
	require.NotNil(t, s.Result, "previous page must stay visible")
	assert.Equal(t, "widget", s.Result.Items[0].Name)

	c.DismissError()
	assert.Empty(t, c.Snapshot().ErrMsg)
}

func TestControllerDebouncedSearchIssuesOneFetch(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(0), nil
	}
	c := newTestController(t, fc, 40*time.Millisecond)

	c.SetSearchTerm("s")
	c.SetSearchTerm("sh")
	c.SetSearchTerm("shi")

	require.Eventually(t, func() bool {
		return len(fc.productCalls()) == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, "shi", searchTermOf(fc.productCalls()[0]))

	// No further fetches arrive for the collapsed intermediate values.
	time.Sleep(80 * time.Millisecond)
	assert.Len(t, fc.productCalls(), 1)
}

func TestControllerSelection(t *testing.T) {
	docs := []store.Document{
		productDoc("u1", "alpha", ""),
		productDoc("u1", "beta", ""),
		productDoc("u1", "gamma", ""),
	}
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(3, docs...), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().Result != nil
	}, time.Second, time.Millisecond)

	c.SelectAllVisible()
	assert.Equal(t, 3, c.SelectionCount())

	selected := c.SelectedProducts()
	require.Len(t, selected, 3)
	assert.Equal(t, "alpha", selected[0].Name)
	assert.Equal(t, "beta", selected[1].Name)
	assert.Equal(t, "gamma", selected[2].Name)

	c.ToggleSelection(selected[1].ID.Hex())
	assert.Equal(t, 2, c.SelectionCount())
	assert.False(t, c.IsSelected(selected[1].ID.Hex()))

	// Select-all on a fully selected page clears it.
	c.ToggleSelection(selected[1].ID.Hex())
	c.SelectAllVisible()
	assert.Equal(t, 0, c.SelectionCount())
}

func TestControllerSearchChangeClearsSelection(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(1, productDoc("u1", "widget", "")), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	c.Refresh()
	require.Eventually(t, func() bool {
		return c.Snapshot().Result != nil
	}, time.Second, time.Millisecond)

	c.SelectAllVisible()
	require.Equal(t, 1, c.SelectionCount())

	c.SetSearchTerm("pen")
	require.Eventually(t, func() bool {
		return c.Snapshot().Query.Search == "pen"
	}, time.Second, time.Millisecond)

	assert.Equal(t, 0, c.SelectionCount())
}

func TestControllerCloseInvalidatesPendingFetch(t *testing.T) {
	gate := make(chan struct{})
	started := make(chan struct{}, 1)

	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		started <- struct{}{}
		<-gate
		return pageOf(1, productDoc("u1", "late", "")), nil
	}
	c := newTestController(t, fc, time.Millisecond)

	c.Refresh()
	<-started

	c.Close()
	close(gate)
	time.Sleep(30 * time.Millisecond)

	assert.Nil(t, c.Snapshot().Result, "response after Close must be discarded")
}
