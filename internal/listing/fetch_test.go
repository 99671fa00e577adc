package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalogforge/internal/cache"
	"catalogforge/internal/store"
)

func TestFetchPageDecoratesCategories(t *testing.T) {
	groceries := primitive.NewObjectID()

	fc := &fakeClient{
		categories: []store.Document{categoryDoc(groceries, "u1", "Groceries")},
	}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(2,
			productDoc("u1", "rice", groceries.Hex()),
			productDoc("u1", "mystery", "missing-category"),
		), nil
	}

	categoryCache := cache.New(time.Minute)
	defer categoryCache.Close()
	fetcher := &Fetcher{Client: fc, Categories: categoryCache}

	result, err := fetcher.FetchPage(context.Background(), store.ListQuery{
		OwnerID: "u1", Page: 1, PageSize: 12,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	assert.Equal(t, "Groceries", result.Items[0].CategoryName)
	// An unresolved category reference degrades to the fallback label.
	assert.Equal(t, "Unknown", result.Items[1].CategoryName)
	assert.Equal(t, int64(2), result.Total)
}

func TestFetchPageRejectsMalformedDocuments(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(1, store.Document{
			"_id":     primitive.NewObjectID(),
			"user_id": "u1",
			"name":    "broken",
			"price":   "not a number",
		}), nil
	}

	categoryCache := cache.New(time.Minute)
	defer categoryCache.Close()
	fetcher := &Fetcher{Client: fc, Categories: categoryCache}

	_, err := fetcher.FetchPage(context.Background(), store.ListQuery{
		OwnerID: "u1", Page: 1, PageSize: 12,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestFetchByIDsPreservesRequestOrder(t *testing.T) {
	first := productDoc("u1", "alpha", "")
	second := productDoc("u1", "beta", "")

	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		// The store returns matches in its own order.
		return pageOf(2, second, first), nil
	}

	categoryCache := cache.New(time.Minute)
	defer categoryCache.Close()
	fetcher := &Fetcher{Client: fc, Categories: categoryCache}

	ids := []string{
		first["_id"].(primitive.ObjectID).Hex(),
		second["_id"].(primitive.ObjectID).Hex(),
	}
	products, err := fetcher.FetchByIDs(context.Background(), "u1", ids)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "alpha", products[0].Name)
	assert.Equal(t, "beta", products[1].Name)

	calls := fc.productCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], store.Equal("user_id", "u1"))
}

func TestFetchByIDsRejectsUnresolvedIDs(t *testing.T) {
	fc := &fakeClient{}
	fc.products = func(preds []store.Predicate) (*store.ListResult, error) {
		return pageOf(0), nil
	}

	categoryCache := cache.New(time.Minute)
	defer categoryCache.Close()
	fetcher := &Fetcher{Client: fc, Categories: categoryCache}

	missing := primitive.NewObjectID().Hex()
	_, err := fetcher.FetchByIDs(context.Background(), "u1", []string{missing})
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), missing)

	_, err = fetcher.FetchByIDs(context.Background(), "u1", []string{"not-a-hex-id"})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCategoryNamesUsesCache(t *testing.T) {
	groceries := primitive.NewObjectID()
	fc := &fakeClient{
		categories: []store.Document{categoryDoc(groceries, "u1", "Groceries")},
	}

	categoryCache := cache.New(time.Minute)
	defer categoryCache.Close()
	categoryCache.Set("u1", map[string]string{groceries.Hex(): "Cached Name"})

	fetcher := &Fetcher{Client: fc, Categories: categoryCache}
	names, err := fetcher.CategoryNames(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Cached Name", names[groceries.Hex()])
}
