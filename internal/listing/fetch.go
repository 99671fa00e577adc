package listing

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"catalogforge/internal/cache"
	"catalogforge/internal/models"
	"catalogforge/internal/store"
)

// Fetcher executes one listing cycle: resolve the owner's category lookup
// map (cache-assisted), run the composed product query, and parse and
// decorate the resulting page.
type Fetcher struct {
	Client     store.CollectionClient
	Categories *cache.CategoryCache
}

// FetchPage runs the query and returns one decorated page.
func (f *Fetcher) FetchPage(ctx context.Context, q store.ListQuery) (*models.PageResult, error) {
	names, err := f.CategoryNames(ctx, q.OwnerID)
	if err != nil {
		return nil, err
	}

	preds, err := store.Compose(q)
	if err != nil {
		return nil, err
	}

	res, err := f.Client.List(ctx, store.CollectionProducts, preds)
	if err != nil {
		return nil, err
	}

	items := make([]models.DecoratedProduct, 0, len(res.Documents))
	for _, doc := range res.Documents {
		product, err := models.ParseProduct(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing product: %w", err)
		}
		items = append(items, models.Decorate(product, names))
	}

	return &models.PageResult{Items: items, Total: res.Total}, nil
}

// FetchByIDs resolves product ids directly against the owner's collection,
// decorated and in the requested order. Any page of the listing can feed a
// selection, so the lookup is by id, never against a bounded page. An id
// that does not resolve to one of the owner's products is an error rather
// than a silently dropped row.
func (f *Fetcher) FetchByIDs(ctx context.Context, ownerID string, ids []string) ([]models.DecoratedProduct, error) {
	names, err := f.CategoryNames(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	objIDs := make([]any, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid product id %q", store.ErrNotFound, id)
		}
		objIDs = append(objIDs, objID)
	}

	res, err := f.Client.List(ctx, store.CollectionProducts, []store.Predicate{
		store.Equal("user_id", ownerID),
		store.In("_id", objIDs),
	})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.DecoratedProduct, len(res.Documents))
	for _, doc := range res.Documents {
		product, err := models.ParseProduct(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing product: %w", err)
		}
		byID[product.ID.Hex()] = models.Decorate(product, names)
	}

	products := make([]models.DecoratedProduct, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown product id %q", store.ErrNotFound, id)
		}
		products = append(products, item)
	}
	return products, nil
}

// CategoryNames returns the owner's id → name lookup map, fetching the
// categories collection on cache miss. Categories are never paginated.
func (f *Fetcher) CategoryNames(ctx context.Context, ownerID string) (map[string]string, error) {
	if f.Categories != nil {
		if names, ok := f.Categories.Get(ownerID); ok {
			return names, nil
		}
	}

	res, err := f.Client.List(ctx, store.CollectionCategories,
		[]store.Predicate{store.Equal("user_id", ownerID)})
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(res.Documents))
	for _, doc := range res.Documents {
		category, err := models.ParseCategory(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing category: %w", err)
		}
		categories = append(categories, category)
	}

	names := models.CategoryNames(categories)
	if f.Categories != nil {
		f.Categories.Set(ownerID, names)
	}
	return names, nil
}

// ListCategories returns the owner's categories for filter controls.
func (f *Fetcher) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	res, err := f.Client.List(ctx, store.CollectionCategories,
		[]store.Predicate{store.Equal("user_id", ownerID)})
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(res.Documents))
	for _, doc := range res.Documents {
		category, err := models.ParseCategory(doc)
		if err != nil {
			return nil, fmt.Errorf("parsing category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}
