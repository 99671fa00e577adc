package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalogforge/internal/models"
)

const (
	writeTimeout = 5 * time.Second
	queryTimeout = 10 * time.Second
)

// Mongo serves the products and categories collections of one database.
type Mongo struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{
		products:   db.Collection(CollectionProducts),
		categories: db.Collection(CollectionCategories),
	}
}

// List executes an ordered predicate set and returns the matching page of
// documents together with the total match count. The count runs concurrently
// with the page query against the same filter.
func (m *Mongo) List(ctx context.Context, collection string, preds []Predicate) (*ListResult, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	coll, err := m.collection(collection)
	if err != nil {
		return nil, err
	}

	filter, opts, err := translate(preds)
	if err != nil {
		return nil, err
	}

	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)
	go func() {
		total, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", collection, err)
	}

	docs := make([]Document, len(raw))
	for i, d := range raw {
		docs[i] = Document(d)
	}

	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return nil, fmt.Errorf("counting %s: %w", collection, err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &ListResult{Documents: docs, Total: total}, nil
}

func (m *Mongo) collection(name string) (*mongo.Collection, error) {
	switch name {
	case CollectionProducts:
		return m.products, nil
	case CollectionCategories:
		return m.categories, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
}

// translate converts an ordered predicate set into a bson filter and find
// options. Text search becomes a case-insensitive regex over the field with
// the term treated literally.
func translate(preds []Predicate) (bson.M, *options.FindOptions, error) {
	filter := bson.M{}
	opts := options.Find()
	sort := bson.D{}

	for _, p := range preds {
		switch p.Kind {
		case KindEqual:
			filter[p.Field] = p.Value
		case KindIn:
			values, ok := p.Value.([]any)
			if !ok {
				return nil, nil, fmt.Errorf("in predicate on %q has non-slice value %v", p.Field, p.Value)
			}
			filter[p.Field] = bson.M{"$in": values}
		case KindSearch:
			term, ok := p.Value.(string)
			if !ok {
				return nil, nil, fmt.Errorf("search predicate on %q has non-string term", p.Field)
			}
			filter[p.Field] = bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
		case KindOrder:
			order := 1
			if p.Descending {
				order = -1
			}
			sort = append(sort, bson.E{Key: p.Field, Value: order})
		case KindLimit:
			n, ok := p.Value.(int)
			if !ok || n < 0 {
				return nil, nil, fmt.Errorf("limit predicate has invalid value %v", p.Value)
			}
			opts.SetLimit(int64(n))
		case KindOffset:
			n, ok := p.Value.(int)
			if !ok || n < 0 {
				return nil, nil, fmt.Errorf("offset predicate has invalid value %v", p.Value)
			}
			opts.SetSkip(int64(n))
		default:
			return nil, nil, fmt.Errorf("unknown predicate kind %d", p.Kind)
		}
	}

	if len(sort) > 0 {
		opts.SetSort(sort)
	}

	return filter, opts, nil
}

// CreateProduct inserts a new product for its owner.
func (m *Mongo) CreateProduct(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()

	_, err := m.products.InsertOne(ctx, product)
	return err
}

// GetProduct fetches one product by id, scoped to its owner.
func (m *Mongo) GetProduct(ctx context.Context, ownerID, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID")
	}

	var product models.Product
	filter := bson.M{"_id": objID, "user_id": ownerID}
	if err := m.products.FindOne(ctx, filter).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// UpdateProduct applies a partial update to an owner's product.
func (m *Mongo) UpdateProduct(ctx context.Context, ownerID, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}

	filter := bson.M{"_id": objID, "user_id": ownerID}
	result, err := m.products.UpdateOne(ctx, filter, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteProduct removes an owner's product.
func (m *Mongo) DeleteProduct(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}

	result, err := m.products.DeleteOne(ctx, bson.M{"_id": objID, "user_id": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// CreateCategory inserts a new category for its owner.
func (m *Mongo) CreateCategory(ctx context.Context, category *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	category.ID = primitive.NewObjectID()

	_, err := m.categories.InsertOne(ctx, category)
	return err
}

// DeleteCategory removes an owner's category. Products referencing it keep
// their stored category id; their decorated label falls back to "Unknown" on
// the next fetch cycle.
func (m *Mongo) DeleteCategory(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid category ID")
	}

	result, err := m.categories.DeleteOne(ctx, bson.M{"_id": objID, "user_id": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
