package store

import (
	"context"
	"errors"
)

// Collection names understood by the client.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
)

var (
	// ErrNotFound is returned when a document does not exist for the owner.
	ErrNotFound = errors.New("document not found")

	// ErrUnknownCollection is returned for collection names the client
	// does not serve.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Document is one raw field→value record as returned by the store.
type Document map[string]any

// ListResult is a page of documents plus the total match count ignoring
// limit and offset.
type ListResult struct {
	Documents []Document
	Total     int64
}

// CollectionClient executes an ordered predicate set against a named
// document collection.
type CollectionClient interface {
	List(ctx context.Context, collection string, preds []Predicate) (*ListResult, error)
}
