package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrMalformedDocument is returned when a stored document cannot be parsed
// into a typed record.
var ErrMalformedDocument = errors.New("malformed document")

// Product is a catalog entry owned by a single user.
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID     string             `json:"owner_id" bson:"user_id"`
	Name        string             `json:"name" bson:"name" binding:"required"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64            `json:"price" bson:"price"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	CategoryID  string             `json:"category_id" bson:"category_id"`
	ImageURL    string             `json:"image_url" bson:"image_url"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// Validate checks the invariants enforced on create and update.
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if p.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}

// DecoratedProduct augments a Product with its resolved category label.
// The decoration is derived per fetch cycle and never persisted.
type DecoratedProduct struct {
	Product
	CategoryName string `json:"category_name"`
}

// UnknownCategory is the label used when a product references a category
// that no longer resolves.
const UnknownCategory = "Unknown"

// Decorate resolves the category label for a product against a lookup map.
func Decorate(p Product, categories map[string]string) DecoratedProduct {
	name, ok := categories[p.CategoryID]
	if !ok {
		name = UnknownCategory
	}
	return DecoratedProduct{Product: p, CategoryName: name}
}

// PageResult is one page of decorated products plus the total match count
// across all pages of the current predicate set.
type PageResult struct {
	Items []DecoratedProduct `json:"items"`
	Total int64              `json:"total"`
}

// ParseProduct converts a raw store document into a validated Product.
// Documents with missing or mistyped fields are rejected rather than
// propagated with zero values.
func ParseProduct(doc map[string]any) (Product, error) {
	var p Product

	id, err := docID(doc)
	if err != nil {
		return p, err
	}
	p.ID = id

	p.OwnerID, err = docString(doc, "user_id", true)
	if err != nil {
		return p, err
	}
	p.Name, err = docString(doc, "name", true)
	if err != nil {
		return p, err
	}
	p.Description, err = docString(doc, "description", false)
	if err != nil {
		return p, err
	}
	p.CategoryID, err = docString(doc, "category_id", false)
	if err != nil {
		return p, err
	}
	p.ImageURL, err = docString(doc, "image_url", false)
	if err != nil {
		return p, err
	}

	price, err := docNumber(doc, "price")
	if err != nil {
		return p, err
	}
	if price < 0 {
		return p, fmt.Errorf("%w: negative price", ErrMalformedDocument)
	}
	p.Price = price

	qty, err := docNumber(doc, "quantity")
	if err != nil {
		return p, err
	}
	if qty < 0 {
		return p, fmt.Errorf("%w: negative quantity", ErrMalformedDocument)
	}
	if qty != math.Trunc(qty) {
		return p, fmt.Errorf("%w: non-integral quantity %v", ErrMalformedDocument, qty)
	}
	p.Quantity = int(qty)

	p.CreatedAt, err = docTime(doc, "created_at")
	if err != nil {
		return p, err
	}

	return p, nil
}

func docID(doc map[string]any) (primitive.ObjectID, error) {
	raw, ok := doc["_id"]
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: missing _id", ErrMalformedDocument)
	}
	switch v := raw.(type) {
	case primitive.ObjectID:
		return v, nil
	case string:
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return primitive.NilObjectID, fmt.Errorf("%w: invalid _id %q", ErrMalformedDocument, v)
		}
		return id, nil
	default:
		return primitive.NilObjectID, fmt.Errorf("%w: _id has type %T", ErrMalformedDocument, raw)
	}
}

func docString(doc map[string]any, field string, required bool) (string, error) {
	raw, ok := doc[field]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("%w: missing field %q", ErrMalformedDocument, field)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: field %q has type %T", ErrMalformedDocument, field, raw)
	}
	if required && s == "" {
		return "", fmt.Errorf("%w: empty field %q", ErrMalformedDocument, field)
	}
	return s, nil
}

func docNumber(doc map[string]any, field string) (float64, error) {
	raw, ok := doc[field]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing field %q", ErrMalformedDocument, field)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: field %q has type %T", ErrMalformedDocument, field, raw)
	}
}

func docTime(doc map[string]any, field string) (time.Time, error) {
	raw, ok := doc[field]
	if !ok || raw == nil {
		return time.Time{}, nil
	}
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case primitive.DateTime:
		return v.Time(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: field %q has type %T", ErrMalformedDocument, field, raw)
	}
}
