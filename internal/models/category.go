package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is a per-owner lookup entry used to decorate products.
// Categories are never paginated.
type Category struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OwnerID string             `json:"owner_id" bson:"user_id"`
	Name    string             `json:"name" bson:"name" binding:"required"`
}

// ParseCategory converts a raw store document into a validated Category.
func ParseCategory(doc map[string]any) (Category, error) {
	var c Category

	id, err := docID(doc)
	if err != nil {
		return c, err
	}
	c.ID = id

	c.OwnerID, err = docString(doc, "user_id", true)
	if err != nil {
		return c, err
	}
	c.Name, err = docString(doc, "name", true)
	if err != nil {
		return c, err
	}

	return c, nil
}

// CategoryNames builds the id → name lookup map used for decoration.
func CategoryNames(categories []Category) map[string]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID.Hex()] = c.Name
	}
	return names
}

// ProductUpdate holds the fields a partial product update may change.
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

// Validate rejects updates that would break product invariants.
func (u *ProductUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if u.Price != nil && *u.Price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if u.Quantity != nil && *u.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	return nil
}
