package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Wishlist is a per-user set of product references.
type Wishlist struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID   primitive.ObjectID   `bson:"user" json:"user"`
	Products []primitive.ObjectID `bson:"products" json:"products"`
}

type WishlistView struct {
	ID       primitive.ObjectID `json:"_id"`
	UserID   primitive.ObjectID `json:"user"`
	Products []Product          `json:"products"`
}
