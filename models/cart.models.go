package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product" json:"product"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart represents a user's shopping cart
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// Find returns the index of the line for productID, or -1.
func (c *Cart) Find(productID primitive.ObjectID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// CartLine is a cart item with its product loaded.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartView is the populated cart returned to clients.
type CartView struct {
	ID       primitive.ObjectID `json:"_id"`
	UserID   primitive.ObjectID `json:"user"`
	Items    []CartLine         `json:"items"`
	Subtotal float64            `json:"subtotal"`
}
