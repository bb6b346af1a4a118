package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkshopRequest is a custom-furniture enquiry from the contact form.
type WorkshopRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone" json:"phone"`
	Requirement string             `bson:"requirement" json:"requirement"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
