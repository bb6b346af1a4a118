package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Address represents a delivery address owned by a user. Addresses are keyed by
// their own ObjectID so updates never depend on array position.
type Address struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	FullName   string             `bson:"fullName" json:"fullName"`
	Phone      string             `bson:"phone" json:"phone"`
	Street     string             `bson:"street" json:"street"`
	City       string             `bson:"city" json:"city"`
	State      string             `bson:"state" json:"state"`
	PostalCode string             `bson:"postalCode" json:"postalCode"`
	Country    string             `bson:"country" json:"country"`
	IsDefault  bool               `bson:"isDefault" json:"isDefault"`
}

// User represents a user in the system
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password,omitempty" json:"-"`
	Role                Role               `bson:"role" json:"role"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
	VerificationToken   string             `bson:"verificationToken,omitempty" json:"-"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty" json:"-"`
	Addresses           []Address          `bson:"addresses" json:"addresses"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// FindAddress returns the index of the address with the given id, or -1.
func (u *User) FindAddress(id primitive.ObjectID) int {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			return i
		}
	}
	return -1
}
