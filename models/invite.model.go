package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminInvite is a one-time token that grants the admin role.
type AdminInvite struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"_id,omitempty"`
	Token     string              `bson:"token" json:"token"`
	Email     string              `bson:"email" json:"email"`
	ExpiresAt time.Time           `bson:"expiresAt" json:"expiresAt"`
	Used      bool                `bson:"used" json:"used"`
	UsedAt    *time.Time          `bson:"usedAt,omitempty" json:"usedAt,omitempty"`
	CreatedBy *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

func (i *AdminInvite) ExpiredAt(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
