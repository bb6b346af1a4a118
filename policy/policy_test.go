package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

func TestAllow(t *testing.T) {
	anon := Principal{}
	user := Principal{UserID: primitive.NewObjectID(), Role: models.RoleUser}
	admin := Principal{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}

	tests := []struct {
		name     string
		p        Principal
		resource Resource
		action   Action
		want     bool
	}{
		{"anyone reads products", anon, Products, Read, true},
		{"anyone submits workshop request", anon, Workshop, Create, true},
		{"anyone consumes invite", anon, Invites, Consume, true},
		{"anonymous has no cart", anon, Cart, Read, false},
		{"anonymous cannot place orders", anon, Orders, Create, false},
		{"user uses cart", user, Cart, Create, true},
		{"user places orders", user, Orders, Create, true},
		{"user opens payments", user, Payments, Create, true},
		{"user cannot create products", user, Products, Create, false},
		{"user cannot reach back-office", user, BackOffice, Read, false},
		{"user cannot create invites", user, Invites, Create, false},
		{"admin creates products", admin, Products, Create, true},
		{"admin reaches back-office", admin, BackOffice, Read, true},
		{"admin creates invites", admin, Invites, Create, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.p, tt.resource, tt.action))
		})
	}
}

func TestOwns(t *testing.T) {
	owner := primitive.NewObjectID()
	assert.True(t, Principal{UserID: owner, Role: models.RoleUser}.Owns(owner))
	assert.False(t, Principal{UserID: primitive.NewObjectID(), Role: models.RoleUser}.Owns(owner))
	assert.True(t, Principal{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}.Owns(owner))
	assert.False(t, Principal{Role: models.RoleAdmin}.Owns(owner))
}
