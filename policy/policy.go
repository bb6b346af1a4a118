// Package policy decides which callers may perform which operations. Handlers
// consult it through middleware.Require; services use it for ownership checks.
package policy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

// Principal is the authenticated caller. The zero value is an anonymous caller.
type Principal struct {
	UserID primitive.ObjectID
	Role   models.Role
}

func (p Principal) Anonymous() bool { return p.UserID.IsZero() }

func (p Principal) IsAdmin() bool { return !p.Anonymous() && p.Role == models.RoleAdmin }

// Owns reports whether p may see a record belonging to owner.
func (p Principal) Owns(owner primitive.ObjectID) bool {
	return p.IsAdmin() || (!p.Anonymous() && p.UserID == owner)
}

type Resource string

const (
	Products   Resource = "products"
	Cart       Resource = "cart"
	Wishlist   Resource = "wishlist"
	Orders     Resource = "orders"
	Payments   Resource = "payments"
	Profile    Resource = "profile"
	Workshop   Resource = "workshop"
	Invites    Resource = "invites"
	BackOffice Resource = "admin"
)

type Action string

const (
	Read    Action = "read"
	Create  Action = "create"
	Update  Action = "update"
	Delete  Action = "delete"
	Consume Action = "consume"
)

type rule struct {
	resource Resource
	action   Action
}

var anonymousRules = map[rule]bool{
	{Products, Read}:   true,
	{Workshop, Create}: true,
	{Invites, Read}:    true,
	{Invites, Consume}: true,
}

var userRules = map[rule]bool{
	{Cart, Read}:       true,
	{Cart, Create}:     true,
	{Cart, Update}:     true,
	{Cart, Delete}:     true,
	{Wishlist, Read}:   true,
	{Wishlist, Create}: true,
	{Wishlist, Delete}: true,
	{Orders, Read}:     true,
	{Orders, Create}:   true,
	{Payments, Create}: true,
	{Payments, Update}: true,
	{Profile, Read}:    true,
	{Profile, Update}:  true,
}

// Allow reports whether p may perform action on resource. Admins may do
// everything; signed-in users get their own rules plus the anonymous ones.
func Allow(p Principal, resource Resource, action Action) bool {
	r := rule{resource, action}
	if anonymousRules[r] {
		return true
	}
	if p.Anonymous() {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	return userRules[r]
}
