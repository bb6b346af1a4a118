package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"furniture-store/models"
)

type CartRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cart models.Cart
	if err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&cart); err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

// Save upserts the user's cart.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"user": cart.UserID}, cart, options.Replace().SetUpsert(true))
	if err != nil {
		return translate(err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"user": userID}, bson.M{"$set": bson.M{"items": bson.A{}}})
	return err
}
