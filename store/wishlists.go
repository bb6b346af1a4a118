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

type WishlistRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *WishlistRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var wishlist models.Wishlist
	if err := r.coll.FindOne(ctx, bson.M{"user": userID}).Decode(&wishlist); err != nil {
		return nil, translate(err)
	}
	return &wishlist, nil
}

// AddProduct inserts productID into the user's set, creating the wishlist on first use.
func (r *WishlistRepository) AddProduct(ctx context.Context, userID, productID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$addToSet": bson.M{"products": productID}},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}

func (r *WishlistRepository) RemoveProduct(ctx context.Context, userID, productID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user": userID},
		bson.M{"$pull": bson.M{"products": productID}},
	)
	return err
}
