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

type InviteRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *InviteRepository) Create(ctx context.Context, invite *models.AdminInvite) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, invite)
	if err != nil {
		return translate(err)
	}
	invite.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *InviteRepository) FindByToken(ctx context.Context, token string) (*models.AdminInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var invite models.AdminInvite
	if err := r.coll.FindOne(ctx, bson.M{"token": token}).Decode(&invite); err != nil {
		return nil, translate(err)
	}
	return &invite, nil
}

// Claim flips used to true only for an unused invite that has not expired at
// now. Exactly one concurrent caller gets true.
func (r *InviteRepository) Claim(ctx context.Context, token string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"token": token, "used": false, "expiresAt": bson.M{"$gt": now}},
		bson.M{"$set": bson.M{"used": true, "usedAt": now}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Release undoes a Claim when the account change that followed it failed.
func (r *InviteRepository) Release(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"token": token},
		bson.M{"$set": bson.M{"used": false}, "$unset": bson.M{"usedAt": ""}},
	)
	return err
}

func (r *InviteRepository) List(ctx context.Context) ([]models.AdminInvite, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	invites := []models.AdminInvite{}
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}
