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

type WorkshopRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func (r *WorkshopRepository) Create(ctx context.Context, req *models.WorkshopRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return err
	}
	req.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *WorkshopRepository) List(ctx context.Context) ([]models.WorkshopRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	requests := []models.WorkshopRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
