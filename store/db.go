// Package store holds the MongoDB repositories for every collection.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"furniture-store/config"
)

const (
	UsersCollection     = "users"
	ProductsCollection  = "products"
	CartsCollection     = "carts"
	WishlistsCollection = "wishlists"
	OrdersCollection    = "orders"
	InvitesCollection   = "admininvites"
	WorkshopCollection  = "workshoprequests"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Store owns the Mongo client and hands out repositories bound to one database.
type Store struct {
	Client  *mongo.Client
	DB      *mongo.Database
	timeout time.Duration
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logrus.WithField("database", cfg.Database).Info("connected to MongoDB")

	return &Store{
		Client:  client,
		DB:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
	}, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{coll: s.DB.Collection(UsersCollection), timeout: s.timeout}
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{coll: s.DB.Collection(ProductsCollection), timeout: s.timeout}
}

func (s *Store) Carts() *CartRepository {
	return &CartRepository{coll: s.DB.Collection(CartsCollection), timeout: s.timeout}
}

func (s *Store) Wishlists() *WishlistRepository {
	return &WishlistRepository{coll: s.DB.Collection(WishlistsCollection), timeout: s.timeout}
}

func (s *Store) Orders() *OrderRepository {
	return &OrderRepository{coll: s.DB.Collection(OrdersCollection), timeout: s.timeout}
}

func (s *Store) Invites() *InviteRepository {
	return &InviteRepository{coll: s.DB.Collection(InvitesCollection), timeout: s.timeout}
}

func (s *Store) Workshops() *WorkshopRepository {
	return &WorkshopRepository{coll: s.DB.Collection(WorkshopCollection), timeout: s.timeout}
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 4*s.timeout)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "verificationToken", Value: 1}}, Options: options.Index().SetSparse(true)},
			{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		ProductsCollection: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "price", Value: 1}}},
		},
		CartsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		WishlistsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		InvitesCollection: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, idx := range indexes {
		if _, err := s.DB.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
		logrus.WithField("collection", name).Debug("indexes ensured")
	}
	return nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
