package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/store"
	"furniture-store/utils"
)

// The interfaces below are the slices of the store package each service
// needs. *store.XRepository satisfies them; tests use in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*models.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Find(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) (bool, error)
	IncrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	Count(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold int) ([]models.Product, error)
}

type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type WishlistStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Wishlist, error)
	AddProduct(ctx context.Context, userID, productID primitive.ObjectID) error
	RemoveProduct(ctx context.Context, userID, productID primitive.ObjectID) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Recent(ctx context.Context, limit int64) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) error
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (float64, error)
}

type InviteStore interface {
	Create(ctx context.Context, invite *models.AdminInvite) error
	FindByToken(ctx context.Context, token string) (*models.AdminInvite, error)
	Claim(ctx context.Context, token string, now time.Time) (bool, error)
	Release(ctx context.Context, token string) error
	List(ctx context.Context) ([]models.AdminInvite, error)
}

type WorkshopStore interface {
	Create(ctx context.Context, req *models.WorkshopRequest) error
	List(ctx context.Context) ([]models.WorkshopRequest, error)
}

// Notifier sends the transactional emails. *utils.EmailService implements it.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
	SendOrderConfirmationEmail(ctx context.Context, to, name string, order *models.Order) error
	SendOrderStatusEmail(ctx context.Context, to, name string, order *models.Order) error
	SendAdminInviteEmail(ctx context.Context, to, token string, expiresAt time.Time) error
	SendWorkshopRequestEmail(ctx context.Context, to string, req *models.WorkshopRequest) error
}

var (
	_ UserStore     = (*store.UserRepository)(nil)
	_ ProductStore  = (*store.ProductRepository)(nil)
	_ CartStore     = (*store.CartRepository)(nil)
	_ WishlistStore = (*store.WishlistRepository)(nil)
	_ OrderStore    = (*store.OrderRepository)(nil)
	_ InviteStore   = (*store.InviteRepository)(nil)
	_ WorkshopStore = (*store.WorkshopRepository)(nil)
	_ Notifier      = (*utils.EmailService)(nil)
)

func isNotFound(err error) bool { return errors.Is(err, store.ErrNotFound) }

// Clock is overridden in tests.
type Clock func() time.Time
