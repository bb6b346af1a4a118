package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
	"furniture-store/policy"
	"furniture-store/utils"
)

// CheckoutInput is the order request. The prices are stored as supplied.
type CheckoutInput struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentInfo     models.PaymentInfo     `json:"paymentInfo"`
	ItemsPrice      float64                `json:"itemsPrice" validate:"gte=0"`
	ShippingPrice   float64                `json:"shippingPrice" validate:"gte=0"`
	TotalPrice      float64                `json:"totalPrice" validate:"gte=0"`
}

type OrderService struct {
	orders   OrderStore
	carts    CartStore
	products ProductStore
	users    UserStore
	notifier Notifier
	gateway  utils.PaymentGateway
	// requireSignature rejects Completed payments whose signature does not verify.
	requireSignature bool
	now              Clock
}

func NewOrderService(orders OrderStore, carts CartStore, products ProductStore, users UserStore,
	notifier Notifier, gateway utils.PaymentGateway, requireSignature bool) *OrderService {
	return &OrderService{
		orders:           orders,
		carts:            carts,
		products:         products,
		users:            users,
		notifier:         notifier,
		gateway:          gateway,
		requireSignature: requireSignature,
		now:              time.Now,
	}
}

// Checkout turns the caller's cart into an order. Stock is taken line by
// line with a guarded decrement; if any line cannot be served, or the order
// cannot be stored, every decrement already made is given back and the cart
// is left as it was.
func (s *OrderService) Checkout(ctx context.Context, p policy.Principal, in CheckoutInput) (*models.Order, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.PaymentInfo.Status == "" {
		in.PaymentInfo.Status = models.PaymentPending
	}
	if in.PaymentInfo.Status != models.PaymentPending && in.PaymentInfo.Status != models.PaymentCompleted {
		return nil, BadRequest("Invalid payment status")
	}
	if s.requireSignature && in.PaymentInfo.Status == models.PaymentCompleted {
		pi := in.PaymentInfo
		if !s.gateway.Verify(pi.GatewayOrderID, pi.PaymentID, pi.Signature) {
			return nil, BadRequest("Payment verification failed")
		}
	}

	cart, err := s.carts.FindByUser(ctx, p.UserID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, BadRequest("Cart is empty")
	}

	items, err := s.snapshot(ctx, cart)
	if err != nil {
		return nil, err
	}

	var taken []models.OrderItem
	for _, item := range items {
		ok, err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			s.restock(ctx, taken)
			return nil, err
		}
		if !ok {
			s.restock(ctx, taken)
			return nil, BadRequest("Insufficient stock for %s", item.Name)
		}
		taken = append(taken, item)
	}

	order := &models.Order{
		UserID:          p.UserID,
		OrderItems:      items,
		ShippingAddress: in.ShippingAddress,
		PaymentInfo:     in.PaymentInfo,
		ItemsPrice:      in.ItemsPrice,
		ShippingPrice:   in.ShippingPrice,
		TotalPrice:      in.TotalPrice,
		OrderStatus:     models.OrderStatusPending,
		CreatedAt:       s.now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.restock(ctx, taken)
		return nil, fmt.Errorf("create order: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{"order": order.ID.Hex(), "user": p.UserID.Hex()})
	if err := s.carts.Clear(ctx, p.UserID); err != nil {
		log.WithError(err).Error("order placed but cart was not cleared")
	}
	log.WithField("total", order.TotalPrice).Info("order placed")

	s.notify(ctx, order, func(u *models.User) error {
		return s.notifier.SendOrderConfirmationEmail(ctx, u.Email, u.Name, order)
	})
	return order, nil
}

// snapshot copies each cart line into an order line.
func (s *OrderService) snapshot(ctx context.Context, cart *models.Cart) ([]models.OrderItem, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, NotFound("Product %s is no longer available", line.ProductID.Hex())
		}
		if !product.IsActive {
			return nil, BadRequest("%s is no longer available", product.Name)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.PrimaryImage(),
		})
	}
	return items, nil
}

// restock returns the units taken by an aborted checkout.
func (s *OrderService) restock(ctx context.Context, taken []models.OrderItem) {
	ctx = context.WithoutCancel(ctx)
	var result *multierror.Error
	for _, item := range taken {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			result = multierror.Append(result, fmt.Errorf("product %s (+%d): %w", item.ProductID.Hex(), item.Quantity, err))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		logrus.WithError(err).Error("failed to restore stock after aborted checkout")
	}
}

// notify looks up the order's customer and runs send, logging any failure.
func (s *OrderService) notify(ctx context.Context, order *models.Order, send func(*models.User) error) {
	log := logrus.WithField("order", order.ID.Hex())
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		log.WithError(err).Warn("could not load customer for notification")
		return
	}
	if err := send(user); err != nil {
		log.WithError(err).Error("failed to send order email")
	}
}
