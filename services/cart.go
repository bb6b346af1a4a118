package services

import (
	"context"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) load(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if isNotFound(err) {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	return cart, err
}

// GetCart returns the user's cart with products loaded. Lines whose product
// no longer exists are left out of the view.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if isNotFound(err) {
		cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &models.CartView{ID: cart.ID, UserID: cart.UserID, Items: []models.CartLine{}}
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		p, ok := byID[item.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, models.CartLine{Product: p, Quantity: item.Quantity})
		subtotal = subtotal.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	view.Subtotal = subtotal.Round(2).InexactFloat64()
	return view, nil
}

// AddToCart adds qty units of the product, summing with an existing line.
// Stock is checked against qty alone.
func (s *CartService) AddToCart(ctx context.Context, userID primitive.ObjectID, productID string, qty int) (*models.CartView, error) {
	if qty < 1 {
		return nil, BadRequest("Quantity must be at least 1")
	}
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, pid)
	if isNotFound(err) || (err == nil && !product.IsActive) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}
	if qty > product.Stock {
		return nil, BadRequest("Insufficient stock")
	}

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(pid); i >= 0 {
		cart.Items[i].Quantity += qty
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: pid, Quantity: qty})
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// UpdateCartItem sets the line's quantity; qty <= 0 removes the line.
func (s *CartService) UpdateCartItem(ctx context.Context, userID primitive.ObjectID, productID string, qty int) (*models.CartView, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	i := cart.Find(pid)
	if i < 0 {
		return nil, NotFound("Item not in cart")
	}
	if qty <= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
	} else {
		cart.Items[i].Quantity = qty
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID primitive.ObjectID, productID string) (*models.CartView, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if i := cart.Find(pid); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.Clear(ctx, userID)
}
