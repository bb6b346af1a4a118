package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

type WishlistService struct {
	wishlists WishlistStore
	products  ProductStore
}

func NewWishlistService(wishlists WishlistStore, products ProductStore) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products}
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID primitive.ObjectID) (*models.WishlistView, error) {
	wl, err := s.wishlists.FindByUser(ctx, userID)
	if isNotFound(err) {
		return &models.WishlistView{UserID: userID, Products: []models.Product{}}, nil
	}
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindByIDs(ctx, wl.Products)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	view := &models.WishlistView{ID: wl.ID, UserID: wl.UserID, Products: []models.Product{}}
	for _, id := range wl.Products {
		if p, ok := byID[id]; ok {
			view.Products = append(view.Products, p)
		}
	}
	return view, nil
}

// AddToWishlist is idempotent: a product already present is not duplicated.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID primitive.ObjectID, productID string) (*models.WishlistView, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, pid); err != nil {
		if isNotFound(err) {
			return nil, NotFound("Product not found")
		}
		return nil, err
	}
	if err := s.wishlists.AddProduct(ctx, userID, pid); err != nil {
		return nil, err
	}
	return s.GetWishlist(ctx, userID)
}

func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID primitive.ObjectID, productID string) (*models.WishlistView, error) {
	pid, err := parseID(productID, "product")
	if err != nil {
		return nil, err
	}
	if err := s.wishlists.RemoveProduct(ctx, userID, pid); err != nil && !isNotFound(err) {
		return nil, err
	}
	return s.GetWishlist(ctx, userID)
}
