package services

import (
	"context"

	"furniture-store/models"
)

const (
	lowStockThreshold = 5
	recentOrderCount  = 5
)

type Dashboard struct {
	TotalUsers    int64            `json:"totalUsers"`
	TotalProducts int64            `json:"totalProducts"`
	TotalOrders   int64            `json:"totalOrders"`
	TotalRevenue  float64          `json:"totalRevenue"`
	RecentOrders  []models.Order   `json:"recentOrders"`
	LowStock      []models.Product `json:"lowStockProducts"`
}

type AdminService struct {
	users     UserStore
	products  ProductStore
	orders    OrderStore
	workshops WorkshopStore
}

func NewAdminService(users UserStore, products ProductStore, orders OrderStore, workshops WorkshopStore) *AdminService {
	return &AdminService{users: users, products: products, orders: orders, workshops: workshops}
}

// Dashboard gathers the back-office summary. Revenue excludes cancelled orders.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error
	if d.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, err
	}
	if d.TotalRevenue, err = s.orders.Revenue(ctx); err != nil {
		return nil, err
	}
	if d.RecentOrders, err = s.orders.Recent(ctx, recentOrderCount); err != nil {
		return nil, err
	}
	if d.LowStock, err = s.products.LowStock(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes a customer account. Admin accounts cannot be deleted.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	oid, err := parseID(id, "user")
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, oid)
	if isNotFound(err) {
		return NotFound("User not found")
	}
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return BadRequest("Cannot delete admin user")
	}
	if err := s.users.Delete(ctx, oid); err != nil {
		if isNotFound(err) {
			return NotFound("User not found")
		}
		return err
	}
	return nil
}

func (s *AdminService) ListWorkshopRequests(ctx context.Context) ([]models.WorkshopRequest, error) {
	return s.workshops.List(ctx)
}
