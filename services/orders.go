package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"furniture-store/models"
	"furniture-store/policy"
)

func (s *OrderService) MyOrders(ctx context.Context, p policy.Principal) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, p.UserID)
}

// GetOrder returns an order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, p policy.Principal, id string) (*models.Order, error) {
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, oid)
	if isNotFound(err) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	if !p.Owns(order.UserID) {
		return nil, Forbidden("Not authorized to view this order")
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.List(ctx)
}

// UpdateOrderStatus moves the order along its status flow. Backward moves and
// moves out of Delivered or Cancelled are rejected.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, BadRequest("Invalid order status")
	}
	oid, err := parseID(id, "order")
	if err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, oid)
	if isNotFound(err) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	if !order.OrderStatus.CanTransition(next) {
		return nil, BadRequest("Cannot change order status from %s to %s", order.OrderStatus, next)
	}

	if next == models.OrderStatusDelivered {
		now := s.now()
		order.DeliveredAt = &now
	}
	if err := s.orders.UpdateStatus(ctx, oid, next, order.DeliveredAt); err != nil {
		if isNotFound(err) {
			return nil, NotFound("Order not found")
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order": id, "from": order.OrderStatus, "to": next}).Info("order status changed")
	order.OrderStatus = next

	s.notify(ctx, order, func(u *models.User) error {
		return s.notifier.SendOrderStatusEmail(ctx, u.Email, u.Name, order)
	})
	return order, nil
}
