package services

import (
	"context"
	"errors"

	"furniture-store/models"
	"furniture-store/utils"
)

type PaymentService struct {
	gateway utils.PaymentGateway
}

func NewPaymentService(gateway utils.PaymentGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

type VerifyPaymentInput struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// CreatePaymentOrder opens a gateway order for amount (major units).
func (s *PaymentService) CreatePaymentOrder(ctx context.Context, amount float64) (*models.PaymentOrder, error) {
	if amount <= 0 {
		return nil, BadRequest("Amount must be greater than 0")
	}
	if !s.gateway.Configured() {
		return nil, Unavailable("Payment gateway is not configured")
	}
	order, err := s.gateway.CreateOrder(ctx, amount)
	if errors.Is(err, utils.ErrGatewayNotConfigured) {
		return nil, Unavailable("Payment gateway is not configured")
	}
	return order, err
}

// VerifyPayment checks the signature the gateway handed to the client.
func (s *PaymentService) VerifyPayment(in VerifyPaymentInput) (bool, error) {
	if err := check(in); err != nil {
		return false, err
	}
	if !s.gateway.Configured() {
		return false, Unavailable("Payment gateway is not configured")
	}
	return s.gateway.Verify(in.OrderID, in.PaymentID, in.Signature), nil
}
