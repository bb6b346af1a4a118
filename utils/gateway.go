package utils

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
	"github.com/teris-io/shortid"

	"furniture-store/config"
	"furniture-store/models"
)

var ErrGatewayNotConfigured = errors.New("payment gateway is not configured")

// PaymentGateway opens orders with the payment processor and verifies the
// signatures it returns.
type PaymentGateway interface {
	Configured() bool
	CreateOrder(ctx context.Context, amount float64) (*models.PaymentOrder, error)
	Verify(orderID, paymentID, signature string) bool
}

// ToMinorUnits converts a major-unit amount (rupees) to minor units (paise).
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type RazorpayGateway struct {
	client   *razorpay.Client
	keyID    string
	secret   string
	currency string
}

func NewRazorpayGateway(cfg config.PaymentConfig) *RazorpayGateway {
	g := &RazorpayGateway{keyID: cfg.RazorpayKeyID, secret: cfg.RazorpayKeySecret, currency: cfg.Currency}
	if g.currency == "" {
		g.currency = "INR"
	}
	if g.Configured() {
		g.client = razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	return g
}

func (g *RazorpayGateway) Configured() bool {
	return g.keyID != "" && g.secret != ""
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount float64) (*models.PaymentOrder, error) {
	if !g.Configured() {
		return nil, ErrGatewayNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	receipt, err := shortid.Generate()
	if err != nil {
		return nil, err
	}
	minor := ToMinorUnits(amount)
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   minor,
		"currency": g.currency,
		"receipt":  "rcpt_" + receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order: %w", err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay order: missing id in response")
	}
	return &models.PaymentOrder{
		ID:       id,
		Amount:   minor,
		Currency: g.currency,
		Receipt:  "rcpt_" + receipt,
		KeyID:    g.keyID,
	}, nil
}

func (g *RazorpayGateway) Verify(orderID, paymentID, signature string) bool {
	if g.secret == "" {
		return false
	}
	return VerifyPaymentSignature(g.secret, orderID, paymentID, signature)
}
