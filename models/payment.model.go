package models

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
)

// PaymentInfo holds the gateway identifiers reported for an order.
type PaymentInfo struct {
	GatewayOrderID string        `bson:"razorpayOrderId" json:"razorpayOrderId"`
	PaymentID      string        `bson:"razorpayPaymentId" json:"razorpayPaymentId"`
	Signature      string        `bson:"razorpaySignature" json:"razorpaySignature"`
	Status         PaymentStatus `bson:"status" json:"status"`
}

// PaymentOrder is the handle returned to the client to open the gateway checkout.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	KeyID    string `json:"keyId"`
}
