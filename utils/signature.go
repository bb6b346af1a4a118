package utils

import (
	rzputils "github.com/razorpay/razorpay-go/utils"
)

// VerifyPaymentSignature checks the signature the gateway hands the client at
// checkout: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	return rzputils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, secret)
}
