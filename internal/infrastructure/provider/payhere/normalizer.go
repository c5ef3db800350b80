package payhere

import (
	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
)

// Field aliases in resolution order: snake_case, camelCase, generic
var (
	merchantIDKeys   = []string{"merchant_id", "merchantId", "merchant"}
	orderIDKeys      = []string{"order_id", "orderId", "order"}
	pspPaymentIDKeys = []string{"payment_id", "paymentId"}
	statusCodeKeys   = []string{"status_code", "statusCode", "status"}
	amountKeys       = []string{"payhere_amount", "amount"}
	currencyKeys     = []string{"payhere_currency", "currency"}
	signatureKeys    = []string{"md5sig"}
	referenceKeys    = []string{"reference", "merchant_reference"}
)

// Normalizer converts PayHere notification bodies into provider.NotificationPayload
type Normalizer struct{}

// NewNormalizer creates a PayHere payload normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize never fails. Unparseable bodies yield a payload with only Raw set.
func (n *Normalizer) Normalize(rawBody []byte) *provider.NotificationPayload {
	body := decodeBody(rawBody)

	return &provider.NotificationPayload{
		MerchantID:   body.first(merchantIDKeys...),
		OrderID:      body.first(orderIDKeys...),
		PspPaymentID: body.first(pspPaymentIDKeys...),
		StatusCode:   provider.ParseStatusCode(body.first(statusCodeKeys...)),
		Amount:       body.first(amountKeys...),
		Currency:     body.first(currencyKeys...),
		Signature:    body.first(signatureKeys...),
		Reference:    body.first(referenceKeys...),
		Raw:          body.raw,
	}
}
