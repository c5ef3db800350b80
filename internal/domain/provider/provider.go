package provider

import (
	"net/http"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/model"
)

// SignatureVerifier authenticates a notification against the exact bytes received
type SignatureVerifier interface {
	// Verify returns true only when the notification carries a valid signature.
	// It never panics on malformed input.
	Verify(rawBody []byte, header http.Header) bool

	// Scheme returns the verification scheme name
	Scheme() string
}

// PayloadNormalizer converts a raw notification body into the canonical payload
type PayloadNormalizer interface {
	Normalize(rawBody []byte) *NotificationPayload
}

// StatusMapper maps a PSP status code to a canonical payment status
type StatusMapper interface {
	Map(code StatusCode) model.PaymentStatus
}

// Signature schemes
const (
	SchemeFieldHash = "field_hash"
	SchemeHMACBody  = "hmac_body"
)

// NotificationPayload is the canonical form of a PSP notification.
// Raw holds the full parsed structure, or the body string when it could not be parsed.
type NotificationPayload struct {
	MerchantID   string     `json:"merchantId,omitempty"`
	OrderID      string     `json:"orderId,omitempty"`
	PspPaymentID string     `json:"pspPaymentId,omitempty"`
	StatusCode   StatusCode `json:"statusCode"`
	Amount       string     `json:"amount,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	Signature    string     `json:"signature,omitempty"`
	Reference    string     `json:"reference,omitempty"`
	Raw          any        `json:"raw"`
}
