package payhere

import (
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
)

// FieldHashVerifier verifies the md5sig field PayHere sends with every notification:
//
//	UPPER(MD5(merchant_id + order_id + payhere_amount + payhere_currency + status_code + UPPER(MD5(secret))))
type FieldHashVerifier struct {
	merchantID string
	secretHash string
}

// NewFieldHashVerifier creates a verifier for the given merchant credentials.
// Only the hash of the secret is retained.
func NewFieldHashVerifier(merchantID, merchantSecret string) *FieldHashVerifier {
	return &FieldHashVerifier{
		merchantID: merchantID,
		secretHash: upperMD5(merchantSecret),
	}
}

func (v *FieldHashVerifier) Scheme() string {
	return provider.SchemeFieldHash
}

// Verify reads the signed fields and md5sig from the body itself
func (v *FieldHashVerifier) Verify(rawBody []byte, _ http.Header) bool {
	body := decodeBody(rawBody)

	sig := strings.TrimSpace(body.fields["md5sig"])
	if sig == "" {
		return false
	}

	merchantID := body.fields["merchant_id"]
	if v.merchantID != "" && merchantID != "" && merchantID != v.merchantID {
		return false
	}

	expected := fieldHash(
		merchantID,
		body.fields["order_id"],
		body.fields["payhere_amount"],
		body.fields["payhere_currency"],
		body.fields["status_code"],
		v.secretHash,
	)
	return constantTimeEqual(expected, strings.ToUpper(sig))
}

func fieldHash(merchantID, orderID, amount, currency, statusCode, secretHash string) string {
	return upperMD5(merchantID + orderID + amount + currency + statusCode + secretHash)
}

func upperMD5(s string) string {
	sum := md5.Sum([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
