package payhere

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"net/http"
	"strings"

	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
)

// HeaderRule names a signature header and whether the MAC input is prefixed with the merchant id
type HeaderRule struct {
	Name               string
	SaltWithMerchantID bool
}

// DefaultHeaderRules are tried in order; the first header present wins
var DefaultHeaderRules = []HeaderRule{
	{Name: "X-PayHere-Signature", SaltWithMerchantID: true},
	{Name: "X-Signature"},
}

// HMACVerifier verifies an HMAC over the entire raw body carried in a header
type HMACVerifier struct {
	merchantID string
	secret     []byte
	newHash    func() hash.Hash
	rules      []HeaderRule
}

// NewHMACVerifier creates a verifier. algorithm is "sha256" (default) or "sha1".
func NewHMACVerifier(merchantID, secret, algorithm string, rules []HeaderRule) (*HMACVerifier, error) {
	var newHash func() hash.Hash
	switch strings.ToLower(algorithm) {
	case "", "sha256":
		newHash = sha256.New
	case "sha1":
		newHash = sha1.New
	default:
		return nil, fmt.Errorf("unsupported hmac algorithm: %s", algorithm)
	}

	if len(rules) == 0 {
		rules = DefaultHeaderRules
	}

	return &HMACVerifier{
		merchantID: merchantID,
		secret:     []byte(secret),
		newHash:    newHash,
		rules:      rules,
	}, nil
}

func (v *HMACVerifier) Scheme() string {
	return provider.SchemeHMACBody
}

func (v *HMACVerifier) Verify(rawBody []byte, header http.Header) bool {
	for _, rule := range v.rules {
		sig := strings.TrimSpace(header.Get(rule.Name))
		if sig == "" {
			continue
		}

		mac := hmac.New(v.newHash, v.secret)
		if rule.SaltWithMerchantID {
			mac.Write([]byte(v.merchantID))
		}
		mac.Write(rawBody)
		expected := hex.EncodeToString(mac.Sum(nil))

		return constantTimeEqual(expected, strings.ToLower(stripSchemePrefix(sig)))
	}
	return false
}

// stripSchemePrefix accepts "<hex>" or "<scheme> <hex>"
func stripSchemePrefix(sig string) string {
	if i := strings.LastIndexByte(sig, ' '); i >= 0 {
		return sig[i+1:]
	}
	return sig
}
