package config

// PayHereConfig holds the merchant credentials and notification handling rules
type PayHereConfig struct {
	MerchantID     string `yaml:"merchant_id" validate:"required"`
	MerchantSecret string `yaml:"merchant_secret" validate:"required"`

	// SignatureScheme is field_hash (md5sig inside the payload) or hmac_body (header HMAC over the raw body)
	SignatureScheme  string                  `yaml:"signature_scheme" validate:"required,oneof=field_hash hmac_body"`
	HMACAlgorithm    string                  `yaml:"hmac_algorithm" validate:"omitempty,oneof=sha256 sha1"`
	SignatureHeaders []SignatureHeaderConfig `yaml:"signature_headers" validate:"dive"`

	StatusTable      string            `yaml:"status_table" validate:"required"`
	StatusOverrides  map[string]string `yaml:"status_overrides"`
	TransitionPolicy string            `yaml:"transition_policy" validate:"required,oneof=permissive strict"`
}

type SignatureHeaderConfig struct {
	Name               string `yaml:"name" validate:"required"`
	SaltWithMerchantID bool   `yaml:"salt_with_merchant_id"`
}
