package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eChanneling-Revamp/payment-service/internal/config"
	"github.com/eChanneling-Revamp/payment-service/internal/domain/provider"
	payhereProvider "github.com/eChanneling-Revamp/payment-service/internal/infrastructure/provider/payhere"
)

// Factory creates the PayHere verification components from configuration
type Factory struct {
	config *config.PayHereConfig
	logger *zap.Logger
}

// NewFactory creates a new provider factory
func NewFactory(config *config.PayHereConfig, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		logger: logger,
	}
}

// GetVerifier returns the signature verifier for the configured scheme
func (f *Factory) GetVerifier() (provider.SignatureVerifier, error) {
	if f.config.MerchantSecret == "" {
		return nil, fmt.Errorf("PayHere merchant secret not configured")
	}

	switch f.config.SignatureScheme {
	case "", provider.SchemeFieldHash:
		return f.createFieldHashVerifier(), nil
	case provider.SchemeHMACBody:
		return f.createHMACVerifier()
	default:
		return nil, fmt.Errorf("unsupported signature scheme: %s", f.config.SignatureScheme)
	}
}

// GetNormalizer returns the PayHere payload normalizer
func (f *Factory) GetNormalizer() provider.PayloadNormalizer {
	return payhereProvider.NewNormalizer()
}

// GetStatusMapper returns a mapper for the configured status table and overrides
func (f *Factory) GetStatusMapper() (provider.StatusMapper, error) {
	table, err := payhereProvider.LoadStatusTable(f.config.StatusTable, f.config.StatusOverrides)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Loaded PayHere status table",
		zap.String("table", f.config.StatusTable),
		zap.Int("overrides", len(f.config.StatusOverrides)))
	return payhereProvider.NewStatusMapper(table), nil
}

func (f *Factory) createFieldHashVerifier() provider.SignatureVerifier {
	f.logger.Info("Using PayHere md5sig verification", zap.String("merchant_id", f.config.MerchantID))
	return payhereProvider.NewFieldHashVerifier(f.config.MerchantID, f.config.MerchantSecret)
}

func (f *Factory) createHMACVerifier() (provider.SignatureVerifier, error) {
	var rules []payhereProvider.HeaderRule
	for _, h := range f.config.SignatureHeaders {
		rules = append(rules, payhereProvider.HeaderRule{
			Name:               h.Name,
			SaltWithMerchantID: h.SaltWithMerchantID,
		})
	}

	verifier, err := payhereProvider.NewHMACVerifier(f.config.MerchantID, f.config.MerchantSecret, f.config.HMACAlgorithm, rules)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Using PayHere body HMAC verification",
		zap.String("merchant_id", f.config.MerchantID),
		zap.String("algorithm", f.config.HMACAlgorithm),
		zap.Int("header_rules", len(rules)))
	return verifier, nil
}
