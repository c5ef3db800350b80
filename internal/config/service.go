package config

const EnvironmentProduction = "production"

type ServiceConfig struct {
	Name                string `yaml:"name" validate:"required"`
	Environment         string `yaml:"environment" validate:"required,oneof=development staging production test"`
	Version             string `yaml:"version"`
	EnableTestEndpoints bool   `yaml:"enable_test_endpoints"`
}

// TestEndpointsEnabled reports whether the unverified test webhook may run.
// It is never enabled in production.
func (s ServiceConfig) TestEndpointsEnabled() bool {
	return s.EnableTestEndpoints && s.Environment != EnvironmentProduction
}

type JWTConfig struct {
	// Secret signs the HS256 tokens accepted by the inspection API
	Secret string `yaml:"secret" validate:"required,min=16"`
}
