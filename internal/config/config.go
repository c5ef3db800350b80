package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eChanneling-Revamp/payment-service/pkg/logger"
)

const (
	defaultConfigPath = "./configs/webhooks.yaml"
	envPrefix         = "WEBHOOKS"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	PayHere  PayHereConfig  `yaml:"payhere"`
	Database DatabaseConfig `yaml:"database"`
	Server   ServerConfig   `yaml:"server"`
	Log      logger.Config  `yaml:"log"`
	JWT      JWTConfig      `yaml:"jwt"`
	Lock     LockConfig     `yaml:"lock"`
}

// LoadConfig reads the YAML file at CONFIG_PATH and applies WEBHOOKS_* environment
// overrides, e.g. WEBHOOKS_PAYHERE_MERCHANT_SECRET for payhere.merchant_secret.
// A .env file in the working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Ensure absolute path
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key that may be overridden from the environment
func setDefaults(v *viper.Viper) {
	v.SetDefault("service.name", "payment-webhooks")
	v.SetDefault("service.environment", "development")
	v.SetDefault("service.enable_test_endpoints", false)

	v.SetDefault("payhere.merchant_id", "")
	v.SetDefault("payhere.merchant_secret", "")
	v.SetDefault("payhere.signature_scheme", "field_hash")
	v.SetDefault("payhere.hmac_algorithm", "sha256")
	v.SetDefault("payhere.status_table", "payhere")
	v.SetDefault("payhere.transition_policy", "permissive")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "payments")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")

	v.SetDefault("server.http.host", "0.0.0.0")
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.body_limit", "1M")
	v.SetDefault("server.http.read_timeout", "15s")
	v.SetDefault("server.http.write_timeout", "15s")
	v.SetDefault("server.http.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("jwt.secret", "")

	v.SetDefault("lock.driver", "memory")
	v.SetDefault("lock.ttl", "30s")
	v.SetDefault("lock.retry_interval", "50ms")
	v.SetDefault("lock.redis.addr", "")
	v.SetDefault("lock.redis.password", "")
	v.SetDefault("lock.redis.db", 0)
	v.SetDefault("lock.redis.key_prefix", "payment-webhooks:lock:")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required values and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Lock.Driver == LockDriverRedis && c.Lock.Redis.Addr == "" {
		return fmt.Errorf("invalid config: lock.redis.addr is required for the redis lock driver")
	}
	return nil
}
