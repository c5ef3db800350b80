package config

import "time"

const (
	LockDriverMemory = "memory"
	LockDriverRedis  = "redis"
)

// LockConfig selects the per-payment lock used while applying a notification
type LockConfig struct {
	Driver        string        `yaml:"driver" validate:"required,oneof=memory redis"`
	TTL           time.Duration `yaml:"ttl" validate:"gt=0"`
	RetryInterval time.Duration `yaml:"retry_interval" validate:"gt=0"`
	Redis         RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}
