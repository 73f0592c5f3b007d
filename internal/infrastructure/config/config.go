package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CartStoreMemory = "memory"
	CartStoreRedis  = "redis"
)

type Config struct {
	Server  ServerConfig
	OTLP    OTLPConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Port string `envconfig:"SERVER_PORT" default:"8080"`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
}

type OTLPConfig struct {
	Enabled     bool    `envconfig:"OTEL_ENABLED" default:"true"`
	Endpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	ServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"storefront-core"`
	Environment string  `envconfig:"OTEL_ENVIRONMENT" default:"development"`
	SampleRatio float64 `envconfig:"OTEL_TRACES_SAMPLE_RATIO" default:"1"`
	LogLevel    string  `envconfig:"LOG_LEVEL" default:"info"`
}

type CatalogConfig struct {
	BaseURL     string        `envconfig:"CATALOG_BASE_URL" default:"https://fakestoreapi.com"`
	TTL         time.Duration `envconfig:"CATALOG_TTL" default:"5m"`
	HTTPTimeout time.Duration `envconfig:"CATALOG_HTTP_TIMEOUT" default:"10s"`
	PageSize    int           `envconfig:"CATALOG_PAGE_SIZE" default:"8"`
}

type CartConfig struct {
	Store     string `envconfig:"CART_STORE" default:"memory"`
	Namespace string `envconfig:"CART_NAMESPACE" default:"storefront"`
}

type RedisConfig struct {
	Address     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password    string        `envconfig:"REDIS_PASSWORD"`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
}

// LoadConfig loads configuration from a .env file, if present, and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Cart.Store {
	case CartStoreMemory, CartStoreRedis:
	default:
		return fmt.Errorf("invalid CART_STORE %q: want %s or %s", c.Cart.Store, CartStoreMemory, CartStoreRedis)
	}
	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("invalid CATALOG_PAGE_SIZE %d: must be positive", c.Catalog.PageSize)
	}
	if c.OTLP.SampleRatio < 0 || c.OTLP.SampleRatio > 1 {
		return fmt.Errorf("invalid OTEL_TRACES_SAMPLE_RATIO %v: must be within [0, 1]", c.OTLP.SampleRatio)
	}
	if c.Catalog.TTL <= 0 {
		return fmt.Errorf("invalid CATALOG_TTL %s: must be positive", c.Catalog.TTL)
	}
	return nil
}
