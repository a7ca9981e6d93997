package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `env:"ENV" envDefault:"development" validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Storage  Storage
	Postgres Postgres `validate:"required"`

	Cache Cache

	Delivery Delivery `validate:"required"`
	Keycloak Keycloak `validate:"required"`
	Saga     Saga
}

type Http struct {
	Host string `env:"HOST" envDefault:"localhost" validate:"required,hostname|ip"`
	Port string `env:"PORT" envDefault:"8080" validate:"required,numeric"`
}

type Kafka struct {
	Enabled bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	GroupID string   `env:"KAFKA_GROUP_ID" envDefault:"order-service" validate:"required"`
	Brokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:"," validate:"required,min=1,dive,hostname_port"`
	Topic   string   `env:"KAFKA_STATUS_TOPIC" envDefault:"delivery-status" validate:"required"`

	ReaderMaxWait time.Duration `env:"KAFKA_READER_MAX_WAIT" envDefault:"10ms" validate:"gte=0"`
	BatchTimeout  time.Duration `env:"KAFKA_BATCH_TIMEOUT" envDefault:"10ms" validate:"gte=0"`
}

type Storage struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"postgres" validate:"oneof=postgres memory"`
}

type Postgres struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost" validate:"required,hostname|ip"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432" validate:"required,gt=0,lte=65535"`
	DBName   string `env:"POSTGRES_DB" envDefault:"orders" validate:"required"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`

	SSLMode string `env:"POSTGRES_SSL_MODE" envDefault:"disable" validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"25" validate:"gte=1"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"25" validate:"gte=0"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"5m" validate:"gte=0"`
}

type Cache struct {
	Driver   string        `env:"CACHE_DRIVER" envDefault:"lru" validate:"oneof=lru redis"`
	Capacity int           `env:"CACHE_CAPACITY" envDefault:"1000" validate:"gte=1"`
	TTL      time.Duration `env:"CACHE_TTL" envDefault:"10m" validate:"gt=0"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379" validate:"required,hostname_port"`
}

type Delivery struct {
	URL     string        `env:"DELIVERY_SERVICE_URL" envDefault:"http://localhost:8081" validate:"required,url"`
	Timeout time.Duration `env:"DELIVERY_SERVICE_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}

type Keycloak struct {
	URL          string `env:"KEYCLOAK_URL" envDefault:"http://localhost:8090/auth" validate:"required,url"`
	Realm        string `env:"KEYCLOAK_REALM" envDefault:"delivery-app" validate:"required"`
	ClientID     string `env:"KEYCLOAK_CLIENT_ID" validate:"required"`
	ClientSecret string `env:"KEYCLOAK_CLIENT_SECRET" validate:"required"`

	RefreshMargin time.Duration `env:"KEYCLOAK_REFRESH_MARGIN" envDefault:"60s" validate:"gte=0"`
	CheckInterval time.Duration `env:"KEYCLOAK_CHECK_INTERVAL" envDefault:"1m" validate:"gt=0"`
	Timeout       time.Duration `env:"KEYCLOAK_TIMEOUT" envDefault:"5s" validate:"gt=0"`
}

type Saga struct {
	DeletionPolicy string `env:"SAGA_DELETION_POLICY" envDefault:"strict" validate:"oneof=strict best-effort"`
}

type CORS struct {
	AllowedOrigins []string `env:"ALLOWED_CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:"," validate:"required,min=1,dive,url"`
}

func New() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
