package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=12h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`

	// LoginRatePerMinute caps login attempts per client IP.
	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MIN, default=10"`
	// BootstrapManagerPasscode creates the first manager when no employee exists.
	BootstrapManagerPasscode string `env:"BOOTSTRAP_MANAGER_PASSCODE"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Webhook  WebhookConfig
	AMQP     AMQPConfig
	Dispatch DispatchConfig
	Register RegisterDefaults
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=pos_system"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	CartTTL  time.Duration `env:"CART_TTL,       default=12h"`
}

// WebhookConfig points at the kitchen/fulfillment endpoint. Empty URL disables it.
type WebhookConfig struct {
	URL         string        `env:"WEBHOOK_URL"`
	Secret      string        `env:"WEBHOOK_SECRET"`
	Timeout     time.Duration `env:"WEBHOOK_TIMEOUT,      default=5s"`
	MaxAttempts int           `env:"WEBHOOK_MAX_ATTEMPTS, default=3"`
}

// AMQPConfig points at the order exchange. Empty URL disables it.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE, default=pos.orders"`
}

type DispatchConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=4"`
}

// RegisterDefaults seed the settings document until a manager saves one.
type RegisterDefaults struct {
	RestaurantName string          `env:"RESTAURANT_NAME,  default=My Restaurant"`
	Currency       string          `env:"DEFAULT_CURRENCY, default=USD"`
	TaxRate        decimal.Decimal `env:"DEFAULT_TAX_RATE, default=0.08"`
}

// Development reports whether the service runs in a local environment.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.Register.TaxRate.IsNegative() || c.Register.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("DEFAULT_TAX_RATE must be between 0 and 1")
	}
	if len(c.Register.Currency) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a 3-letter code")
	}
	if c.Dispatch.Workers <= 0 {
		return fmt.Errorf("DISPATCH_WORKERS must be positive")
	}
	return nil
}
