package main

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/authkit/pkg/httpserver"
	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverRedis    = "redis"
)

// Config is the service configuration. Driver specific settings (PG_*,
// MONGODB_*, REDIS_*) are loaded only for the selected driver.
type Config struct {
	AppEnv        string        `env:"APP_ENV" envDefault:"development"`
	AppName       string        `env:"APP_NAME" envDefault:"authkit"`
	SigningKey    string        `env:"JWT_SIGNING_KEY,required"` // at least 32 bytes
	Issuer        string        `env:"JWT_ISSUER" envDefault:"authkit"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"720h"`
	StoreDriver   string        `env:"STORE_DRIVER" envDefault:"memory"`
	HealthTimeout time.Duration `env:"HEALTHCHECK_TIMEOUT" envDefault:"3s"`

	TOTP totp.Config
	HTTP httpserver.Config
	Log  logger.Config
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverPostgres, DriverMongo, DriverRedis:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreDriver, c.StoreDriver)
	}
}
