package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	MySQLDSN string `envconfig:"MYSQL_DSN" default:"user:password@tcp(localhost:3306)/tourbase?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`

	JWTSecret    string        `envconfig:"JWT_SECRET" default:"change-me"`
	JWTExpiresIn time.Duration `envconfig:"JWT_EXPIRES_IN" default:"24h"`

	BcryptCost int `envconfig:"BCRYPT_COST" default:"12"`

	SMTPHost    string        `envconfig:"SMTP_HOST" default:"127.0.0.1"`
	SMTPPort    int           `envconfig:"SMTP_PORT" default:"1025"`
	SMTPFrom    string        `envconfig:"SMTP_FROM" default:"no-reply@tourbase.local"`
	SMTPTimeout time.Duration `envconfig:"SMTP_TIMEOUT" default:"10s"`

	SwaggerHost string `envconfig:"SWAGGER_HOST"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the app runs in production mode. Error responses
// hide internals when this is true.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
