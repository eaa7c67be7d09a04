package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultSecretKey = "secret"

// Config holds runtime configuration. Every key is read with the APP_ prefix.
type Config struct {
	// Database
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBName     string `envconfig:"DB_NAME" default:"app"`
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"password"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBPoolSize int    `envconfig:"DB_POOL_SIZE" default:"10"`

	// Request signing
	TimestampSigningThreshold int64  `envconfig:"TIMESTAMP_SIGNING_THRESHOLD" default:"120000"`
	SecretKey                 string `envconfig:"SECRET_KEY" default:"secret"`
	MaxBodyBytes              int64  `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	// App
	Debug       bool     `envconfig:"DEBUG" default:"true"`
	Name        string   `envconfig:"NAME" default:"bff"`
	Namespace   string   `envconfig:"NAMESPACE" default:"personal"`
	Port        string   `envconfig:"PORT" default:"8080"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://127.0.0.1:3000"`

	// Optional. When empty, assignment locks are held in-process.
	RedisAddr string `envconfig:"REDIS_ADDR"`
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	// godotenv never overrides variables that are already set. Files are
	// loaded one at a time so a missing one does not skip the rest.
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := envconfig.Process("app", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that are unsafe or unusable.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("config: APP_SECRET_KEY must not be empty")
	}
	if !c.Debug && c.SecretKey == defaultSecretKey {
		return errors.New("config: APP_SECRET_KEY must be set when APP_DEBUG is false")
	}
	if c.TimestampSigningThreshold <= 0 {
		return errors.New("config: APP_TIMESTAMP_SIGNING_THRESHOLD must be positive")
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("config: APP_MAX_BODY_BYTES must be positive")
	}
	if c.DBPoolSize <= 0 {
		return errors.New("config: APP_DB_POOL_SIZE must be positive")
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}
