package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider is the read-only view of the configuration that the rest of the
// application depends on.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string

	GetStoreDriver() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetMongoURI() string
	GetMongoDB() string

	GetTokenSecret() string
	GetTokenTTL() time.Duration

	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string
	GetEmailOutboxDir() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr       string
	AppBaseURL    string
	SessionSecret string

	StoreDriver string
	DBUrl       string
	DBNs        string
	DBDb        string
	DBUser      string
	DBPass      string
	MongoURI    string
	MongoDB     string

	TokenSecret string
	TokenTTL    time.Duration

	EmailProvider  string
	EmailAPIKey    string
	EmailSender    string
	EmailOutboxDir string
}

var _ Provider = (*Config)(nil)

// New loads .env (if present) and then reads configuration from the
// environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppAddr:       getEnv("APP_ADDR", ":8080"),
		AppBaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		SessionSecret: os.Getenv("SESSION_SECRET"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DBUrl:       os.Getenv("SURREAL_URL"),
		DBNs:        os.Getenv("SURREAL_NS"),
		DBDb:        os.Getenv("SURREAL_DB"),
		DBUser:      os.Getenv("SURREAL_USER"),
		DBPass:      os.Getenv("SURREAL_PASS"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DB", "passauth"),

		TokenSecret: os.Getenv("TOKEN_SECRET"),

		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "log")),
		EmailAPIKey:    os.Getenv("EMAIL_API_KEY"),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@localhost"),
		EmailOutboxDir: getEnv("EMAIL_OUTBOX_DIR", "tmp/outbox"),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that depend on the selected drivers.
func (c *Config) Validate() error {
	var errs []error

	if len(c.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	if len(c.TokenSecret) < 16 {
		errs = append(errs, errors.New("TOKEN_SECRET must be at least 16 characters"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}

	switch c.StoreDriver {
	case "memory":
	case "surreal":
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			errs = append(errs, errors.New("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal store"))
		}
	case "mongo":
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.EmailProvider {
	case "log", "file":
	case "resend":
		if c.EmailAPIKey == "" {
			errs = append(errs, errors.New("EMAIL_API_KEY is required for the resend provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown EMAIL_PROVIDER %q", c.EmailProvider))
	}

	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) GetAppAddr() string         { return c.AppAddr }
func (c *Config) GetAppBaseURL() string      { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string   { return c.SessionSecret }
func (c *Config) GetStoreDriver() string     { return c.StoreDriver }
func (c *Config) GetDBURL() string           { return c.DBUrl }
func (c *Config) GetDBNs() string            { return c.DBNs }
func (c *Config) GetDBDb() string            { return c.DBDb }
func (c *Config) GetDBUser() string          { return c.DBUser }
func (c *Config) GetDBPass() string          { return c.DBPass }
func (c *Config) GetMongoURI() string        { return c.MongoURI }
func (c *Config) GetMongoDB() string         { return c.MongoDB }
func (c *Config) GetTokenSecret() string     { return c.TokenSecret }
func (c *Config) GetTokenTTL() time.Duration { return c.TokenTTL }
func (c *Config) GetEmailProvider() string   { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string     { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string     { return c.EmailSender }
func (c *Config) GetEmailOutboxDir() string  { return c.EmailOutboxDir }
