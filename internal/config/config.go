// Package config loads the server configuration from defaults, an optional
// TOML file, a .env file and the process environment (in that order).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	MailNone     = "none"
	MailSMTP     = "smtp"
	MailSendGrid = "sendgrid"
)

type Config struct {
	Port   string `toml:"port"`
	AppEnv string `toml:"app_env"`

	JWTSecret  string        `toml:"jwt_secret"`
	SessionTTL time.Duration `toml:"-"`

	StorageDriver string `toml:"storage_driver"`
	DatabaseURL   string `toml:"database_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_db"`

	RedisURL        string        `toml:"redis_url"`
	RevokeOnLogout  bool          `toml:"revoke_on_logout"`
	LoginRateLimit  int           `toml:"login_rate_limit"`
	RateLimitWindow time.Duration `toml:"-"`

	NATSURL       string `toml:"nats_url"`
	NATSCredsFile string `toml:"nats_creds"`
	NATSNKeySeed  string `toml:"nats_nkey_seed"`

	AllowedOrigin string `toml:"client_url"`

	MailProvider   string `toml:"mail_provider"`
	MailFrom       string `toml:"mail_from"`
	EmailUser      string `toml:"email_user"`
	EmailPass      string `toml:"email_pass"`
	SMTPHost       string `toml:"smtp_host"`
	SMTPPort       int    `toml:"smtp_port"`
	SendGridAPIKey string `toml:"sendgrid_api_key"`

	SlackWebhookURL string `toml:"slack_webhook_url"`
}

// fileConfig carries the duration fields as strings so the TOML file can say "168h".
type fileConfig struct {
	Config
	SessionTTL      string `toml:"session_ttl"`
	RateLimitWindow string `toml:"rate_limit_window"`
}

func defaults() *Config {
	return &Config{
		Port:            "5000",
		AppEnv:          "development",
		SessionTTL:      7 * 24 * time.Hour,
		StorageDriver:   DriverPostgres,
		MongoDatabase:   "greenspark",
		LoginRateLimit:  5,
		RateLimitWindow: time.Minute,
		AllowedOrigin:   "http://localhost:5173",
		MailProvider:    MailNone,
		SMTPHost:        "smtp.gmail.com",
		SMTPPort:        587,
	}
}

// Load builds the Config and validates it.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if os.Getenv("APP_ENV") != "production" {
		// a missing .env is normal outside local development
		_ = godotenv.Load()
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	fc := fileConfig{Config: *c}
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	*c = fc.Config

	if fc.SessionTTL != "" {
		d, err := time.ParseDuration(fc.SessionTTL)
		if err != nil {
			return fmt.Errorf("session_ttl: %w", err)
		}
		c.SessionTTL = d
	}
	if fc.RateLimitWindow != "" {
		d, err := time.ParseDuration(fc.RateLimitWindow)
		if err != nil {
			return fmt.Errorf("rate_limit_window: %w", err)
		}
		c.RateLimitWindow = d
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)

	c.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", c.StorageDriver))
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	if c.DatabaseURL == "" && c.StorageDriver == DriverPostgres {
		c.DatabaseURL = buildDSN()
	}
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DB", c.MongoDatabase)

	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.NATSURL = getEnv("NATS_URL", c.NATSURL)
	c.NATSCredsFile = getEnv("NATS_CREDS", c.NATSCredsFile)
	c.NATSNKeySeed = getEnv("NATS_NKEY_SEED", c.NATSNKeySeed)
	c.AllowedOrigin = getEnv("CLIENT_URL", c.AllowedOrigin)

	c.MailProvider = strings.ToLower(getEnv("MAIL_PROVIDER", c.MailProvider))
	c.EmailUser = getEnv("EMAIL_USER", c.EmailUser)
	c.EmailPass = getEnv("EMAIL_PASS", c.EmailPass)
	c.MailFrom = getEnv("MAIL_FROM", c.MailFrom)
	if c.MailFrom == "" {
		c.MailFrom = c.EmailUser
	}
	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SendGridAPIKey = getEnv("SENDGRID_API_KEY", c.SendGridAPIKey)
	c.SlackWebhookURL = getEnv("SLACK_WEBHOOK_URL", c.SlackWebhookURL)

	var err error
	if c.SessionTTL, err = getEnvAsDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.RateLimitWindow, err = getEnvAsDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow); err != nil {
		return err
	}
	if c.LoginRateLimit, err = getEnvAsInt("LOGIN_RATE_LIMIT", c.LoginRateLimit); err != nil {
		return err
	}
	if c.SMTPPort, err = getEnvAsInt("SMTP_PORT", c.SMTPPort); err != nil {
		return err
	}
	if c.RevokeOnLogout, err = getEnvAsBool("REVOKE_ON_LOGOUT", c.RevokeOnLogout); err != nil {
		return err
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}

	switch c.StorageDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.MailProvider {
	case MailNone:
	case MailSMTP:
		if c.EmailUser == "" || c.EmailPass == "" {
			return errors.New("EMAIL_USER and EMAIL_PASS are required for smtp mail")
		}
	case MailSendGrid:
		if c.SendGridAPIKey == "" {
			return errors.New("SENDGRID_API_KEY is required for sendgrid mail")
		}
		if c.MailFrom == "" {
			return errors.New("MAIL_FROM is required for sendgrid mail")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider)
	}

	if c.RevokeOnLogout && c.RedisURL == "" {
		return errors.New("REVOKE_ON_LOGOUT requires REDIS_URL")
	}
	if c.RedisURL != "" && (c.LoginRateLimit <= 0 || c.RateLimitWindow <= 0) {
		return errors.New("LOGIN_RATE_LIMIT and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// SecureCookies reports whether session cookies carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" port=" + getEnv("DB_PORT", "5432") +
		" user=" + getEnv("DB_USER", "greenspark") +
		" password=" + getEnv("DB_PASSWORD", "greenspark") +
		" dbname=" + getEnv("DB_NAME", "greenspark") +
		" sslmode=" + getEnv("DB_SSLMODE", "disable")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
