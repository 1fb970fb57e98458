package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "PORT", "APP_ENV", "JWT_SECRET", "SESSION_TTL", "STORAGE_DRIVER",
	"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
	"MONGO_URI", "MONGO_DB", "REDIS_URL", "REVOKE_ON_LOGOUT", "LOGIN_RATE_LIMIT",
	"RATE_LIMIT_WINDOW", "NATS_URL", "NATS_CREDS", "NATS_NKEY_SEED", "CLIENT_URL",
	"MAIL_PROVIDER", "MAIL_FROM", "EMAIL_USER", "EMAIL_PASS", "SMTP_HOST", "SMTP_PORT",
	"SENDGRID_API_KEY", "SLACK_WEBHOOK_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
	// keep godotenv away from any developer .env
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	want := &Config{
		Port:            "5000",
		AppEnv:          "development",
		JWTSecret:       "s3cret",
		SessionTTL:      7 * 24 * time.Hour,
		StorageDriver:   DriverMemory,
		MongoDatabase:   "greenspark",
		LoginRateLimit:  5,
		RateLimitWindow: time.Minute,
		AllowedOrigin:   "http://localhost:5173",
		MailProvider:    MailNone,
		SMTPHost:        "smtp.gmail.com",
		SMTPPort:        587,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
	assert.False(t, cfg.SecureCookies())
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("STORAGE_DRIVER", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REVOKE_ON_LOGOUT", "true")
	t.Setenv("LOGIN_RATE_LIMIT", "10")
	t.Setenv("MAIL_PROVIDER", "smtp")
	t.Setenv("EMAIL_USER", "team@greenspark.org")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("SMTP_PORT", "465")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.True(t, cfg.RevokeOnLogout)
	assert.Equal(t, 10, cfg.LoginRateLimit)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "team@greenspark.org", cfg.MailFrom)
	assert.True(t, cfg.SecureCookies())
}

func TestLoad_BuildsPostgresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "campaigns")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "host=db port=5432 user=greenspark password=greenspark dbname=campaigns sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "greenspark.toml")
	data := `
port = "7000"
jwt_secret = "from-file"
storage_driver = "memory"
session_ttl = "48h"
rate_limit_window = "30s"
client_url = "https://greenspark.example"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7001", cfg.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "https://greenspark.example", cfg.AllowedOrigin)
	assert.Equal(t, 587, cfg.SMTPPort, "defaults survive the file overlay")
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"SESSION_TTL": "soon"}},
		{name: "bad int", env: map[string]string{"LOGIN_RATE_LIMIT": "many"}},
		{name: "bad bool", env: map[string]string{"REVOKE_ON_LOGOUT": "maybe"}},
		{name: "missing file", env: map[string]string{"CONFIG_FILE": "/does/not/exist.toml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv("STORAGE_DRIVER", "memory")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaults()
		c.JWTSecret = "s3cret"
		c.StorageDriver = DriverMemory
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL must be positive"},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "sqlite" }, wantErr: `unknown STORAGE_DRIVER "sqlite"`},
		{name: "postgres without dsn", mutate: func(c *Config) { c.StorageDriver = DriverPostgres }, wantErr: "DATABASE_URL is required for the postgres driver"},
		{name: "mongo without uri", mutate: func(c *Config) { c.StorageDriver = DriverMongo }, wantErr: "MONGO_URI is required for the mongo driver"},
		{name: "smtp without creds", mutate: func(c *Config) { c.MailProvider = MailSMTP }, wantErr: "EMAIL_USER and EMAIL_PASS are required for smtp mail"},
		{name: "sendgrid without key", mutate: func(c *Config) { c.MailProvider = MailSendGrid }, wantErr: "SENDGRID_API_KEY is required for sendgrid mail"},
		{name: "sendgrid without from", mutate: func(c *Config) {
			c.MailProvider = MailSendGrid
			c.SendGridAPIKey = "SG.key"
		}, wantErr: "MAIL_FROM is required for sendgrid mail"},
		{name: "unknown mail", mutate: func(c *Config) { c.MailProvider = "pigeon" }, wantErr: `unknown MAIL_PROVIDER "pigeon"`},
		{name: "revoke without redis", mutate: func(c *Config) { c.RevokeOnLogout = true }, wantErr: "REVOKE_ON_LOGOUT requires REDIS_URL"},
		{name: "zero rate limit", mutate: func(c *Config) {
			c.RedisURL = "redis://localhost:6379"
			c.LoginRateLimit = 0
		}, wantErr: "LOGIN_RATE_LIMIT and RATE_LIMIT_WINDOW must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
