// Package config loads process configuration from the environment (and an
// optional .env file).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	pstrings "bpd/pkg/platform/strings"
)

// Audit backends.
const (
	AuditBackendPostgres = "postgres"
	AuditBackendKafka    = "kafka"
	AuditBackendMemory   = "memory"
)

// Config is the full process configuration.
type Config struct {
	Server       Server
	Log          Log
	Database     Database
	Audit        Audit
	Redis        RedisConfig
	SupportToken SupportToken
	Auth         Auth
	Directory    Directory

	QueryMaxAttempts int           `env:"QUERY_MAX_ATTEMPTS" envDefault:"2"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsToken string        `env:"METRICS_TOKEN"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Database is the read-only BPD database holding the citizen views.
type Database struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

// Audit selects and configures the dashboard log backend.
type Audit struct {
	Backend     string   `env:"AUDIT_BACKEND" envDefault:"postgres"`
	DatabaseURL string   `env:"AUDIT_DATABASE_URL"`
	TableName   string   `env:"DASHBOARD_LOGS_TABLE_NAME" envDefault:"dashboard_logs"`
	Brokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic       string   `env:"AUDIT_TOPIC" envDefault:"bpd.dashboard-logs"`
}

// RedisConfig configures the shared redis client. An empty URL disables redis
// and the in-memory implementations are used instead.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// SupportToken configures verification of delegated citizen identifiers.
type SupportToken struct {
	PublicKey    string        `env:"JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE"`
	Issuer       string        `env:"JWT_SUPPORT_TOKEN_ISSUER"`
	Audience     string        `env:"JWT_SUPPORT_TOKEN_AUDIENCE"`
	BlacklistTTL time.Duration `env:"SUPPORT_TOKEN_BLACKLIST_TTL" envDefault:"24h"`
}

// Auth configures operator bearer token validation.
type Auth struct {
	PublicKey string `env:"AUTH_PUBLIC_RSA_KEY"`
	Issuer    string `env:"AUTH_ISSUER"`
	Audience  string `env:"AUTH_AUDIENCE"`
}

// Directory configures admin group lookups. Without a tenant the revocation
// endpoint is disabled.
type Directory struct {
	TenantID       string        `env:"ADB2C_TENANT_ID"`
	ClientID       string        `env:"ADB2C_CLIENT_ID"`
	ClientSecret   string        `env:"ADB2C_CLIENT_KEY"`
	AdminGroupName string        `env:"ADB2C_ADMIN_GROUP_NAME"`
	BaseURL        string        `env:"DIRECTORY_BASE_URL" envDefault:"https://graph.microsoft.com"`
	TokenURL       string        `env:"DIRECTORY_TOKEN_URL"`
	CacheTTL       time.Duration `env:"IN_MEMORY_CACHE_TTL" envDefault:"5m"`
}

// Enabled reports whether membership lookups can be performed.
func (d Directory) Enabled() bool {
	return d.TenantID != "" && d.ClientID != "" && d.AdminGroupName != ""
}

// ResolvedTokenURL returns the configured token endpoint or the tenant default.
func (d Directory) ResolvedTokenURL() string {
	if d.TokenURL != "" {
		return d.TokenURL
	}
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", d.TenantID)
}

// Load reads .env when present, then parses and validates the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(env.Options{})
}

// Parse parses configuration with the given options and validates it.
// Tests pass Environment to avoid touching the process environment.
func Parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Audit.Brokers = pstrings.DedupeAndTrim(cfg.Audit.Brokers)
	cfg.Audit.Backend = strings.ToLower(strings.TrimSpace(cfg.Audit.Backend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects missing required keys and unparsable keys.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Auth.PublicKey == "" {
		errs = append(errs, errors.New("AUTH_PUBLIC_RSA_KEY is required"))
	} else if _, err := jwt.ParseRSAPublicKeyFromPEM([]byte(c.Auth.PublicKey)); err != nil {
		errs = append(errs, fmt.Errorf("AUTH_PUBLIC_RSA_KEY: %w", err))
	}
	if c.SupportToken.PublicKey == "" {
		errs = append(errs, errors.New("JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE is required"))
	} else if _, err := jwt.ParseRSAPublicKeyFromPEM([]byte(c.SupportToken.PublicKey)); err != nil {
		errs = append(errs, fmt.Errorf("JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE: %w", err))
	}
	if c.SupportToken.BlacklistTTL <= 0 {
		errs = append(errs, errors.New("SUPPORT_TOKEN_BLACKLIST_TTL must be positive"))
	}
	if c.QueryMaxAttempts < 1 {
		errs = append(errs, errors.New("QUERY_MAX_ATTEMPTS must be at least 1"))
	}

	switch c.Audit.Backend {
	case AuditBackendPostgres:
		if c.Audit.DatabaseURL == "" {
			errs = append(errs, errors.New("AUDIT_DATABASE_URL is required for the postgres audit backend"))
		}
	case AuditBackendKafka:
		if len(c.Audit.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required for the kafka audit backend"))
		}
	case AuditBackendMemory:
	default:
		errs = append(errs, fmt.Errorf("AUDIT_BACKEND %q is not one of postgres, kafka, memory", c.Audit.Backend))
	}

	if c.Directory.Enabled() && c.Directory.ClientSecret == "" {
		errs = append(errs, errors.New("ADB2C_CLIENT_KEY is required when the directory is configured"))
	}
	return errors.Join(errs...)
}
