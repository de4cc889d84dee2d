package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"smarttest"`
	AppEnv  string `env:"APP_ENV" envDefault:"development"`

	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimit   int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	// Storage
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME" envDefault:"smarttest"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`

	// Sessions
	JWTSecret string        `env:"JWT_SECRET"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	// Identity provider (OIDC). Callback login is disabled when issuer is empty.
	OIDCIssuer       string `env:"OIDC_ISSUER"`
	OIDCAudience     string `env:"OIDC_AUDIENCE"`
	OIDCJWKSURL      string `env:"OIDC_JWKS_URL"`
	OIDCProviderName string `env:"OIDC_PROVIDER_NAME" envDefault:"auth0"`
	LocalAuthEnabled bool   `env:"LOCAL_AUTH_ENABLED" envDefault:"true"`

	// Roles
	AdminEmails            []string `env:"ADMIN_EMAILS" envSeparator:","`
	DefaultRoleForNewUsers string   `env:"DEFAULT_ROLE_FOR_NEW_USERS" envDefault:"tester"`
	DevRoleOverride        bool     `env:"DEV_ROLE_OVERRIDE" envDefault:"false"`

	// Audit events
	NATSURL           string        `env:"NATS_URL"`
	NATSSubjectPrefix string        `env:"NATS_SUBJECT_PREFIX" envDefault:"smarttest.audit"`
	NATSConnectWait   time.Duration `env:"NATS_CONNECT_WAIT" envDefault:"10s"`

	// Observability
	SentryDSN    string        `env:"SENTRY_DSN"`
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`

	// Demo data
	SeedDemoData     bool   `env:"SEED_DEMO_DATA" envDefault:"false"`
	SeedDemoPassword string `env:"SEED_DEMO_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cleaned := cfg.AdminEmails[:0]
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	cfg.AdminEmails = cleaned
	return cfg, nil
}

// Validate checks the settings the selected driver and features need.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.StoreDriver {
	case StorePostgres:
		if c.DBPassword == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required for the postgres store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.OIDCIssuer != "" && c.OIDCAudience == "" {
		errs = append(errs, errors.New("OIDC_AUDIENCE is required when OIDC_ISSUER is set"))
	}
	switch c.DefaultRoleForNewUsers {
	case "admin", "tester":
	default:
		errs = append(errs, fmt.Errorf("DEFAULT_ROLE_FOR_NEW_USERS must be admin or tester, got %q", c.DefaultRoleForNewUsers))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// DevRoleOverrideAllowed reports whether the X-Dev-Role header is honored.
func (c *Config) DevRoleOverrideAllowed() bool {
	return c.DevRoleOverride && c.IsDevelopment()
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
