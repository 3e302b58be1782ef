package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory    = "memory"
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG"`
	Server    ServerConfig    `env:",prefix=SERVER_"`
	Store     StoreConfig     `env:",prefix=STORE_"`
	Database  DatabaseConfig  `env:",prefix=DB_"`
	Firebase  FirebaseConfig  `env:",prefix=FIREBASE_"`
	JWT       JWTConfig       `env:",prefix=JWT_"`
	OAuth     OAuthConfig     `env:",prefix=GOOGLE_"`
	TLS       TLSConfig       `env:",prefix=TLS_"`
	RateLimit RateLimitConfig `env:",prefix=RATE_LIMIT_"`
	Telemetry TelemetryConfig `env:",prefix=OTEL_"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	AllowedHosts []string `env:"ALLOWED_HOSTS"`
	BaseURL      string   `env:"BASE_URL,default=http://localhost:8080"`
}

type StoreConfig struct {
	Driver string `env:"DRIVER,default=memory"`
}

type DatabaseConfig struct {
	Host        string `env:"HOST,default=localhost"`
	Port        int    `env:"PORT,default=5432"`
	User        string `env:"USER,default=smtm"`
	Password    string `env:"PASSWORD"`
	DBName      string `env:"NAME,default=smtm"`
	SSLMode     string `env:"SSLMODE,default=disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE,default=true"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"PROJECT_ID"`
	CredentialsFile string `env:"CREDENTIALS_FILE"`
	AuthEnabled     bool   `env:"AUTH_ENABLED"`
}

type JWTConfig struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL,default=24h"`
}

type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
}

type TLSConfig struct {
	Enabled      bool   `env:"ENABLED"`
	CertPath     string `env:"CERT_PATH"`
	KeyPath      string `env:"KEY_PATH"`
	RedirectHTTP bool   `env:"REDIRECT_HTTP"`
}

type RateLimitConfig struct {
	Enabled   bool    `env:"ENABLED,default=true"`
	PerSecond float64 `env:"PER_SECOND,default=10"`
	Burst     int     `env:"BURST,default=20"`
}

type TelemetryConfig struct {
	Enabled      bool   `env:"ENABLED"`
	ServiceName  string `env:"SERVICE_NAME,default=smtm-api"`
	Environment  string `env:"ENVIRONMENT,default=development"`
	OTLPEndpoint string `env:"EXPORTER_ENDPOINT,default=localhost:4317"`
	MetricsPort  string `env:"METRICS_PORT,default=9464"`
}

// Load reads .env when present, then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Store.Driver {
	case StoreMemory, StorePostgres:
	case StoreFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when STORE_DRIVER=firestore")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Firebase.AuthEnabled && c.Firebase.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required when FIREBASE_AUTH_ENABLED=true")
	}

	if c.TLS.Enabled {
		if c.TLS.CertPath == "" {
			return fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if c.TLS.KeyPath == "" {
			return fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	if c.RateLimit.Enabled && c.RateLimit.PerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}

	return nil
}

// NeedsFirebase reports whether a Firebase app has to be initialized.
func (c *Config) NeedsFirebase() bool {
	return c.Store.Driver == StoreFirestore || c.Firebase.AuthEnabled
}

// OAuthRedirectURL is where the identity provider sends the browser back.
func (c *Config) OAuthRedirectURL() string {
	return c.Server.BaseURL + "/oauth/callback"
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
