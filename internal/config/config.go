package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported storage drivers
const (
	DriverSurrealDB = "surrealdb"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
	Seed      SeedConfig
	Jobs      JobsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds storage settings. Driver selects the backend:
// SurrealDB uses the host/port/namespace fields, the SQL drivers use DSN.
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
	DSN       string
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
}

// RateLimitConfig holds request rate limiting settings.
// When RedisAddr is set the limiter state is shared through Redis.
type RateLimitConfig struct {
	Enabled        bool
	RequestsPerMin int
	Burst          int
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	OTLPEndpoint string
	ServiceName  string
}

// SeedConfig controls demo data seeding on startup
type SeedConfig struct {
	DemoData      bool
	AdminEmail    string
	AdminPassword string
	RandomSeed    int64
}

// JobsConfig holds background job settings
type JobsConfig struct {
	ExpiryDigestEnabled  bool
	ExpiryDigestInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Values from an optional env file (ENV_FILE, default .env) override the
// process environment; a missing file is ignored.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Overload(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Driver:    getEnv("DB_DRIVER", DriverSurrealDB),
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "roster"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
			DSN:       getEnv("DB_DSN", ""),
		},
		JWT: JWTConfig{
			PrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: getIntEnv("JWT_EXPIRATION_MINS", 60),
			Issuer:         getEnv("JWT_ISSUER", "roster.forgo.software"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        getBoolEnv("RATE_LIMIT_ENABLED", true),
			RequestsPerMin: getIntEnv("RATE_LIMIT_REQUESTS_PER_MIN", 120),
			Burst:          getIntEnv("RATE_LIMIT_BURST", 20),
			RedisAddr:      getEnv("REDIS_ADDR", ""),
			RedisPassword:  getEnv("REDIS_PASSWORD", ""),
			RedisDB:        getIntEnv("REDIS_DB", 0),
		},
		Tracing: TracingConfig{
			Enabled:      getBoolEnv("TRACING_ENABLED", false),
			Exporter:     getEnv("TRACING_EXPORTER", "stdout"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "roster-api"),
		},
		Seed: SeedConfig{
			DemoData:      getBoolEnv("SEED_DEMO_DATA", false),
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@roster.local"),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
			RandomSeed:    int64(getIntEnv("SEED_RANDOM_SEED", 0)),
		},
		Jobs: JobsConfig{
			ExpiryDigestEnabled:  getBoolEnv("EXPIRY_DIGEST_ENABLED", true),
			ExpiryDigestInterval: getDurationEnv("EXPIRY_DIGEST_INTERVAL", 24*time.Hour),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	switch c.Database.Driver {
	case DriverSurrealDB:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required"))
		}
		if c.Database.Port == "" {
			errs = append(errs, errors.New("DB_PORT is required"))
		}
		if c.Database.Namespace == "" {
			errs = append(errs, errors.New("DB_NAMESPACE is required"))
		}
		if c.Database.Database == "" {
			errs = append(errs, errors.New("DB_DATABASE is required"))
		}
	case DriverPostgres, DriverSQLite:
		if c.Database.DSN == "" {
			errs = append(errs, fmt.Errorf("DB_DSN is required for driver '%s'", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be '%s', '%s', or '%s', got '%s'",
			DriverSurrealDB, DriverPostgres, DriverSQLite, c.Database.Driver))
	}

	// JWT validation - critical for production
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			errs = append(errs, errors.New("JWT_PRIVATE_KEY_PATH is required in production"))
		}
		if c.JWT.PublicKeyPath == "" {
			errs = append(errs, errors.New("JWT_PUBLIC_KEY_PATH is required in production"))
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerMin <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_REQUESTS_PER_MIN must be positive"))
		}
		if c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
		}
	}

	if c.Tracing.Enabled && c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "otlp" {
		errs = append(errs, fmt.Errorf("TRACING_EXPORTER must be 'stdout' or 'otlp', got '%s'", c.Tracing.Exporter))
	}

	if c.Seed.DemoData {
		if c.Seed.AdminEmail == "" {
			errs = append(errs, errors.New("SEED_ADMIN_EMAIL is required when SEED_DEMO_DATA is true"))
		}
		if c.IsProduction() {
			errs = append(errs, errors.New("SEED_DEMO_DATA must not be enabled in production"))
		}
	}

	if c.Jobs.ExpiryDigestEnabled && c.Jobs.ExpiryDigestInterval <= 0 {
		errs = append(errs, errors.New("EXPIRY_DIGEST_INTERVAL must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
