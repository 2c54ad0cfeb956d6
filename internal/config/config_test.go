package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	cfg := validBaseConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidServerEnv(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "invalid"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid SERVER_ENV")
	}
	if !strings.Contains(err.Error(), "SERVER_ENV") {
		t.Errorf("expected error to mention SERVER_ENV, got: %v", err)
	}
}

func TestConfig_Validate_MissingPort(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing SERVER_PORT")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("expected error to mention SERVER_PORT, got: %v", err)
	}
}

func TestConfig_Validate_EmptyAllowedOrigins(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.AllowedOrigins = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for empty CORS_ALLOWED_ORIGINS")
	}
	if !strings.Contains(err.Error(), "CORS_ALLOWED_ORIGINS") {
		t.Errorf("expected error to mention CORS_ALLOWED_ORIGINS, got: %v", err)
	}
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing DB_HOST")
	}
	if !strings.Contains(err.Error(), "DB_HOST") {
		t.Errorf("expected error to mention DB_HOST, got: %v", err)
	}
}

func TestConfig_Validate_SQLDriversRequireDSN(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		cfg := validBaseConfig()
		cfg.Database.Driver = driver
		cfg.Database.Host = ""

		err := cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected error for missing DB_DSN", driver)
		}
		if !strings.Contains(err.Error(), "DB_DSN") {
			t.Errorf("%s: expected error to mention DB_DSN, got: %v", driver, err)
		}

		cfg.Database.DSN = "file:roster.db"
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: expected valid config with DSN, got: %v", driver, err)
		}
	}
}

func TestConfig_Validate_UnknownDriver(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Database.Driver = "mongodb"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown DB_DRIVER")
	}
	if !strings.Contains(err.Error(), "DB_DRIVER") {
		t.Errorf("expected error to mention DB_DRIVER, got: %v", err)
	}
}

func TestConfig_Validate_InvalidJWTExpiration(t *testing.T) {
	cfg := validBaseConfig()
	cfg.JWT.ExpirationMins = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid JWT expiration")
	}
	if !strings.Contains(err.Error(), "JWT_EXPIRATION_MINS") {
		t.Errorf("expected error to mention JWT_EXPIRATION_MINS, got: %v", err)
	}
}

func TestConfig_Validate_ProductionRequiresJWTKeys(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.JWT.PrivateKeyPath = ""
	cfg.JWT.PublicKeyPath = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing JWT keys in production")
	}
	if !strings.Contains(err.Error(), "JWT_PRIVATE_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PRIVATE_KEY_PATH, got: %v", err)
	}
	if !strings.Contains(err.Error(), "JWT_PUBLIC_KEY_PATH") {
		t.Errorf("expected error to mention JWT_PUBLIC_KEY_PATH, got: %v", err)
	}
}

func TestConfig_Validate_RateLimit(t *testing.T) {
	cfg := validBaseConfig()
	cfg.RateLimit.RequestsPerMin = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "RATE_LIMIT_REQUESTS_PER_MIN") {
		t.Errorf("expected RATE_LIMIT_REQUESTS_PER_MIN error, got: %v", err)
	}

	cfg.RateLimit.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled rate limiting to skip checks, got: %v", err)
	}
}

func TestConfig_Validate_TracingExporter(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "jaeger"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "TRACING_EXPORTER") {
		t.Errorf("expected TRACING_EXPORTER error, got: %v", err)
	}
}

func TestConfig_Validate_SeedNotAllowedInProduction(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Env = "production"
	cfg.Seed.DemoData = true

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SEED_DEMO_DATA") {
		t.Errorf("expected SEED_DEMO_DATA error, got: %v", err)
	}
}

func TestConfig_Validate_ExpiryDigestInterval(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Jobs.ExpiryDigestInterval = 0

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "EXPIRY_DIGEST_INTERVAL") {
		t.Errorf("expected EXPIRY_DIGEST_INTERVAL error, got: %v", err)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := validBaseConfig()
	cfg.Server.Port = ""
	cfg.Server.Env = "invalid"
	cfg.JWT.ExpirationMins = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple errors")
	}

	errStr := err.Error()
	for _, want := range []string{"SERVER_PORT", "SERVER_ENV", "JWT_EXPIRATION_MINS"} {
		if !strings.Contains(errStr, want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "development"}}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.Server.Env = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false for production")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Env: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}

	cfg.Server.Env = "development"
	if cfg.IsProduction() {
		t.Error("expected IsProduction to return false for development")
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "DB_DRIVER=sqlite\nDB_DSN=file:roster.db\nEXPIRY_DIGEST_INTERVAL=6h\nCORS_ALLOWED_ORIGINS=http://a.test,http://b.test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected driver sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Jobs.ExpiryDigestInterval != 6*time.Hour {
		t.Errorf("expected 6h digest interval, got %v", cfg.Jobs.ExpiryDigestInterval)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("expected two origins, got %v", cfg.Server.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got: %v", err)
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
}

func validBaseConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:    DriverSurrealDB,
			Host:      "localhost",
			Port:      "8000",
			Namespace: "roster",
			Database:  "main",
		},
		JWT: JWTConfig{
			PrivateKeyPath: "./keys/private.pem",
			PublicKeyPath:  "./keys/public.pem",
			ExpirationMins: 60,
			Issuer:         "roster.forgo.software",
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 120,
			Burst:          20,
		},
		Jobs: JobsConfig{
			ExpiryDigestEnabled:  true,
			ExpiryDigestInterval: 24 * time.Hour,
		},
	}
}
