// Package config manages application configuration for the Roster API.
//
// Configuration comes from environment variables. An optional env file
// (ENV_FILE, default .env) is read with godotenv and overrides the process
// environment; a missing file is not an error.
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: port, timeouts and CORS origins
//   - DatabaseConfig: DB_DRIVER selects surrealdb, postgres or sqlite
//   - JWTConfig: RS256 key paths, issuer and token lifetime
//   - RateLimitConfig: per-client limits, shared through Redis when REDIS_ADDR is set
//   - TracingConfig: OpenTelemetry exporter selection
//   - SeedConfig: demo data on startup
//   - JobsConfig: the expiry digest schedule
//
// # Environment Variables
//
//	SERVER_PORT                  - HTTP port (default: 8080)
//	SERVER_ENV                   - development, production or test
//	DB_DRIVER                    - surrealdb (default), postgres, sqlite
//	DB_HOST, DB_PORT             - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE    - SurrealDB namespace and database
//	DB_DSN                       - connection string for the SQL drivers
//	JWT_PRIVATE_KEY_PATH         - RSA private key (PEM)
//	RATE_LIMIT_REQUESTS_PER_MIN  - sustained request rate per client
//	REDIS_ADDR                   - enables the shared rate limiter
//	TRACING_ENABLED              - turns on span export
//	SEED_DEMO_DATA               - seeds sample teams, players and contracts
//	EXPIRY_DIGEST_INTERVAL       - how often expiring contracts are logged
//
// Validate reports every problem at once, joined with errors.Join.
package config
