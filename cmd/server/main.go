package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forgo/roster/internal/config"
	"github.com/forgo/roster/internal/database"
	"github.com/forgo/roster/internal/handler"
	"github.com/forgo/roster/internal/jobs"
	"github.com/forgo/roster/internal/middleware"
	"github.com/forgo/roster/internal/observability"
	"github.com/forgo/roster/internal/repository"
	"github.com/forgo/roster/internal/service"
	"github.com/forgo/roster/internal/sqlstore"
	"github.com/forgo/roster/migrations"
	"github.com/forgo/roster/pkg/jwt"
)

// store is the storage backend selected by DB_DRIVER
type store struct {
	accounts  service.AccountRepository
	players   service.PlayerRepository
	teams     service.TeamRepository
	contracts service.ContractRepository
	pinger    handler.Pinger
	close     func() error
}

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:      cfg.Tracing.Enabled,
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		ServiceName:  cfg.Tracing.ServiceName,
		Environment:  cfg.Server.Env,
		Insecure:     !cfg.IsProduction(),
	}, logger)
	if err != nil {
		slog.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	st, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		slog.Error("failed to open storage", slog.String("driver", cfg.Database.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = st.close() }()

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		AccountRepo: st.accounts,
		PlayerRepo:  st.players,
		JWTService:  jwtService,
		Logger:      logger,
	})
	accountService := service.NewAccountService(service.AccountServiceConfig{
		AccountRepo: st.accounts,
		PlayerRepo:  st.players,
		Logger:      logger,
	})
	contractService := service.NewContractService(service.ContractServiceConfig{
		ContractRepo: st.contracts,
		PlayerRepo:   st.players,
		TeamRepo:     st.teams,
		Logger:       logger,
	})
	playerService := service.NewPlayerService(service.PlayerServiceConfig{
		PlayerRepo:   st.players,
		TeamRepo:     st.teams,
		ContractRepo: st.contracts,
		AccountRepo:  st.accounts,
		Logger:       logger,
	})
	teamService := service.NewTeamService(service.TeamServiceConfig{
		TeamRepo:     st.teams,
		PlayerRepo:   st.players,
		ContractRepo: st.contracts,
		Logger:       logger,
	})
	dashboardService := service.NewDashboardService(service.DashboardServiceConfig{
		PlayerRepo:   st.players,
		TeamRepo:     st.teams,
		ContractRepo: st.contracts,
		AccountRepo:  st.accounts,
		Logger:       logger,
	})

	if cfg.Seed.DemoData {
		seeder := service.NewSeederService(service.SeederServiceConfig{
			AccountRepo:  st.accounts,
			PlayerRepo:   st.players,
			TeamRepo:     st.teams,
			ContractRepo: st.contracts,
			RandomSeed:   cfg.Seed.RandomSeed,
			Logger:       logger,
		})
		if _, err := seeder.Seed(ctx, service.SeedRequest{
			AdminEmail:    cfg.Seed.AdminEmail,
			AdminPassword: cfg.Seed.AdminPassword,
		}); err != nil {
			slog.Error("failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Background jobs
	var expiryDigest *jobs.ExpiryDigest
	if cfg.Jobs.ExpiryDigestEnabled {
		expiryDigest = jobs.NewExpiryDigest(jobs.ExpiryDigestConfig{
			Source:     dashboardService,
			Logger:     logger,
			Interval:   cfg.Jobs.ExpiryDigestInterval,
			StartDelay: 5 * time.Second,
		})
		expiryDigest.Start()
	}

	// Rate limiting and idempotency
	var rateLimit middleware.Middleware
	var redisClient *redis.Client
	if cfg.RateLimit.Enabled {
		limitCfg := middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.RequestsPerMin,
			Window: time.Minute,
			Burst:  cfg.RateLimit.Burst,
		}
		if cfg.RateLimit.RedisAddr != "" {
			redisClient = redis.NewClient(&redis.Options{
				Addr:     cfg.RateLimit.RedisAddr,
				Password: cfg.RateLimit.RedisPassword,
				DB:       cfg.RateLimit.RedisDB,
			})
			rateLimit = middleware.RateLimit(middleware.NewRedisRateLimiter(redisClient, limitCfg))
			slog.Info("rate limiting through redis", slog.String("addr", cfg.RateLimit.RedisAddr))
		} else {
			limiter := middleware.NewRateLimiter(limitCfg)
			defer limiter.Stop()
			rateLimit = middleware.RateLimit(limiter)
		}
	}
	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
	defer idempotencyStore.Stop()

	// Routes
	mux := http.NewServeMux()
	handler.Routes{
		Health:       handler.NewHealthHandler(st.pinger, cfg.Database.Driver),
		Auth:         handler.NewAuthHandler(authService),
		Accounts:     handler.NewAccountHandler(accountService),
		Contracts:    handler.NewContractHandler(contractService),
		Players:      handler.NewPlayerHandler(playerService),
		Teams:        handler.NewTeamHandler(teamService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		RequireAuth:  middleware.Auth(authService),
		OptionalAuth: middleware.OptionalAuth(authService),
		RateLimit:    rateLimit,
		Idempotency:  middleware.Idempotency(idempotencyStore),
	}.Register(mux)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Tracing(nil),
		middleware.Logger(logger),
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.String("driver", cfg.Database.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if expiryDigest != nil {
		expiryDigest.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// openStore connects the backend named by cfg.Driver and brings its schema
// up to date
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		sql, err := sqlstore.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := sql.Migrate(ctx); err != nil {
			_ = sql.Close()
			return nil, err
		}
		slog.Info("connected to database", slog.String("driver", cfg.Driver))
		return &store{
			accounts:  sql.Accounts(),
			players:   sql.Players(),
			teams:     sql.Teams(),
			contracts: sql.Contracts(),
			pinger:    sql,
			close:     sql.Close,
		}, nil
	default:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Host,
			Port:      cfg.Port,
			User:      cfg.User,
			Password:  cfg.Password,
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		if err := database.ApplyMigrations(ctx, db, migrations.Files); err != nil {
			_ = db.Close()
			return nil, err
		}
		slog.Info("connected to database",
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("database", cfg.Database),
		)
		return &store{
			accounts:  repository.NewAccountRepository(db),
			players:   repository.NewPlayerRepository(db),
			teams:     repository.NewTeamRepository(db),
			contracts: repository.NewContractRepository(db),
			pinger:    db,
			close:     db.Close,
		}, nil
	}
}
