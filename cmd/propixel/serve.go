// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/bythepixel/propixel/internal/admin"
	"github.com/bythepixel/propixel/internal/auth"
	"github.com/bythepixel/propixel/internal/client"
	"github.com/bythepixel/propixel/internal/company"
	"github.com/bythepixel/propixel/internal/core"
	"github.com/bythepixel/propixel/internal/health"
	"github.com/bythepixel/propixel/internal/proposal"
	"github.com/bythepixel/propixel/internal/server"
	"github.com/bythepixel/propixel/internal/user"
)

const (
	drainDelay    = 5 * time.Second
	pruneInterval = time.Hour
	pruneTimeout  = 30 * time.Second
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", version,
		"environment", cfg.App.Environment,
	)

	core.ExposeErrorDetails(cfg.IsDevelopment())

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized", "endpoint", cfg.Otel.Endpoint)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	rdb, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	signer, err := auth.LoadSigner(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("access token signer loaded",
		"algorithm", "ES256",
		"key_id", signer.KeyID(),
	)

	userSvc := user.NewService(user.NewRepository(db.DB))
	companySvc := company.NewService(company.NewRepository(db.DB))
	clientRepo := client.NewRepository(db.DB)
	clientSvc := client.NewService(clientRepo)
	proposalSvc := proposal.NewService(proposal.NewRepository(db.DB), clientRepo)

	sessionRepo := auth.NewRepository(db.DB)
	revocations := auth.NewRevocations(rdb.Client)
	authSvc := auth.NewService(sessionRepo, signer, userSvc, revocations, cfg.JWT.RefreshTokenExpire)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Pinger: db},
		health.Dependency{Name: "redis", Pinger: rdb},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.Otel.ServiceName,
	})

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	mountRoutes(srv.Router(), routes{
		cfg:       cfg,
		logger:    logger,
		redis:     rdb.Client,
		registry:  registry,
		verifier:  auth.NewSessionVerifier(signer, revocations, sessionRepo),
		jwks:      signer.JWKS,
		health:    healthHandler,
		auth:      auth.NewHandler(authSvc, cfg.Session),
		users:     user.NewHandler(userSvc),
		companies: company.NewHandler(companySvc),
		clients:   client.NewHandler(clientSvc),
		proposals: proposal.NewHandler(proposalSvc),
		admin: admin.NewHandler(admin.HandlerConfig{
			DBStats:    db.Stats,
			DBPing:     db.Ping,
			RedisStats: rdb.PoolStats,
			RedisPing:  rdb.Ping,
			Counters: map[string]admin.Counter{
				"users":     userSvc.CountUsers,
				"companies": companySvc.CountCompanies,
				"clients":   clientSvc.CountClients,
				"proposals": proposalSvc.CountProposals,
			},
		}),
	})

	go pruneSessions(ctx, authSvc)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := rdb.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// pruneSessions deletes sessions that expired or ended a while ago until
// ctx is done.
func pruneSessions(ctx context.Context, svc *auth.Service) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruneCtx, cancel := context.WithTimeout(ctx, pruneTimeout)
			n, err := svc.PruneSessions(pruneCtx)
			cancel()

			if err != nil {
				slog.Warn("prune sessions failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("pruned stale sessions", "count", n)
			}
		}
	}
}
