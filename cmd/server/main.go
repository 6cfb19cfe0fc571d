package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"bpd/internal/bpd/handler"
	bpdmetrics "bpd/internal/bpd/metrics"
	"bpd/internal/bpd/service"
	"bpd/internal/bpd/store"
	"bpd/internal/identity"
	"bpd/internal/membership"
	"bpd/internal/platform/config"
	"bpd/internal/platform/httpserver"
	"bpd/internal/platform/kafka"
	"bpd/internal/platform/logger"
	"bpd/internal/platform/metrics"
	"bpd/internal/platform/postgres"
	"bpd/internal/platform/redis"
	"bpd/internal/supporttoken"
	httptransport "bpd/internal/transport/http"
	"bpd/pkg/platform/audit"
	"bpd/pkg/platform/audit/recorder"
	auditkafka "bpd/pkg/platform/audit/store/kafka"
	auditmemory "bpd/pkg/platform/audit/store/memory"
	auditpostgres "bpd/pkg/platform/audit/store/postgres"
	"bpd/pkg/platform/middleware/auth"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()
	checks := map[string]httptransport.HealthCheck{}

	pool, err := postgres.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return err
	}
	closers = append(closers, pool.Close)
	checks["postgres"] = pool.Ping

	auditStore, closeAudit, err := buildAuditStore(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	closers = append(closers, closeAudit)

	redisClient, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		closers = append(closers, func() { _ = redisClient.Close() })
		checks["redis"] = redis.HealthCheck(redisClient)
	} else {
		log.Warn("REDIS_URL not set, using in-memory blacklist and membership cache")
	}

	svc, err := buildService(ctx, cfg, log, pool, auditStore, redisClient)
	if err != nil {
		return err
	}

	validator, err := auth.NewRS256Validator(cfg.Auth.PublicKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:       log,
		Metrics:      metrics.New(),
		Validator:    validator,
		MetricsToken: cfg.Server.MetricsToken,
		HealthChecks: checks,
		Handlers:     []httptransport.Registrar{handler.New(svc, log)},
	})
	srv := httpserver.New(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting bpd api", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func buildAuditStore(ctx context.Context, cfg *config.Config, log *slog.Logger, checks map[string]httptransport.HealthCheck) (audit.Store, func(), error) {
	switch cfg.Audit.Backend {
	case config.AuditBackendKafka:
		client, err := kafka.NewClient(ctx, cfg.Audit.Brokers, "bpd-api")
		if err != nil {
			return nil, nil, err
		}
		if err := auditkafka.EnsureTopic(ctx, client, cfg.Audit.Topic, 3, -1); err != nil {
			client.Close()
			return nil, nil, err
		}
		checks["kafka"] = client.Ping
		log.Info("audit log backend", "backend", "kafka", "topic", cfg.Audit.Topic)
		return auditkafka.New(client, cfg.Audit.Topic), client.Close, nil

	case config.AuditBackendMemory:
		log.Warn("audit log backend is in-memory; entries are lost on restart")
		return auditmemory.NewInMemoryStore(), func() {}, nil

	default:
		db, err := postgres.OpenDB(ctx, cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		st := auditpostgres.New(db, cfg.Audit.TableName)
		if err := st.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		checks["audit_db"] = db.PingContext
		log.Info("audit log backend", "backend", "postgres", "table", cfg.Audit.TableName)
		return st, func() { _ = db.Close() }, nil
	}
}

func buildService(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	pool *pgxpool.Pool,
	auditStore audit.Store,
	redisClient *goredis.Client,
) (*service.Service, error) {
	verifier, err := supporttoken.NewVerifierFromPEM(cfg.SupportToken.PublicKey,
		supporttoken.WithIssuer(cfg.SupportToken.Issuer),
		supporttoken.WithAudience(cfg.SupportToken.Audience),
	)
	if err != nil {
		return nil, err
	}

	var (
		blacklist interface {
			identity.Blacklist
			service.Revoker
		}
		cache membership.Cache
	)
	if redisClient != nil {
		blacklist = supporttoken.NewRedisBlacklist(redisClient)
		cache = membership.NewRedisCache(redisClient)
	} else {
		blacklist = supporttoken.NewInMemoryBlacklist()
		cache = membership.NewInMemoryCache()
	}

	m := bpdmetrics.New()
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithMaxQueryAttempts(cfg.QueryMaxAttempts),
	}

	if cfg.Directory.Enabled() {
		const directoryTimeout = 10 * time.Second
		directory := membership.NewGraphDirectory(ctx, membership.DirectoryConfig{
			BaseURL:      cfg.Directory.BaseURL,
			TokenURL:     cfg.Directory.ResolvedTokenURL(),
			ClientID:     cfg.Directory.ClientID,
			ClientSecret: cfg.Directory.ClientSecret,
			Timeout:      directoryTimeout,
		})
		checker, err := membership.NewChecker(directory, cfg.Directory.AdminGroupName,
			membership.WithCache(cache, cfg.Directory.CacheTTL),
			membership.WithLookupTimeout(directoryTimeout),
			membership.WithLogger(log),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithRevocation(blacklist, checker, cfg.SupportToken.BlacklistTTL))
	} else {
		log.Warn("directory not configured, support token revocation is disabled")
	}

	auditor := recorder.New(auditStore,
		recorder.WithMetrics(recorder.NewMetrics()),
	)
	return service.New(
		identity.NewResolver(verifier, blacklist, log),
		store.NewPostgres(pool, m),
		auditor,
		opts...,
	)
}
