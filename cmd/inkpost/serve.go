// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/auth"
	authmem "github.com/inkpost/inkpost/internal/auth/memory"
	authpg "github.com/inkpost/inkpost/internal/auth/postgres"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/httpapi"
	"github.com/inkpost/inkpost/internal/logging"
	"github.com/inkpost/inkpost/internal/observability"
	"github.com/inkpost/inkpost/internal/post"
	postmem "github.com/inkpost/inkpost/internal/post/memory"
	postpg "github.com/inkpost/inkpost/internal/post/postgres"
	"github.com/inkpost/inkpost/internal/store"
)

const (
	shutdownTimeout  = 5 * time.Second
	readinessTimeout = 2 * time.Second
)

// serveOptions holds flags of the serve command that are not configuration.
type serveOptions struct {
	migrate bool
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and the metrics/health server. Configuration is read
from --config, INKPOST_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), opts, cmd, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply pending database migrations before serving")

	return cmd
}

// backend is the storage selected by configuration.
type backend struct {
	accounts auth.AccountRepository
	posts    post.Repository
	ready    observability.ReadinessChecker
	close    func()
}

// runServeWithDeps starts the service with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, opts *serveOptions, cmd *cobra.Command, deps *ServeDeps) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if deps == nil {
		deps = &ServeDeps{}
	}
	setServeDefaults(deps)

	cfg, err := config.Load(config.ResolvePath(configFile), cmd.Flags())
	if err != nil {
		return oops.With("operation", "load configuration").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel) //nolint:errcheck // checked by Validate
	logger := logging.SetDefault("inkpost", version, logging.Options{Format: cfg.LogFormat, Level: level})

	logger.Info("starting inkpost",
		"http_addr", cfg.HTTPAddr,
		"storage", cfg.Storage,
		"log_format", cfg.LogFormat,
	)

	db, err := openBackend(ctx, cfg, opts, deps)
	if err != nil {
		return err
	}
	defer db.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var authMetrics *auth.Metrics
	var httpMetrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, db.ready)
		authMetrics = auth.NewMetrics(obsServer.Registry())
		httpMetrics = obsServer.Metrics()
	}

	handler, err := buildHandler(cfg, db, logger, authMetrics, httpMetrics)
	if err != nil {
		return err
	}

	if obsServer != nil {
		obsErrCh, startErr := obsServer.Start()
		if startErr != nil {
			return oops.Code("SERVE_FAILED").With("operation", "start observability server").Wrap(startErr)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		logger.Info("observability server started", "addr", obsServer.Addr())
	}

	apiServer := deps.APIServerFactory(cfg.HTTPAddr, handler)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServers(logger, obsServer, nil)
		return oops.Code("SERVE_FAILED").With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("inkpost listening on " + apiServer.Addr())
	logger.Info("inkpost ready", "addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServers(logger, obsServer, apiServer)
	logger.Info("shutdown complete")
	return nil
}

func setServeDefaults(deps *ServeDeps) {
	if deps.PoolFactory == nil {
		deps.PoolFactory = func(ctx context.Context, databaseURL string) (Pool, error) {
			return store.Connect(ctx, databaseURL, store.DefaultConnectOptions)
		}
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (Migrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler) APIServer {
			return httpapi.NewServer(addr, handler)
		}
	}
}

// openBackend connects the configured storage and, when asked, migrates it.
func openBackend(ctx context.Context, cfg *config.Config, opts *serveOptions, deps *ServeDeps) (*backend, error) {
	if cfg.Storage == config.StorageMemory {
		slog.Warn("using in-memory storage; all data is lost on exit")
		return &backend{
			accounts: authmem.NewAccountRepository(),
			posts:    postmem.NewPostRepository(),
			ready:    func() bool { return true },
			close:    func() {},
		}, nil
	}

	if opts.migrate {
		if err := migrateUp(cfg.DatabaseURL, deps); err != nil {
			return nil, err
		}
	}

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	slog.Info("connected to database")

	return &backend{
		accounts: authpg.NewAccountRepository(pool),
		posts:    postpg.NewPostRepository(pool),
		ready: func() bool {
			pingCtx, cancel := context.WithTimeout(context.Background(), readinessTimeout)
			defer cancel()
			return pool.Ping(pingCtx) == nil
		},
		close: pool.Close,
	}, nil
}

func migrateUp(databaseURL string, deps *ServeDeps) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("failed to close migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "apply migrations").Wrap(err)
	}
	slog.Info("database migrations applied")
	return nil
}

// buildHandler wires the auth components and the post service into the API.
func buildHandler(cfg *config.Config, db *backend, logger *slog.Logger, authMetrics *auth.Metrics, httpMetrics *observability.Metrics) (http.Handler, error) {
	hasher := auth.NewArgon2idHasher(cfg.Auth.Argon2.Params())
	creds, err := auth.NewCredentialStore(hasher, cfg.Auth.HashConcurrency, auth.WithCredentialMetrics(authMetrics))
	if err != nil {
		return nil, oops.With("operation", "create credential store").Wrap(err)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SigningSecret),
		auth.WithTokenLifetime(cfg.Auth.TokenLifetime),
		auth.WithIssuer(cfg.Auth.Issuer),
	)
	if err != nil {
		return nil, oops.With("operation", "create token service").Wrap(err)
	}

	if cfg.Auth.AllowUnverifiedReset {
		logger.Warn("password reset without proof of email ownership is enabled",
			"key", "auth.allow_unverified_reset")
	}
	directory, err := auth.NewDirectory(db.accounts, creds, tokens,
		auth.WithLogger(logger),
		auth.WithDirectoryMetrics(authMetrics),
		auth.WithUnverifiedReset(cfg.Auth.AllowUnverifiedReset),
	)
	if err != nil {
		return nil, oops.With("operation", "create account directory").Wrap(err)
	}

	sessions, err := auth.NewSessionAuthenticator(tokens)
	if err != nil {
		return nil, oops.With("operation", "create session authenticator").Wrap(err)
	}

	posts, err := post.NewService(db.posts, post.WithLogger(logger))
	if err != nil {
		return nil, oops.With("operation", "create post service").Wrap(err)
	}

	api, err := httpapi.New(httpapi.Deps{
		Accounts: directory,
		Sessions: sessions,
		Posts:    posts,
		Logger:   logger,
		Metrics:  httpMetrics,
	})
	if err != nil {
		return nil, oops.With("operation", "create api").Wrap(err)
	}
	return api, nil
}

// stopServers stops the API server, then the observability server. Nil
// servers are skipped.
func stopServers(logger *slog.Logger, obsServer ObservabilityServer, apiServer APIServer) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if apiServer != nil {
		if err := apiServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping api server", "error", err)
		}
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}
}

// monitorServerErrors watches a server's error channel and cancels the context
// when the server fails, triggering a graceful shutdown.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
