package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"

	httpadapter "ims/internal/adapters/http"
	"ims/internal/adapters/memory"
	"ims/internal/adapters/natsbus"
	pg "ims/internal/adapters/postgres"
	"ims/internal/adapters/rediscache"
	"ims/internal/config"
	"ims/internal/engine"
	"ims/internal/logging"
	"ims/internal/ports"
	"ims/internal/services/aspects"
	"ims/internal/services/compliance"
	"ims/internal/services/dashboard"
	"ims/internal/services/registers"
	"ims/internal/services/risks"
	"ims/internal/services/safety"
	"ims/internal/workers/recompute"
)

func serveCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logging.Init(appName, cfg.LogLevel, cfg.LogFormat)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, migrate, log)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, migrate bool, log *slog.Logger) error {
	eng := engine.Default()
	if cfg.ScoringFile != "" {
		var err error
		if eng, err = config.LoadScoring(cfg.ScoringFile); err != nil {
			return err
		}
	}
	holder := engine.NewHolder(eng)

	store, closeStore, err := openStore(ctx, cfg, migrate, log)
	if err != nil {
		return err
	}
	defer closeStore()

	cache, closeCache, err := openCache(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCache()

	publisher, closePublisher, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	comp := compliance.New(compliance.Repos{
		Risks: store, Incidents: store, Actions: store, Legal: store, Snapshots: store,
	}, holder, cache, publisher, log)

	svc := httpadapter.Services{
		Risks:      risks.New(store, holder, comp),
		Aspects:    aspects.New(store, holder, comp),
		Safety:     safety.New(store, comp),
		Registers:  registers.New(registers.Repos{Incidents: store, Actions: store, Legal: store, Analyses: store}, comp),
		Compliance: comp,
		Dashboard: dashboard.New(dashboard.Repos{
			Risks: store, Incidents: store, Actions: store, Legal: store, Analyses: store, Safety: store,
		}, holder),
	}

	if cfg.ScoringFile != "" {
		w, err := config.NewScoringWatcher(cfg.ScoringFile, holder, log)
		if err != nil {
			return err
		}
		go w.Run(ctx)
	}

	if cfg.SnapshotSchedule != "" {
		runner, err := recompute.New(comp, cfg.SnapshotSchedule, log)
		if err != nil {
			return err
		}
		go runner.Run(ctx)
		log.Info("snapshot schedule", "schedule", cfg.SnapshotSchedule, "next", runner.Next())
	}

	api := httpadapter.New(svc, httpadapter.Options{
		JWTSecret: cfg.JWTSecret,
		Metrics:   httpadapter.NewMetrics(),
		Logger:    log,
	})
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; /api is unauthenticated")
	}

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	}
	if cfg.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxConnections)
	}
	srv := &http.Server{
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("listening", "addr", ln.Addr().String(), "store", cfg.Store, "env", cfg.Env)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, migrate bool, log *slog.Logger) (ports.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() {}, nil
	}
	db, err := pg.Connect(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if migrate {
		if err := db.Migrate(ctx, "up"); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return db, db.Close, nil
}

func openCache(ctx context.Context, cfg config.Config, log *slog.Logger) (ports.ScoreCache, func(), error) {
	if cfg.RedisURL == "" {
		return memory.NewScoreCache(cfg.CacheTTL), func() {}, nil
	}
	c, err := rediscache.Connect(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	log.Info("score cache", "backend", "redis", "ttl", cfg.CacheTTL)
	return c, func() { _ = c.Close() }, nil
}

func openPublisher(cfg config.Config, log *slog.Logger) (ports.EventPublisher, func(), error) {
	if cfg.NATSURL == "" {
		return natsbus.Noop{}, func() {}, nil
	}
	p, err := natsbus.Connect(natsbus.Config{URL: cfg.NATSURL, Name: appName})
	if err != nil {
		return nil, nil, fmt.Errorf("nats: %w", err)
	}
	log.Info("publishing entity changes", "subject", natsbus.SubjectPrefix+"*")
	return p, p.Close, nil
}
