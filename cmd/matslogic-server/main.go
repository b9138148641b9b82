package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/matslogic/matslogic/pkg/api"
	"github.com/matslogic/matslogic/pkg/auth"
	"github.com/matslogic/matslogic/pkg/config"
	"github.com/matslogic/matslogic/pkg/events"
	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/logging"
	"github.com/matslogic/matslogic/pkg/metrics"
	"github.com/matslogic/matslogic/pkg/store/instrumented"
	"github.com/matslogic/matslogic/pkg/store/memory"
	"github.com/matslogic/matslogic/pkg/store/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewDefaultLogger().Error("failed to load config", logging.Err(err))
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Log.Level))
	logger.Info("matslogic server starting", logging.String("addr", cfg.Server.Addr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := metrics.NewRegistry()

	// Storage: Postgres when a database URL is configured, memory otherwise.
	var store graph.Store
	if cfg.Storage.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", logging.Err(err))
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		logger.Info("postgres storage ready")
	} else {
		store = memory.New()
		logger.Warn("using in-memory storage, data will not survive restarts")
	}
	store = instrumented.Wrap(store, registry)

	hub := events.NewHub()
	defer hub.Close()

	sinks := events.Fanout{hub}
	if cfg.Events.BindAddr != "" {
		broadcaster, err := events.NewBroadcaster(cfg.Events.BindAddr)
		if err != nil {
			logger.Error("failed to bind event broadcaster", logging.Err(err))
			os.Exit(1)
		}
		defer broadcaster.Close()
		sinks = append(sinks, broadcaster)
		logger.Info("event broadcaster listening", logging.String("bind", cfg.Events.BindAddr))
	}

	svc := graph.NewService(store,
		graph.WithEvents(sinks),
		graph.WithLogger(logger),
		graph.WithMetrics(registry))

	users := auth.NewService(store)
	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration, cfg.Auth.RefreshDuration)
	if err != nil {
		logger.Error("failed to initialize token manager", logging.Err(err))
		os.Exit(1)
	}

	server := api.NewServer(cfg.Server.Addr, svc, users, jwtManager, registry, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		cancel()
		hub.Close()
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", logging.Err(err))
		os.Exit(1)
	}
}
