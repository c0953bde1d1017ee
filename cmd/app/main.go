package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/api"
	"github.com/Domenick1991/skytrack/config"
	"github.com/Domenick1991/skytrack/internal/bootstrap"
	"github.com/Domenick1991/skytrack/internal/logger"
	"github.com/Domenick1991/skytrack/internal/service/lookup"
	"github.com/Domenick1991/skytrack/internal/service/reminders"
	"github.com/Domenick1991/skytrack/internal/service/trips"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.New(cfg.Logger)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeStorage, err := bootstrap.OpenStorage(ctx, *cfg, lg)
	if err != nil {
		lg.Fatal("open storage", zap.Error(err))
	}
	defer closeStorage()

	store := trips.NewStore(kv, trips.WithKey(cfg.Storage.Key), trips.WithLogger(lg.Named("trips")))
	if err := store.Load(ctx); err != nil {
		lg.Fatal("load saved trips", zap.Error(err))
	}

	notifier, closeNotifier := bootstrap.NewNotifier(ctx, cfg.Kafka, lg)
	defer closeNotifier()

	scheduler := reminders.NewScheduler(store, notifier, lg.Named("reminders"))
	scheduler.Watch(ctx)

	sessions := lookup.NewSessions(
		lookup.NewDemoResolver(cfg.Lookup.ValidReference, cfg.Lookup.Delay()),
		lg.Named("lookup"),
		lookup.WithIdleTTL(cfg.Lookup.SessionIdleTTL()),
	)
	defer sessions.Close()
	go sessions.Janitor(ctx, time.Minute)

	router := bootstrap.NewRouter(cfg, bootstrap.Handlers{
		Page:   api.NewPageHandler(sessions, store, lg),
		Lookup: api.NewLookupHandler(sessions, store, lg),
		Trips:  api.NewTripsHandler(store, sessions, scheduler, lg),
	}, lg)

	if err := bootstrap.Run(ctx, cfg, router, lg); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}
