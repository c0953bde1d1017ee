package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/config"
	"github.com/Domenick1991/skytrack/internal/bootstrap"
	"github.com/Domenick1991/skytrack/internal/email"
	"github.com/Domenick1991/skytrack/internal/kafka"
	"github.com/Domenick1991/skytrack/internal/logger"
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

	notifier, closeNotifier := bootstrap.NewNotifier(ctx, cfg.Kafka, lg)
	defer closeNotifier()

	scheduler := reminders.NewScheduler(store, notifier, lg.Named("reminders"))
	if _, err := scheduler.RequestPermission(ctx); err != nil {
		lg.Warn("notification permission", zap.Error(err))
	}

	if cfg.Kafka.Enabled() {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
		defer consumer.Close()

		sender := email.NewSender(lg.Named("email"))
		go func() {
			err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
				event, err := kafka.DecodeReminderEvent(msg)
				if err != nil {
					lg.Warn("skip reminder event", zap.Error(err))
					return nil
				}
				if err := sender.Send(ctx, event); err != nil {
					lg.Warn("reminder not sent", zap.String("trip_id", event.TripID), zap.Error(err))
				}
				return nil
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("consumer stopped", zap.Error(err))
			}
		}()
	}

	sweep := func() {
		if err := store.Load(ctx); err != nil {
			lg.Error("reload saved trips", zap.Error(err))
			return
		}
		sent, err := scheduler.Sweep(ctx, time.Now())
		if err != nil {
			lg.Error("reminder sweep", zap.Error(err))
		}
		if sent > 0 {
			lg.Info("reminders sent", zap.Int("count", sent))
		}
	}

	ticker := time.NewTicker(time.Duration(cfg.Worker.ReminderSweepSeconds) * time.Second)
	defer ticker.Stop()

	lg.Info("worker started", zap.Int("sweep_seconds", cfg.Worker.ReminderSweepSeconds))
	sweep()
	for {
		select {
		case <-ticker.C:
			sweep()
		case <-ctx.Done():
			lg.Info("worker shutting down")
			return
		}
	}
}
