package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Domenick1991/skytrack/config"
	"github.com/Domenick1991/skytrack/internal/cache"
	"github.com/Domenick1991/skytrack/internal/kafka"
	"github.com/Domenick1991/skytrack/internal/repository"
	"github.com/Domenick1991/skytrack/internal/service/reminders"
	"github.com/Domenick1991/skytrack/internal/service/trips"
)

const brokerCheckTimeout = 5 * time.Second

// OpenStorage connects the configured key-value backend. The returned
// closer releases its connections.
func OpenStorage(ctx context.Context, cfg config.Config, log *zap.Logger) (trips.KeyValueStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		store := cache.NewRedisStore(cfg.Redis)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("saved trips stored in redis", zap.String("addr", cfg.Redis.Addr))
		return store, func() { _ = store.Close() }, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo := repository.NewKeyValueRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info("saved trips stored in postgres", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))
		return repo, pool.Close, nil

	default:
		log.Info("saved trips kept in memory")
		return cache.NewMemoryStore(), func() {}, nil
	}
}

// NewNotifier publishes reminders to Kafka when brokers are configured and
// reachable, and logs them otherwise.
func NewNotifier(ctx context.Context, cfg config.KafkaConfig, log *zap.Logger) (reminders.Notifier, func()) {
	if !cfg.Enabled() {
		return reminders.NewLogNotifier(log.Named("notifier")), func() {}
	}

	producer := kafka.NewProducer(cfg.Brokers, log.Named("kafka"))
	checkCtx, cancel := context.WithTimeout(ctx, brokerCheckTimeout)
	defer cancel()
	if err := producer.CheckConnection(checkCtx); err != nil {
		_ = producer.Close()
		log.Warn("kafka unreachable, reminders will be logged", zap.Strings("brokers", cfg.Brokers), zap.Error(err))
		return reminders.NewLogNotifier(log.Named("notifier")), func() {}
	}
	return kafka.NewNotifier(producer, cfg.NotificationsTopic), func() { _ = producer.Close() }
}
