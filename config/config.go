package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Storage  StorageConfig  `yaml:"storage"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Worker   WorkerConfig   `yaml:"worker"`
	Logger   LoggerConfig   `yaml:"logger"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address" env:"HTTP_ADDRESS"`
	SwaggerDir     string   `yaml:"swagger_dir" env:"HTTP_SWAGGER_DIR"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST"`
	Port     int    `yaml:"port" env:"POSTGRES_PORT"`
	User     string `yaml:"user" env:"POSTGRES_USER"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"`
	Name     string `yaml:"name" env:"POSTGRES_DB"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSLMODE"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
	NotificationsTopic string   `yaml:"notifications_topic" env:"KAFKA_NOTIFICATIONS_TOPIC"`
	GroupID            string   `yaml:"group_id" env:"KAFKA_GROUP_ID"`
}

// Enabled reports whether reminder notifications go through Kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.NotificationsTopic != ""
}

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Backend string `yaml:"backend" env:"STORAGE_BACKEND"`
	Key     string `yaml:"key" env:"STORAGE_KEY"`
}

type LookupConfig struct {
	ValidReference string `yaml:"valid_reference" env:"LOOKUP_VALID_REFERENCE"`
	DelayMillis    int    `yaml:"delay_ms" env:"LOOKUP_DELAY_MS"`
	SessionIdleMin int    `yaml:"session_idle_minutes" env:"LOOKUP_SESSION_IDLE_MINUTES"`
}

func (l LookupConfig) Delay() time.Duration {
	return time.Duration(l.DelayMillis) * time.Millisecond
}

// SessionIdleTTL is how long an untouched browser session keeps its state.
func (l LookupConfig) SessionIdleTTL() time.Duration {
	return time.Duration(l.SessionIdleMin) * time.Minute
}

type WorkerConfig struct {
	ReminderSweepSeconds int `yaml:"reminder_sweep_seconds" env:"WORKER_REMINDER_SWEEP_SECONDS"`
}

type LoggerConfig struct {
	Level  string `yaml:"level" env:"LOGGER_LEVEL"`
	Format string `yaml:"format" env:"LOGGER_FORMAT"`
}

// Default returns the settings used for keys missing from the YAML file.
func Default() Config {
	return Config{
		HTTP:    HTTPConfig{Address: ":8080"},
		Storage: StorageConfig{Backend: StorageMemory, Key: "skytrack_saved_trips"},
		Lookup:  LookupConfig{ValidReference: "02GHUY", DelayMillis: 1500, SessionIdleMin: 30},
		Worker:  WorkerConfig{ReminderSweepSeconds: 60},
		Logger:  LoggerConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads the YAML file at path on top of Default and then applies
// environment overrides. A .env file in the working directory is honoured.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if c.Lookup.DelayMillis < 0 {
		return fmt.Errorf("lookup delay must not be negative")
	}
	if c.Lookup.SessionIdleMin <= 0 {
		return fmt.Errorf("session idle timeout must be positive")
	}
	if c.Worker.ReminderSweepSeconds <= 0 {
		return fmt.Errorf("reminder sweep interval must be positive")
	}
	return nil
}
