package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver выбирает реализацию хранилища.
type StorageDriver string

const (
	// StorageDriverMemory — потокобезопасное in-memory хранилище для dev/демо.
	StorageDriverMemory StorageDriver = "memory"
	// StorageDriverPostgres — PostgreSQL с транзакционными write-бандлами.
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	APIAddr     string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string
	OutboxTopic  string

	// Пустой base URL означает mock-клиент вместо HTTP-адаптера.
	InventoryBaseURL    string
	CatalogBaseURL      string
	NotificationBaseURL string
	ClientTimeout       time.Duration

	BreakerMaxFailures  int
	BreakerResetTimeout time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
	OutboxMaxPending   int
}

// DefaultConfig возвращает рабочие значения для локального запуска.
func DefaultConfig() Config {
	return Config{
		APIAddr:             ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		OutboxTopic:         "",
		ClientTimeout:       5 * time.Second,
		BreakerMaxFailures:  5,
		BreakerResetTimeout: 30 * time.Second,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
		OutboxMaxPending:    1000,
	}
}

// ReadConfig строит конфигурацию из окружения поверх значений по умолчанию.
// Все переменные имеют префикс DEALER_OMS_.
func ReadConfig() Config {
	cfg := DefaultConfig()

	setString(&cfg.APIAddr, "DEALER_OMS_API_ADDR")
	setString(&cfg.MetricsAddr, "DEALER_OMS_METRICS_ADDR")

	if v := envValue("DEALER_OMS_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(v)
	}
	setString(&cfg.PostgresDSN, "DEALER_OMS_POSTGRES_DSN")
	setBool(&cfg.PostgresAutoMigrate, "DEALER_OMS_POSTGRES_AUTO_MIGRATE")

	setString(&cfg.KafkaBrokers, "DEALER_OMS_KAFKA_BROKERS")
	setString(&cfg.OutboxTopic, "DEALER_OMS_OUTBOX_TOPIC")

	setString(&cfg.InventoryBaseURL, "DEALER_OMS_INVENTORY_URL")
	setString(&cfg.CatalogBaseURL, "DEALER_OMS_CATALOG_URL")
	setString(&cfg.NotificationBaseURL, "DEALER_OMS_NOTIFICATION_URL")
	setDuration(&cfg.ClientTimeout, "DEALER_OMS_CLIENT_TIMEOUT")

	setInt(&cfg.BreakerMaxFailures, "DEALER_OMS_BREAKER_MAX_FAILURES")
	setDuration(&cfg.BreakerResetTimeout, "DEALER_OMS_BREAKER_RESET_TIMEOUT")

	setDuration(&cfg.OutboxPollInterval, "DEALER_OMS_OUTBOX_POLL_INTERVAL")
	setInt(&cfg.OutboxBatchSize, "DEALER_OMS_OUTBOX_BATCH_SIZE")
	setInt(&cfg.OutboxMaxAttempts, "DEALER_OMS_OUTBOX_MAX_ATTEMPTS")
	setDuration(&cfg.OutboxRetryDelay, "DEALER_OMS_OUTBOX_RETRY_DELAY")
	setInt(&cfg.OutboxMaxPending, "DEALER_OMS_OUTBOX_MAX_PENDING")

	return cfg
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setString(dst *string, key string) {
	if v := envValue(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v := envValue(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			*dst = parsed
		}
	}
}

func setInt(dst *int, key string) {
	if v := envValue(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := envValue(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			*dst = parsed
		}
	}
}
