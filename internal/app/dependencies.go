package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/breaker"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/catalog"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/inventory"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/notification"
	"github.com/vladislavdragonenkov/dealer-oms/internal/storage/memory"
	"github.com/vladislavdragonenkov/dealer-oms/internal/storage/postgres"
)

// Dependencies содержит собранные зависимости приложения.
type Dependencies struct {
	Orders   domain.OrderRepository
	Tracking domain.TrackingRepository
	Outbox   domain.OutboxRepository

	Inventory     domain.InventoryClient
	Catalog       domain.CatalogClient
	Notifications domain.NotificationClient

	Logger *log.Entry

	pgStore *postgres.Store
}

// NewDependencies собирает хранилище и клиентов внешних сервисов по конфигу.
// Внешние вызовы каталога и склада проходят через общий circuit breaker.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("migrate postgres schema: %w", err)
			}
		}
		deps.pgStore = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Tracking = postgres.NewTrackingRepository(store)
		deps.Outbox = postgres.NewOutboxRepository(store)
		logger.Info("postgres storage initialized")
	case StorageDriverMemory, "":
		store := memory.NewStore()
		deps.Orders = store
		deps.Tracking = store
		deps.Outbox = store
		logger.Info("in-memory storage initialized")
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	cb := breaker.NewCircuitBreaker(
		cfg.BreakerMaxFailures,
		cfg.BreakerResetTimeout,
		logger.WithField("component", "circuit-breaker"),
	)

	if cfg.InventoryBaseURL != "" {
		client := inventory.NewClient(cfg.InventoryBaseURL, cfg.ClientTimeout, logger.WithField("component", "inventory-client"))
		deps.Inventory = breaker.NewGuardedInventory(client, cb)
	} else {
		logger.Warn("inventory base URL is empty, using mock inventory client")
		deps.Inventory = inventory.NewMockService()
	}

	if cfg.CatalogBaseURL != "" {
		client := catalog.NewClient(cfg.CatalogBaseURL, cfg.ClientTimeout, logger.WithField("component", "catalog-client"))
		deps.Catalog = breaker.NewGuardedCatalog(client, cb)
	} else {
		logger.Warn("catalog base URL is empty, using mock catalog client")
		deps.Catalog = catalog.NewMockService()
	}

	if cfg.NotificationBaseURL != "" {
		deps.Notifications = notification.NewClient(cfg.NotificationBaseURL, cfg.ClientTimeout, logger.WithField("component", "notification-client"))
	} else {
		logger.Warn("notification base URL is empty, using mock notification client")
		deps.Notifications = notification.NewMockService()
	}

	return deps, nil
}

// Ping проверяет доступность хранилища; для in-memory всегда nil.
func (d *Dependencies) Ping(ctx context.Context) error {
	if d.pgStore == nil {
		return nil
	}
	return d.pgStore.Ping(ctx)
}

// Close освобождает ресурсы хранилища.
func (d *Dependencies) Close() error {
	if d.pgStore == nil {
		return nil
	}
	return d.pgStore.Close()
}
