package app

import (
	"context"
	"testing"

	"github.com/vladislavdragonenkov/dealer-oms/internal/service/breaker"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/catalog"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/inventory"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/notification"
)

func TestNewDependencies_MemoryDriver(t *testing.T) {
	cfg := DefaultConfig()

	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	defer deps.Close()

	if deps.Orders == nil || deps.Tracking == nil || deps.Outbox == nil {
		t.Fatal("expected all repositories to be initialized")
	}

	// Без base URL подставляются mock-клиенты.
	if _, ok := deps.Inventory.(*inventory.MockService); !ok {
		t.Errorf("expected mock inventory client, got %T", deps.Inventory)
	}
	if _, ok := deps.Catalog.(*catalog.MockService); !ok {
		t.Errorf("expected mock catalog client, got %T", deps.Catalog)
	}
	if _, ok := deps.Notifications.(*notification.MockService); !ok {
		t.Errorf("expected mock notification client, got %T", deps.Notifications)
	}

	if err := deps.Ping(context.Background()); err != nil {
		t.Errorf("memory storage ping must be nil, got %v", err)
	}
}

func TestNewDependencies_HTTPClientsBehindBreaker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InventoryBaseURL = "http://inventory.local"
	cfg.CatalogBaseURL = "http://catalog.local"
	cfg.NotificationBaseURL = "http://notifications.local"

	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewDependencies failed: %v", err)
	}
	defer deps.Close()

	if _, ok := deps.Inventory.(*breaker.GuardedInventory); !ok {
		t.Errorf("expected guarded inventory client, got %T", deps.Inventory)
	}
	if _, ok := deps.Catalog.(*breaker.GuardedCatalog); !ok {
		t.Errorf("expected guarded catalog client, got %T", deps.Catalog)
	}
	if _, ok := deps.Notifications.(*notification.Client); !ok {
		t.Errorf("expected http notification client, got %T", deps.Notifications)
	}
}

func TestNewDependencies_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "cassandra"

	if _, err := NewDependencies(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
