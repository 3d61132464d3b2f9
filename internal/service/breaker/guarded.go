package breaker

import "github.com/vladislavdragonenkov/dealer-oms/internal/domain"

// GuardedInventory оборачивает InventoryClient circuit breaker'ом.
type GuardedInventory struct {
	inner   domain.InventoryClient
	breaker *CircuitBreaker
}

// NewGuardedInventory создаёт защищённый клиент склада.
func NewGuardedInventory(inner domain.InventoryClient, breaker *CircuitBreaker) *GuardedInventory {
	return &GuardedInventory{inner: inner, breaker: breaker}
}

func (g *GuardedInventory) Allocate(orderID string, lines []domain.AllocationLine) error {
	return g.breaker.Execute("inventory.Allocate", func() error {
		return g.inner.Allocate(orderID, lines)
	})
}

func (g *GuardedInventory) Ship(orderID, dealerID string, lines []domain.ShipmentLine) error {
	return g.breaker.Execute("inventory.Ship", func() error {
		return g.inner.Ship(orderID, dealerID, lines)
	})
}

func (g *GuardedInventory) ReturnStock(orderID string) error {
	return g.breaker.Execute("inventory.ReturnStock", func() error {
		return g.inner.ReturnStock(orderID)
	})
}

var _ domain.InventoryClient = (*GuardedInventory)(nil)

// GuardedCatalog оборачивает CatalogClient circuit breaker'ом.
type GuardedCatalog struct {
	inner   domain.CatalogClient
	breaker *CircuitBreaker
}

// NewGuardedCatalog создаёт защищённый клиент каталога.
func NewGuardedCatalog(inner domain.CatalogClient, breaker *CircuitBreaker) *GuardedCatalog {
	return &GuardedCatalog{inner: inner, breaker: breaker}
}

func (g *GuardedCatalog) GetPricing(variantID string) (int64, error) {
	var price int64
	err := g.breaker.Execute("catalog.GetPricing", func() error {
		var innerErr error
		price, innerErr = g.inner.GetPricing(variantID)
		return innerErr
	})
	if err != nil {
		return 0, err
	}
	return price, nil
}

func (g *GuardedCatalog) GetMetadata(variantID string) (domain.VariantMetadata, error) {
	var meta domain.VariantMetadata
	err := g.breaker.Execute("catalog.GetMetadata", func() error {
		var innerErr error
		meta, innerErr = g.inner.GetMetadata(variantID)
		return innerErr
	})
	if err != nil {
		return domain.VariantMetadata{}, err
	}
	return meta, nil
}

var _ domain.CatalogClient = (*GuardedCatalog)(nil)
