package inventory

import (
	"sync"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// MockService — конфигурируемая заглушка InventoryClient для тестов.
// Счётчики защищены мьютексом: Allocate вызывается из конкурирующих
// approve-операций, поэтому на заглушку приходят параллельные вызовы.
type MockService struct {
	AllocateErr    error
	ShipErr        error
	ReturnStockErr error

	mu sync.Mutex

	AllocateCalls    int
	ShipCalls        int
	ReturnStockCalls int

	LastAllocateLines []domain.AllocationLine
	LastShipLines     []domain.ShipmentLine
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{}
}

// Allocate возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) Allocate(orderID string, lines []domain.AllocationLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AllocateCalls++
	m.LastAllocateLines = lines
	return m.AllocateErr
}

// Ship возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) Ship(orderID, dealerID string, lines []domain.ShipmentLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ShipCalls++
	m.LastShipLines = lines
	return m.ShipErr
}

// ReturnStock возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) ReturnStock(orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ReturnStockCalls++
	return m.ReturnStockErr
}

var _ domain.InventoryClient = (*MockService)(nil)
