package catalog

import "github.com/vladislavdragonenkov/dealer-oms/internal/domain"

// MockService — конфигурируемая заглушка CatalogClient для тестов.
// Цены и метаданные задаются по variant_id; неизвестная комплектация
// возвращает ErrVariantNotFound, как настоящий каталог.
type MockService struct {
	Prices   map[string]int64
	Metadata map[string]domain.VariantMetadata

	PricingErr  error
	MetadataErr error

	PricingCalls  int
	MetadataCalls int
}

// NewMockService возвращает mock с пустым каталогом.
func NewMockService() *MockService {
	return &MockService{
		Prices:   make(map[string]int64),
		Metadata: make(map[string]domain.VariantMetadata),
	}
}

// GetPricing возвращает настроенную цену либо ErrVariantNotFound.
func (m *MockService) GetPricing(variantID string) (int64, error) {
	m.PricingCalls++
	if m.PricingErr != nil {
		return 0, m.PricingErr
	}
	price, ok := m.Prices[variantID]
	if !ok {
		return 0, domain.ErrVariantNotFound
	}
	return price, nil
}

// GetMetadata возвращает настроенные метаданные либо ErrVariantNotFound.
func (m *MockService) GetMetadata(variantID string) (domain.VariantMetadata, error) {
	m.MetadataCalls++
	if m.MetadataErr != nil {
		return domain.VariantMetadata{}, m.MetadataErr
	}
	meta, ok := m.Metadata[variantID]
	if !ok {
		return domain.VariantMetadata{}, domain.ErrVariantNotFound
	}
	return meta, nil
}

var _ domain.CatalogClient = (*MockService)(nil)
