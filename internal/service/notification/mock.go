package notification

import "github.com/vladislavdragonenkov/dealer-oms/internal/domain"

// MockService — конфигурируемая заглушка NotificationClient для тестов.
type MockService struct {
	DeleteErr error

	DeleteCalls  int
	DeletedLinks []string
}

// NewMockService возвращает mock с успешным сценарием по умолчанию.
func NewMockService() *MockService {
	return &MockService{}
}

// DeletePendingByLink возвращает заранее настроенную ошибку и считает вызовы.
func (m *MockService) DeletePendingByLink(link string) error {
	m.DeleteCalls++
	m.DeletedLinks = append(m.DeletedLinks, link)
	return m.DeleteErr
}

var _ domain.NotificationClient = (*MockService)(nil)
