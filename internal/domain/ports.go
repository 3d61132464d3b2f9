package domain

import "time"

// AllocationLine — позиция запроса на резервирование стока.
type AllocationLine struct {
	VariantID string
	Qty       int32
}

// ShipmentLine — позиция отгрузки, обогащённая метаданными каталога.
type ShipmentLine struct {
	VariantID   string
	Qty         int32
	ModelID     string
	ModelName   string
	VariantName string
}

// VariantMetadata — метаданные комплектации из каталога производителя.
type VariantMetadata struct {
	ModelID     string
	ModelName   string
	VariantName string
}

// InventoryClient описывает взаимодействие с подсистемой центрального склада.
// Результат каждого вызова — типизированное объединение: nil либо одна из
// доменных ошибок; транспортные детали наружу не протекают.
type InventoryClient interface {
	// Allocate резервирует сток под заказ.
	// Возвращает nil | ErrInsufficientStock | ErrDownstreamUnavailable.
	Allocate(orderID string, lines []AllocationLine) error
	// Ship запускает физическую отгрузку зарезервированного стока дилеру.
	// Возвращает nil | ErrShipmentConflict | ErrDownstreamUnavailable.
	Ship(orderID, dealerID string, lines []ShipmentLine) error
	// ReturnStock возвращает сток заказа на центральный склад.
	// Возвращает nil | ErrDownstreamUnavailable.
	ReturnStock(orderID string) error
}

// CatalogClient описывает доступ к каталогу моделей и цен.
type CatalogClient interface {
	// GetPricing возвращает цену комплектации в минимальных денежных единицах.
	GetPricing(variantID string) (int64, error)
	// GetMetadata возвращает модель/комплектацию для обогащения отгрузки.
	GetMetadata(variantID string) (VariantMetadata, error)
}

// NotificationClient удаляет отложенные уведомления о споре.
// Вызов best-effort: отсутствие уведомления по ссылке — не ошибка.
type NotificationClient interface {
	DeletePendingByLink(link string) error
}

// OutboxStatus описывает состояние outbox-записи.
type OutboxStatus string

const (
	// OutboxStatusNew — запись зафиксирована вместе с изменением состояния, ждёт публикации.
	OutboxStatusNew OutboxStatus = "NEW"
	// OutboxStatusSent — брокер подтвердил публикацию.
	OutboxStatusSent OutboxStatus = "SENT"
	// OutboxStatusFailed — лимит попыток исчерпан; запись ждёт разбора оператором.
	OutboxStatusFailed OutboxStatus = "FAILED"
)

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Status        OutboxStatus
	Attempts      int
	CreatedAt     time.Time
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; доставка at-least-once,
	// потребители обязаны быть идемпотентными.
	Publish(event OutboxMessage) error
}

// OutboxRepository читает и помечает записи outbox для relay-воркера.
// Новые записи появляются только внутри атомарных write-бандлов OrderRepository.
type OutboxRepository interface {
	// PullPending возвращает до limit записей в статусе NEW в порядке создания.
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}
