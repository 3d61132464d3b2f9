package domain

// OrderRepository описывает требования к хранилищу заказов.
//
// Create и Update принимают атомарный бандл: заказ, запись трекинга и ровно
// одно outbox-событие фиксируются в одной транзакции. Если запись outbox
// не прошла, транзакция откатывается целиком, включая смену статуса.
type OrderRepository interface {
	// Create сохраняет новый заказ с начальной записью трекинга и событием.
	// Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order, entry TrackingEntry, event OutboxMessage) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByDealer возвращает заказы дилера с опциональным ограничением на количество.
	ListByDealer(dealerID string, limit int) ([]Order, error)
	// Update применяет переход статуса с учётом optimistic locking:
	// при несовпадении версии возвращает ErrOrderVersionConflict,
	// и ни одна из трёх записей не фиксируется.
	Update(order Order, entry TrackingEntry, event OutboxMessage) error
	// DeleteCancelled необратимо удаляет заказ и его позиции одной транзакцией.
	// Разрешено только для статуса CANCELLED, иначе ErrStateConflict.
	// Записи трекинга сохраняются как аудиторский след.
	DeleteCancelled(id string) error
}

// TrackingRepository читает историю жизненного цикла заказа.
type TrackingRepository interface {
	// List возвращает записи трекинга заказа в хронологическом порядке.
	List(orderID string) ([]TrackingEntry, error)
}
