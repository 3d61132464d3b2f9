package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// Store — in-memory реализация хранилища для локальной разработки и тестов.
// Один мьютекс покрывает заказы, трекинг и outbox, поэтому write-бандлы
// (заказ + запись трекинга + outbox-событие) атомарны по построению.
type Store struct {
	mu       sync.RWMutex
	orders   map[string]domain.Order
	tracking map[string][]domain.TrackingEntry
	// outbox хранится срезом, чтобы сохранить порядок создания записей.
	outbox []domain.OutboxMessage
}

// NewStore создаёт пустое in-memory хранилище.
func NewStore() *Store {
	return &Store{
		orders:   make(map[string]domain.Order),
		tracking: make(map[string][]domain.TrackingEntry),
	}
}

// Create сохраняет новый заказ вместе с начальной записью трекинга и событием.
func (s *Store) Create(order domain.Order, entry domain.TrackingEntry, event domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return domain.ErrOrderVersionConflict
	}

	s.orders[order.ID] = cloneOrder(order)
	s.appendTrackingLocked(entry)
	s.appendOutboxLocked(event)
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (s *Store) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// ListByDealer возвращает заказы дилера, ограничивая выборку limit (если >0).
func (s *Store) ListByDealer(dealerID string, limit int) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if order.DealerID != dealerID {
			continue
		}
		result = append(result, cloneOrder(order))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Update применяет переход статуса с проверкой версии (optimistic locking).
// При конфликте версии ни заказ, ни трекинг, ни outbox не изменяются.
func (s *Store) Update(order domain.Order, entry domain.TrackingEntry, event domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrOrderVersionConflict
	}

	// Инкрементируем версию перед сохранением.
	order.Version++
	s.orders[order.ID] = cloneOrder(order)
	s.appendTrackingLocked(entry)
	s.appendOutboxLocked(event)
	return nil
}

// DeleteCancelled удаляет отменённый заказ; записи трекинга остаются.
func (s *Store) DeleteCancelled(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderStatusCancelled {
		return domain.NewOperationConflict("delete", order.Status)
	}

	delete(s.orders, id)
	return nil
}

func (s *Store) appendTrackingLocked(entry domain.TrackingEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Occurred.IsZero() {
		entry.Occurred = time.Now().UTC()
	}
	s.tracking[entry.OrderID] = append(s.tracking[entry.OrderID], entry)
}

func (s *Store) appendOutboxLocked(event domain.OutboxMessage) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	event.Status = domain.OutboxStatusNew
	event.Attempts = 0
	s.outbox = append(s.outbox, event)
}

// cloneOrder копирует заказ вместе с позициями, чтобы избежать
// непредсказуемых мутаций извне.
func cloneOrder(order domain.Order) domain.Order {
	clone := order
	if order.Items != nil {
		clone.Items = make([]domain.OrderItem, len(order.Items))
		copy(clone.Items, order.Items)
	}
	if order.ApprovedAt != nil {
		approvedAt := *order.ApprovedAt
		clone.ApprovedAt = &approvedAt
	}
	if order.DeliveryDate != nil {
		deliveryDate := *order.DeliveryDate
		clone.DeliveryDate = &deliveryDate
	}
	return clone
}

var _ domain.OrderRepository = (*Store)(nil)
