package memory

import (
	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// PullPending возвращает до limit записей в статусе NEW в порядке создания.
func (s *Store) PullPending(limit int) ([]domain.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	result := make([]domain.OutboxMessage, 0, limit)
	for _, msg := range s.outbox {
		if msg.Status != domain.OutboxStatusNew {
			continue
		}
		result = append(result, msg)
		if len(result) >= limit {
			break
		}
	}

	return result, nil
}

// Stats возвращает размер backlog и возраст самой старой ожидающей записи.
func (s *Store) Stats() (domain.OutboxStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats domain.OutboxStats
	for _, msg := range s.outbox {
		if msg.Status != domain.OutboxStatusNew {
			continue
		}
		stats.PendingCount++
		if stats.OldestPendingAt.IsZero() || msg.CreatedAt.Before(stats.OldestPendingAt) {
			stats.OldestPendingAt = msg.CreatedAt
		}
	}
	return stats, nil
}

// MarkSent обновляет статус события после успешной публикации.
func (s *Store) MarkSent(id string) error {
	return s.markStatus(id, domain.OutboxStatusSent)
}

// MarkFailed фиксирует исчерпание попыток публикации.
func (s *Store) MarkFailed(id string) error {
	return s.markStatus(id, domain.OutboxStatusFailed)
}

func (s *Store) markStatus(id string, status domain.OutboxStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID != id {
			continue
		}
		s.outbox[i].Status = status
		s.outbox[i].Attempts++
		return nil
	}
	return domain.ErrOutboxMessageNotFound
}

// AllPending возвращает копию всех записей в статусе NEW без ограничения
// по количеству (используется в тестах).
func (s *Store) AllPending() []domain.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.OutboxMessage, 0)
	for _, msg := range s.outbox {
		if msg.Status != domain.OutboxStatusNew {
			continue
		}
		result = append(result, msg)
	}
	return result
}

// AllMessages возвращает копию всех outbox-записей в порядке создания (используется в тестах).
func (s *Store) AllMessages() []domain.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.OutboxMessage, len(s.outbox))
	copy(result, s.outbox)
	return result
}

var _ domain.OutboxRepository = (*Store)(nil)
