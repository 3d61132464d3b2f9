package memory

import (
	"sort"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// List возвращает записи трекинга заказа в хронологическом порядке.
func (s *Store) List(orderID string) ([]domain.TrackingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.tracking[orderID]
	result := make([]domain.TrackingEntry, len(entries))
	copy(result, entries)

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Occurred.Before(result[j].Occurred)
	})

	return result, nil
}

var _ domain.TrackingRepository = (*Store)(nil)
