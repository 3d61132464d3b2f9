package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

type trackingRepository struct {
	db *sql.DB
}

// NewTrackingRepository создаёт PostgreSQL-реализацию TrackingRepository.
// Записи пишутся только внутри транзакций OrderRepository; здесь — чтение.
func NewTrackingRepository(store *Store) domain.TrackingRepository {
	return &trackingRepository{db: store.DB()}
}

func (r *trackingRepository) List(orderID string) ([]domain.TrackingEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, notes, actor, occurred_at
		FROM tracking_entries
		WHERE order_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tracking entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.TrackingEntry, 0)
	for rows.Next() {
		var (
			entry  domain.TrackingEntry
			status string
		)
		if err := rows.Scan(&entry.ID, &entry.OrderID, &status, &entry.Notes, &entry.Actor, &entry.Occurred); err != nil {
			return nil, fmt.Errorf("scan tracking entry: %w", err)
		}
		entry.Status = domain.OrderStatus(status)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tracking entries: %w", err)
	}

	return entries, nil
}

var _ domain.TrackingRepository = (*trackingRepository)(nil)
