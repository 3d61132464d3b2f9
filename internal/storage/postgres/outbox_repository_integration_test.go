package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

func TestOutboxRepository_PostgresPullAndMark(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orders := NewOrderRepository(store)
	outbox := NewOutboxRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	order1 := sampleOrder("outbox-order-1", "dealer-1", now.Add(-2*time.Minute))
	order2 := sampleOrder("outbox-order-2", "dealer-1", now.Add(-time.Minute))

	event1 := sampleEvent(order1, domain.EventTypeOrderPlaced)
	event1.CreatedAt = now.Add(-2 * time.Minute)
	event2 := sampleEvent(order2, domain.EventTypeOrderPlaced)
	event2.CreatedAt = now.Add(-time.Minute)

	if err := orders.Create(order1, sampleTracking(order1, order1.CreatedAt), event1); err != nil {
		t.Fatalf("create order1: %v", err)
	}
	if err := orders.Create(order2, sampleTracking(order2, order2.CreatedAt), event2); err != nil {
		t.Fatalf("create order2: %v", err)
	}

	pending, err := outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending messages, got %d", len(pending))
	}
	if pending[0].ID != event1.ID || pending[1].ID != event2.ID {
		t.Fatalf("pending messages out of creation order: %s, %s", pending[0].ID, pending[1].ID)
	}

	limited, err := outbox.PullPending(1)
	if err != nil {
		t.Fatalf("pull pending with limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != event1.ID {
		t.Fatalf("unexpected limited pull result: %+v", limited)
	}

	stats, err := outbox.Stats()
	if err != nil {
		t.Fatalf("outbox stats: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Fatalf("expected 2 pending in stats, got %d", stats.PendingCount)
	}
	if !stats.OldestPendingAt.Equal(event1.CreatedAt) {
		t.Fatalf("unexpected oldest pending: got=%v want=%v", stats.OldestPendingAt, event1.CreatedAt)
	}

	if err := outbox.MarkSent(event1.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := outbox.MarkFailed(event2.ID); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err = outbox.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending after mark: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty backlog after mark, got %d", len(pending))
	}

	stats, err = outbox.Stats()
	if err != nil {
		t.Fatalf("outbox stats after mark: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected 0 pending in stats, got %d", stats.PendingCount)
	}
}

func TestOutboxRepository_PostgresMarkMissing(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	outbox := NewOutboxRepository(store)

	if err := outbox.MarkSent("missing-id"); !errors.Is(err, domain.ErrOutboxMessageNotFound) {
		t.Fatalf("expected ErrOutboxMessageNotFound on sent, got %v", err)
	}
	if err := outbox.MarkFailed("missing-id"); !errors.Is(err, domain.ErrOutboxMessageNotFound) {
		t.Fatalf("expected ErrOutboxMessageNotFound on failed, got %v", err)
	}
}
