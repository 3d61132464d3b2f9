package memory

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

func seedOutbox(t *testing.T, store *Store, n int) []string {
	t.Helper()

	now := time.Now().UTC()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		orderID := fmt.Sprintf("order-%d", i)
		order := domain.Order{
			ID:         orderID,
			DealerID:   "dealer-1",
			Status:     domain.OrderStatusPending,
			TotalMinor: 100,
			Items: []domain.OrderItem{{
				ID: "item-" + orderID, VariantID: "v", Qty: 1, UnitPriceMinor: 100, FinalPriceMinor: 100, CreatedAt: now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}
		entry := domain.TrackingEntry{OrderID: orderID, Status: domain.OrderStatusPending}
		event := domain.OutboxMessage{
			ID:            fmt.Sprintf("msg-%d", i),
			AggregateType: "order",
			AggregateID:   orderID,
			EventType:     domain.EventTypeOrderPlaced,
			Payload:       []byte(`{}`),
			CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.Create(order, entry, event); err != nil {
			t.Fatalf("create order %s: %v", orderID, err)
		}
		ids = append(ids, event.ID)
	}
	return ids
}

func TestOutboxPullPending_CreationOrder(t *testing.T) {
	store := NewStore()
	ids := seedOutbox(t, store, 3)

	msgs, err := store.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 pending messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if msg.ID != ids[i] {
			t.Fatalf("expected message %s at position %d, got %s", ids[i], i, msg.ID)
		}
	}
}

func TestOutboxPullPending_Limit(t *testing.T) {
	store := NewStore()
	seedOutbox(t, store, 5)

	msgs, err := store.PullPending(2)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages with limit, got %d", len(msgs))
	}
}

func TestOutboxAllPending_NoLimit(t *testing.T) {
	store := NewStore()
	ids := seedOutbox(t, store, 120)

	// PullPending без лимита отдаёт не больше размера батча по умолчанию,
	// AllPending обязан вернуть весь backlog целиком.
	batch, err := store.PullPending(0)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(batch) != 100 {
		t.Fatalf("expected default batch of 100, got %d", len(batch))
	}

	all := store.AllPending()
	if len(all) != 120 {
		t.Fatalf("expected all 120 pending messages, got %d", len(all))
	}

	if err := store.MarkSent(ids[0]); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if got := len(store.AllPending()); got != 119 {
		t.Fatalf("expected 119 pending after mark sent, got %d", got)
	}
}

func TestOutboxMarkSentAndFailed(t *testing.T) {
	store := NewStore()
	ids := seedOutbox(t, store, 2)

	if err := store.MarkSent(ids[0]); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	if err := store.MarkFailed(ids[1]); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	pending, err := store.PullPending(10)
	if err != nil {
		t.Fatalf("pull pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending messages, got %d", len(pending))
	}

	all := store.AllMessages()
	if all[0].Status != domain.OutboxStatusSent || all[0].Attempts != 1 {
		t.Fatalf("unexpected first message state: %s/%d", all[0].Status, all[0].Attempts)
	}
	if all[1].Status != domain.OutboxStatusFailed || all[1].Attempts != 1 {
		t.Fatalf("unexpected second message state: %s/%d", all[1].Status, all[1].Attempts)
	}

	if err := store.MarkSent("missing"); !errors.Is(err, domain.ErrOutboxMessageNotFound) {
		t.Fatalf("expected not found for unknown message, got %v", err)
	}
}

func TestOutboxStats(t *testing.T) {
	store := NewStore()
	ids := seedOutbox(t, store, 3)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.PendingCount != 3 {
		t.Fatalf("expected 3 pending, got %d", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Fatalf("expected oldest pending timestamp to be set")
	}

	for _, id := range ids {
		if err := store.MarkSent(id); err != nil {
			t.Fatalf("mark sent %s: %v", id, err)
		}
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("stats after drain: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Fatalf("expected empty backlog, got %d", stats.PendingCount)
	}
}
