package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestOutboxEnqueueAssignsID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, err := repo.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   "order-1",
		EventType:     "order.placed",
		Payload:       []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if msg.ID == "" {
		t.Fatal("Enqueue should assign an ID")
	}
}

func TestOutboxPullPendingOldestFirst(t *testing.T) {
	repo := memory.NewOutboxRepository()

	first, _ := repo.Enqueue(domain.OutboxMessage{EventType: "order.placed", Payload: []byte(`{}`)})
	second, _ := repo.Enqueue(domain.OutboxMessage{EventType: "order.deleted", Payload: []byte(`{}`)})

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("PullPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending messages, got %d", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Error("pending messages should come oldest first")
	}

	limited, err := repo.PullPending(1)
	if err != nil {
		t.Fatalf("PullPending failed: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to cap result at 1, got %d", len(limited))
	}
}

func TestOutboxMarkSentRemovesFromPending(t *testing.T) {
	repo := memory.NewOutboxRepository()

	msg, _ := repo.Enqueue(domain.OutboxMessage{EventType: "order.placed", Payload: []byte(`{}`)})
	if err := repo.MarkSent(msg.ID); err != nil {
		t.Fatalf("MarkSent failed: %v", err)
	}

	pending, err := repo.PullPending(10)
	if err != nil {
		t.Fatalf("PullPending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("sent message should not be pending, got %d", len(pending))
	}

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PendingCount != 0 {
		t.Errorf("PendingCount = %d, want 0", stats.PendingCount)
	}
}

func TestOutboxStatsTracksBacklog(t *testing.T) {
	repo := memory.NewOutboxRepository()

	_, _ = repo.Enqueue(domain.OutboxMessage{EventType: "order.placed", Payload: []byte(`{}`)})
	_, _ = repo.Enqueue(domain.OutboxMessage{EventType: "user.deleted", Payload: []byte(`{}`)})

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PendingCount != 2 {
		t.Errorf("PendingCount = %d, want 2", stats.PendingCount)
	}
	if stats.OldestPendingAt.IsZero() {
		t.Error("OldestPendingAt should be set while backlog is non-empty")
	}
}

func TestOutboxMarkUnknownID(t *testing.T) {
	repo := memory.NewOutboxRepository()

	if err := repo.MarkSent("missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Errorf("MarkSent(missing) = %v, want ErrOutboxPublish", err)
	}
	if err := repo.MarkFailed("missing"); !errors.Is(err, domain.ErrOutboxPublish) {
		t.Errorf("MarkFailed(missing) = %v, want ErrOutboxPublish", err)
	}
}
