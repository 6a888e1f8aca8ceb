package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestCartRepositoryUpsertIncrementsByOne(t *testing.T) {
	repo := memory.NewCartRepository()

	first, inserted, err := repo.Upsert(domain.CartLine{
		OwnerID:     "user-1",
		ProductName: "Tee",
		UnitPrice:   300,
		Quantity:    1,
		OwnerName:   "Ivan Petrov",
	})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected first upsert to insert a new line")
	}
	if first.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", first.Quantity)
	}

	// Повторное добавление с любым Quantity даёт ровно +1.
	second, inserted, err := repo.Upsert(domain.CartLine{
		OwnerID:     "user-1",
		ProductName: "Tee",
		UnitPrice:   300,
		Quantity:    5,
	})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if inserted {
		t.Fatal("expected second upsert to update the existing line")
	}
	if second.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", second.Quantity)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same line ID, got %s and %s", first.ID, second.ID)
	}
}

func TestCartRepositoryUpsertIsOwnerScoped(t *testing.T) {
	repo := memory.NewCartRepository()

	if _, _, err := repo.Upsert(domain.CartLine{OwnerID: "user-1", ProductName: "Tee", UnitPrice: 300}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	line, inserted, err := repo.Upsert(domain.CartLine{OwnerID: "user-2", ProductName: "Tee", UnitPrice: 300})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if !inserted {
		t.Fatal("expected a separate line for another owner")
	}
	if line.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", line.Quantity)
	}
}

func TestCartRepositoryRemoveCrossOwner(t *testing.T) {
	repo := memory.NewCartRepository()

	line, _, err := repo.Upsert(domain.CartLine{OwnerID: "user-1", ProductName: "Tee", UnitPrice: 300})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := repo.Remove("user-2", line.ID); !errors.Is(err, domain.ErrCartLineNotFound) {
		t.Fatalf("expected ErrCartLineNotFound for foreign owner, got %v", err)
	}
	if err := repo.Remove("user-1", line.ID); err != nil {
		t.Fatalf("owner remove failed: %v", err)
	}

	lines, err := repo.List("user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestCartRepositoryClearCountsRemovedLines(t *testing.T) {
	repo := memory.NewCartRepository()

	for _, name := range []string{"Tee", "Mug", "Cap"} {
		if _, _, err := repo.Upsert(domain.CartLine{OwnerID: "user-1", ProductName: name, UnitPrice: 100}); err != nil {
			t.Fatalf("upsert %s failed: %v", name, err)
		}
	}
	if _, _, err := repo.Upsert(domain.CartLine{OwnerID: "user-2", ProductName: "Tee", UnitPrice: 100}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	removed, err := repo.Clear("user-1")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed lines, got %d", removed)
	}

	other, err := repo.List("user-2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("expected the other cart untouched, got %d lines", len(other))
	}
}
