package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func newAddress(ownerID string, isDefault bool) domain.Address {
	return domain.Address{
		OwnerID:       ownerID,
		Kind:          "home",
		RecipientName: "Ivan Petrov",
		Email:         "ivan@example.com",
		Phone:         "9990001122",
		House:         "12",
		Street:        "Main St",
		City:          "Mumbai",
		State:         "MH",
		ZipCode:       "400001",
		Country:       "IN",
		IsDefault:     isDefault,
	}
}

func TestAddressRepositorySingleDefault(t *testing.T) {
	repo := memory.NewAddressRepository()

	first, err := repo.Create(newAddress("user-1", true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(newAddress("user-1", true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := repo.List("user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	defaults := 0
	for _, addr := range list {
		if addr.IsDefault {
			defaults++
			if addr.ID != second.ID {
				t.Fatalf("expected %s to stay default, got %s", second.ID, addr.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default address, got %d", defaults)
	}

	// Возврат default первому адресу через Update снимает флаг со второго.
	first.IsDefault = true
	if err := repo.Update(first); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := repo.Get("user-1", second.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.IsDefault {
		t.Fatal("expected the second address to lose its default flag")
	}
}

func TestAddressRepositoryListOrder(t *testing.T) {
	repo := memory.NewAddressRepository()

	older, err := repo.Create(newAddress("user-1", false))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	def, err := repo.Create(newAddress("user-1", true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	list, err := repo.List("user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(list))
	}
	if list[0].ID != def.ID {
		t.Fatalf("expected default address first, got %s", list[0].ID)
	}
	if list[1].ID != older.ID {
		t.Fatalf("expected non-default address second, got %s", list[1].ID)
	}
}

func TestAddressRepositoryOwnerScope(t *testing.T) {
	repo := memory.NewAddressRepository()

	addr, err := repo.Create(newAddress("user-1", false))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := repo.Get("user-2", addr.ID); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound for foreign owner, got %v", err)
	}
	if err := repo.Delete("user-2", addr.ID); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound on foreign delete, got %v", err)
	}

	foreign := addr
	foreign.OwnerID = "user-2"
	if err := repo.Update(foreign); !errors.Is(err, domain.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound on foreign update, got %v", err)
	}
}

func TestAddressRepositoryDeleteKeepsOthers(t *testing.T) {
	repo := memory.NewAddressRepository()

	def, err := repo.Create(newAddress("user-1", true))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other, err := repo.Create(newAddress("user-1", false))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete("user-1", def.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// После удаления default-адреса новый default не назначается.
	list, err := repo.List("user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != other.ID {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
	if list[0].IsDefault {
		t.Fatal("expected no default address after deleting the default one")
	}
}
