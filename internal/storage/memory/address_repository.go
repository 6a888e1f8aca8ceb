package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// addressRepositoryInMemory — простая in-memory реализация AddressRepository.
type addressRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Address // key: address ID
}

// NewAddressRepository возвращает in-memory хранилище адресов.
func NewAddressRepository() domain.AddressRepository {
	return &addressRepositoryInMemory{
		items: make(map[string]domain.Address),
	}
}

// Create вставляет адрес; зачистка default-флага у остальных адресов
// владельца и вставка выполняются под одной блокировкой.
func (r *addressRepositoryInMemory) Create(addr domain.Address) (domain.Address, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if addr.ID == "" {
		addr.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	addr.CreatedAt = now
	addr.UpdatedAt = now

	if addr.IsDefault {
		r.clearDefaultLocked(addr.OwnerID, "")
	}
	r.items[addr.ID] = addr

	return addr, nil
}

// Update применяет новые поля; зачистка default исключает сам адрес.
func (r *addressRepositoryInMemory) Update(addr domain.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[addr.ID]
	if !ok || current.OwnerID != addr.OwnerID {
		return domain.ErrAddressNotFound
	}

	if addr.IsDefault {
		r.clearDefaultLocked(addr.OwnerID, addr.ID)
	}

	addr.CreatedAt = current.CreatedAt
	addr.UpdatedAt = time.Now().UTC()
	r.items[addr.ID] = addr

	return nil
}

// Delete удаляет адрес владельца. Новый default не назначается.
func (r *addressRepositoryInMemory) Delete(ownerID, addressID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	addr, ok := r.items[addressID]
	if !ok || addr.OwnerID != ownerID {
		return domain.ErrAddressNotFound
	}
	delete(r.items, addressID)

	return nil
}

// Get возвращает адрес строго в пределах владельца.
func (r *addressRepositoryInMemory) Get(ownerID, addressID string) (domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addr, ok := r.items[addressID]
	if !ok || addr.OwnerID != ownerID {
		return domain.Address{}, domain.ErrAddressNotFound
	}

	return addr, nil
}

// List возвращает адреса владельца: default первым, далее по убыванию даты создания.
func (r *addressRepositoryInMemory) List(ownerID string) ([]domain.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Address, 0)
	for _, addr := range r.items {
		if addr.OwnerID == ownerID {
			result = append(result, addr)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

// clearDefaultLocked снимает default-флаг со всех адресов владельца,
// кроме excludeID. Вызывается только под r.mu.
func (r *addressRepositoryInMemory) clearDefaultLocked(ownerID, excludeID string) {
	for id, addr := range r.items {
		if addr.OwnerID == ownerID && addr.IsDefault && id != excludeID {
			addr.IsDefault = false
			addr.UpdatedAt = time.Now().UTC()
			r.items[id] = addr
		}
	}
}

var _ domain.AddressRepository = (*addressRepositoryInMemory)(nil)
