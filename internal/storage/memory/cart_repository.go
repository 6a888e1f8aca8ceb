package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// cartRepositoryInMemory — простая in-memory реализация CartRepository.
type cartRepositoryInMemory struct {
	mu    sync.RWMutex
	lines map[string]domain.CartLine // key: line ID
}

// NewCartRepository возвращает in-memory корзину для локальной разработки и тестов.
func NewCartRepository() domain.CartRepository {
	return &cartRepositoryInMemory{
		lines: make(map[string]domain.CartLine),
	}
}

// Upsert выполняет вставку-или-инкремент под одной блокировкой,
// что эквивалентно атомарному upsert Postgres-реализации.
func (r *cartRepositoryInMemory) Upsert(line domain.CartLine) (domain.CartLine, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()

	for id, existing := range r.lines {
		if existing.OwnerID != line.OwnerID || existing.ProductName != line.ProductName {
			continue
		}
		// Повторное добавление: ровно +1, аргумент Quantity игнорируется.
		existing.Quantity++
		existing.OwnerName = line.OwnerName
		existing.UpdatedAt = now
		r.lines[id] = existing
		return existing, false, nil
	}

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	line.CreatedAt = now
	line.UpdatedAt = now
	r.lines[line.ID] = line

	return line, true, nil
}

// List возвращает копии позиций владельца; порядок не гарантируется.
func (r *cartRepositoryInMemory) List(ownerID string) ([]domain.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.CartLine, 0)
	for _, line := range r.lines {
		if line.OwnerID == ownerID {
			result = append(result, line)
		}
	}

	return result, nil
}

// Remove удаляет позицию строго в пределах владельца.
func (r *cartRepositoryInMemory) Remove(ownerID, lineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[lineID]
	if !ok || line.OwnerID != ownerID {
		return domain.ErrCartLineNotFound
	}
	delete(r.lines, lineID)

	return nil
}

// Clear удаляет все позиции владельца и возвращает их количество.
func (r *cartRepositoryInMemory) Clear(ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, line := range r.lines {
		if line.OwnerID == ownerID {
			delete(r.lines, id)
			removed++
		}
	}

	return removed, nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
