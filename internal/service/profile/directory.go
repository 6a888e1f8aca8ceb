package profile

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// InMemoryDirectory — реализация ProfileDirectory на карте в памяти.
// Настоящий справочник учётных записей живёт во внешнем сервисе; ядру
// от него нужны только Get, List и Remove.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile

	// GetErr подменяет результат Get в тестах деградации справочника.
	GetErr error
}

// NewInMemoryDirectory возвращает пустой справочник.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{profiles: make(map[string]domain.Profile)}
}

// Register добавляет или заменяет профиль.
func (d *InMemoryDirectory) Register(p domain.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles[p.ID] = p
}

// Get возвращает профиль или ErrUserNotFound.
func (d *InMemoryDirectory) Get(ownerID string) (domain.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.GetErr != nil {
		return domain.Profile{}, d.GetErr
	}

	p, ok := d.profiles[ownerID]
	if !ok {
		return domain.Profile{}, domain.ErrUserNotFound
	}
	return p, nil
}

// List возвращает все профили, отсортированные по email.
func (d *InMemoryDirectory) List() ([]domain.Profile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make([]domain.Profile, 0, len(d.profiles))
	for _, p := range d.profiles {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Email < result[j].Email
	})

	return result, nil
}

// Remove удаляет учётную запись или возвращает ErrUserNotFound.
func (d *InMemoryDirectory) Remove(ownerID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.profiles[ownerID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(d.profiles, ownerID)

	return nil
}

var _ domain.ProfileDirectory = (*InMemoryDirectory)(nil)
