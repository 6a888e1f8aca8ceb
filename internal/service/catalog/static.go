package catalog

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// StaticCatalog — read-only реализация CatalogReader на срезе в памяти.
// Каталог живёт во внешнем сервисе; ядро читает его только для витрины,
// цены при оформлении заказа оттуда не берутся.
type StaticCatalog struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewStaticCatalog возвращает каталог с заданным ассортиментом.
func NewStaticCatalog(products []domain.Product) *StaticCatalog {
	return &StaticCatalog{products: products}
}

// ListProducts возвращает товары, опционально отфильтрованные
// по категории, новые первыми.
func (c *StaticCatalog) ListProducts(category string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && p.Category != category {
			continue
		}
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result, nil
}

var _ domain.CatalogReader = (*StaticCatalog)(nil)
