package domain

import "time"

// Authenticator — внешний коллаборатор аутентификации.
// По непрозрачному токену возвращает принципала или ErrUnauthenticated.
type Authenticator interface {
	Authenticate(token string) (Principal, error)
}

// ProfileDirectory — внешний справочник учётных записей.
// Ядро обращается к нему за отображаемым именем при денормализации
// корзины и за удалением учётной записи в каскаде.
type ProfileDirectory interface {
	Get(ownerID string) (Profile, error)
	List() ([]Profile, error)
	Remove(ownerID string) error
}

// Product — товар каталога. Каталог для ядра read-only:
// цены при оформлении заказа берутся из запроса, а не отсюда.
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       float64
	Image       string
	Description string
	Stock       int32
	CreatedAt   time.Time
}

// CatalogReader — внешний коллаборатор каталога товаров.
type CatalogReader interface {
	// ListProducts возвращает товары, опционально отфильтрованные
	// по категории, новые первыми.
	ListProducts(category string) ([]Product, error)
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}
