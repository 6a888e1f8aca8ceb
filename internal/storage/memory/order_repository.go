package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// OrderRepository — in-memory реализация domain.OrderRepository.
// В отличие от Postgres-реализации сборка заказа здесь пошаговая,
// без общей транзакции: брошенные creating-заголовки подбирает sweeper.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]domain.Order

	cart   domain.CartRepository
	outbox domain.OutboxRepository

	// FailBeforeFlip — тестовый хук: если задан, PlaceOrder прерывается
	// после записи заголовка и позиций, оставляя заказ в creating.
	FailBeforeFlip error
}

// NewOrderRepository возвращает in-memory хранилище заказов.
// cart и outbox могут быть nil — тогда соответствующие шаги сборки пропускаются.
func NewOrderRepository(cart domain.CartRepository, outbox domain.OutboxRepository) *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]domain.Order),
		cart:   cart,
		outbox: outbox,
	}
}

// PlaceOrder выполняет сборку по шагам: заголовок в creating, позиции,
// перевод в pending, очистка корзины, событие в outbox.
func (r *OrderRepository) PlaceOrder(order domain.Order, event domain.OutboxMessage) (domain.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Status = domain.OrderStatusCreating

	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.NewString()
		}
		order.Items[i].OrderID = order.ID
	}

	r.mu.Lock()
	r.orders[order.ID] = order
	r.mu.Unlock()

	if r.FailBeforeFlip != nil {
		return domain.Order{}, r.FailBeforeFlip
	}

	r.mu.Lock()
	order.Status = domain.OrderStatusPending
	order.UpdatedAt = time.Now().UTC()
	r.orders[order.ID] = order
	r.mu.Unlock()

	if r.cart != nil {
		if _, err := r.cart.Clear(order.OwnerID); err != nil {
			return domain.Order{}, err
		}
	}

	if r.outbox != nil && event.EventType != "" {
		if _, err := r.outbox.Enqueue(event); err != nil {
			return domain.Order{}, err
		}
	}

	return order, nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *OrderRepository) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByOwner возвращает заказы владельца новые первыми, без creating.
func (r *OrderRepository) ListByOwner(ownerID string) ([]domain.Order, error) {
	return r.listFiltered(func(o domain.Order) bool {
		return o.OwnerID == ownerID && o.Status != domain.OrderStatusCreating
	}), nil
}

// ListAll возвращает все заказы новые первыми, без creating.
func (r *OrderRepository) ListAll() ([]domain.Order, error) {
	return r.listFiltered(func(o domain.Order) bool {
		return o.Status != domain.OrderStatusCreating
	}), nil
}

// UpdateStatus применяет админское обновление; пустые значения не трогают поле.
func (r *OrderRepository) UpdateStatus(id string, status, paymentStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if status != "" {
		order.Status = domain.OrderStatus(status)
	}
	if paymentStatus != "" {
		order.PaymentStatus = paymentStatus
	}
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order

	return nil
}

// Delete удаляет заказ вместе с позициями.
func (r *OrderRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)

	return nil
}

// DeleteByOwner удаляет все заказы владельца и возвращает счётчики.
func (r *OrderRepository) DeleteByOwner(ownerID string) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders, items := 0, 0
	for id, order := range r.orders {
		if order.OwnerID != ownerID {
			continue
		}
		orders++
		items += len(order.Items)
		delete(r.orders, id)
	}

	return orders, items, nil
}

// PruneCreating удаляет заказы, застрявшие в creating дольше порога.
func (r *OrderRepository) PruneCreating(before time.Time, limit int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 100
	}

	pruned := 0
	for id, order := range r.orders {
		if order.Status != domain.OrderStatusCreating || order.CreatedAt.After(before) {
			continue
		}
		delete(r.orders, id)
		pruned++
		if pruned >= limit {
			break
		}
	}

	return pruned, nil
}

func (r *OrderRepository) listFiltered(keep func(domain.Order) bool) []domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0)
	for _, order := range r.orders {
		if keep(order) {
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
