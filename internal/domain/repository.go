package domain

import "time"

// CartRepository описывает требования к хранилищу корзины.
type CartRepository interface {
	// Upsert атомарно вставляет позицию или инкрементирует количество
	// существующей пары (owner_id, product_name) ровно на единицу,
	// независимо от Quantity в аргументе. Возвращает сохранённую позицию
	// и признак того, что строка была вставлена (а не инкрементирована).
	Upsert(line CartLine) (CartLine, bool, error)
	// List возвращает все позиции владельца; порядок не гарантируется.
	List(ownerID string) ([]CartLine, error)
	// Remove удаляет одну позицию в пределах владельца.
	// Возвращает ErrCartLineNotFound для чужих и отсутствующих позиций.
	Remove(ownerID, lineID string) error
	// Clear удаляет все позиции владельца и возвращает их количество.
	Clear(ownerID string) (int, error)
}

// AddressRepository описывает требования к хранилищу адресов.
// Эксклюзивность default-адреса — ответственность реализации:
// установка IsDefault = true в одном вызове снимает флаг с остальных
// адресов владельца (в Postgres — в одной транзакции).
type AddressRepository interface {
	Create(addr Address) (Address, error)
	// Update применяет новые поля; зачистка default не трогает сам адрес.
	// Возвращает ErrAddressNotFound, если адреса нет у владельца.
	Update(addr Address) error
	// Delete удаляет адрес владельца. Новый default не назначается:
	// ноль default-адресов — валидное состояние.
	Delete(ownerID, addressID string) error
	// Get возвращает адрес строго в пределах владельца.
	Get(ownerID, addressID string) (Address, error)
	// List возвращает адреса владельца: default первым, далее по убыванию даты создания.
	List(ownerID string) ([]Address, error)
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// PlaceOrder выполняет сборку заказа: заголовок в статусе creating,
	// позиции, перевод в pending, полная очистка корзины владельца и
	// постановка события в outbox. В Postgres всё это — одна транзакция;
	// in-memory реализация выполняет шаги последовательно, брошенные
	// creating-заголовки подбирает sweeper.
	PlaceOrder(order Order, event OutboxMessage) (Order, error)
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// ListByOwner возвращает заказы владельца новые первыми,
	// без заказов в статусе creating.
	ListByOwner(ownerID string) ([]Order, error)
	// ListAll возвращает все заказы новые первыми (админский обзор).
	ListAll() ([]Order, error)
	// UpdateStatus применяет админское обновление статуса и/или статуса
	// оплаты; пустые значения не трогают соответствующее поле.
	UpdateStatus(id string, status, paymentStatus string) error
	// Delete удаляет заказ вместе с позициями.
	Delete(id string) error
	// DeleteByOwner удаляет все заказы владельца (позиции раньше
	// заголовков) и возвращает счётчики удалённого.
	DeleteByOwner(ownerID string) (orders, items int, err error)
	// PruneCreating удаляет заказы, застрявшие в статусе creating
	// дольше порога, порциями не больше limit.
	PruneCreating(before time.Time, limit int) (int, error)
}
