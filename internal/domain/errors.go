package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора владельца.
	ErrOwnerRequired = errors.New("owner_id is required")
	// Ошибка отсутствующего имени товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка некорректного количества (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка отрицательной цены позиции.
	ErrPriceNegative = errors.New("price must be non-negative")

	// Ошибки валидации запроса на оформление заказа.
	// Тексты — часть внешнего контракта, их видит клиент.
	ErrItemsRequired         = errors.New("items required")
	ErrTotalInvalid          = errors.New("valid total required")
	ErrPaymentMethodRequired = errors.New("payment method required")
	ErrUTRInvalid            = errors.New("UTR must be 12 digits")

	// ErrCartLineNotFound возвращается, если позиция корзины не найдена
	// или принадлежит другому владельцу.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrAddressNotFound возвращается, если адрес не найден у владельца.
	ErrAddressNotFound = errors.New("address not found")
	// ErrOrderNotFound возвращается, если заказ не найден.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUserNotFound возвращается справочником профилей.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateCartLine сигнализирует о гонке на вставке позиции корзины;
	// корректная реализация Upsert превращает её в инкремент.
	ErrDuplicateCartLine = errors.New("duplicate cart line")

	// ErrUnauthenticated — отсутствующий или невалидный токен.
	ErrUnauthenticated = errors.New("invalid or missing credential")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsInvalidRequest проверяет, относится ли ошибка к валидации входных
// данных (клиентская 4xx, не повторяется).
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrItemsRequired) ||
		errors.Is(err, ErrTotalInvalid) ||
		errors.Is(err, ErrPaymentMethodRequired) ||
		errors.Is(err, ErrUTRInvalid) ||
		errors.Is(err, ErrOwnerRequired) ||
		errors.Is(err, ErrProductNameRequired) ||
		errors.Is(err, ErrQuantityInvalid) ||
		errors.Is(err, ErrPriceNegative)
}

// IsNotFound проверяет ошибки отсутствия сущности.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCartLineNotFound) ||
		errors.Is(err, ErrAddressNotFound) ||
		errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
