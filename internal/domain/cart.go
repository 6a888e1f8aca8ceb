package domain

import "time"

// CartLine представляет одну позицию серверной корзины покупателя.
// Уникальность пары (OwnerID, ProductName) обеспечивает хранилище:
// повторное добавление того же товара инкрементирует количество.
type CartLine struct {
	ID      string
	OwnerID string
	// ProductName — имя товара; вместе с OwnerID образует естественный ключ.
	ProductName string
	UnitPrice   float64
	Quantity    int32
	// OwnerName — денормализованное отображаемое имя владельца,
	// проставляется при записи из профиля.
	OwnerName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет базовые инварианты позиции корзины.
func (l *CartLine) Validate() []error {
	var errs []error

	if l.OwnerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if l.ProductName == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if l.Quantity <= 0 {
		errs = append(errs, ErrQuantityInvalid)
	}
	if l.UnitPrice < 0 {
		errs = append(errs, ErrPriceNegative)
	}

	return errs
}
