package domain

import "time"

// OrderStatus описывает состояние заказа.
// После pending статус меняется администратором свободным текстом,
// поэтому дальнейшие значения не перечисляются.
type OrderStatus string

const (
	// OrderStatusCreating — заголовок записан, но сборка заказа не завершена.
	// Заказы в этом статусе не видны покупателю и подметаются sweeper'ом.
	OrderStatusCreating OrderStatus = "creating"
	// OrderStatusPending — заказ собран и ждёт обработки.
	OrderStatusPending OrderStatus = "pending"
)

// PaymentMethod — способ оплаты заказа.
type PaymentMethod string

const (
	// PaymentMethodUPI требует 12-значный UTR-номер.
	PaymentMethodUPI PaymentMethod = "upi"
	// PaymentMethodCOD добавляет фиксированную строку-наценку в позиции.
	PaymentMethodCOD PaymentMethod = "cod"
)

const (
	// CODSurchargeName — имя синтетической позиции наценки за наложенный платёж.
	CODSurchargeName = "Cash on Delivery Charge"
	// CODSurchargeAmount — фиксированная сумма наценки, не настраивается.
	CODSurchargeAmount float64 = 10
	// CODSurchargeQty — количество в строке наценки.
	CODSurchargeQty int32 = 1
)

// OrderItem представляет одну позицию заказа.
// Позиции создаются только при сборке заказа и никогда не мутируют.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductName string
	UnitPrice   float64
	Quantity    int32
}

// Total возвращает производную сумму позиции для отображения.
func (i OrderItem) Total() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// Order агрегирует заголовок заказа и его позиции.
type Order struct {
	ID          string
	OwnerID     string
	TotalAmount float64
	Status      OrderStatus
	// ShippingAddress — снимок адреса на момент заказа; nil, если адрес не разрешился.
	ShippingAddress *AddressSnapshot
	PaymentMethod   PaymentMethod
	// UTRNumber заполняется только для UPI-платежей.
	UTRNumber     string
	PaymentStatus string
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateInvariants проверяет базовые инварианты собранного заказа.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.OwnerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalAmount <= 0 {
		errs = append(errs, ErrTotalInvalid)
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if item.UnitPrice < 0 {
			errs = append(errs, ErrPriceNegative)
		}
	}

	return errs
}
