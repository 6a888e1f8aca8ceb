package domain

import "regexp"

// utrPattern — ровно 12 цифр, без пробелов и разделителей.
var utrPattern = regexp.MustCompile(`^\d{12}$`)

// CheckoutItem — позиция из запроса на оформление заказа.
// Имя и цена доверяются клиенту и не сверяются с каталогом.
type CheckoutItem struct {
	Name     string
	Price    float64
	Quantity int32
}

// CheckoutRequest описывает запрос на оформление заказа.
type CheckoutRequest struct {
	OwnerID     string
	Items       []CheckoutItem
	TotalAmount float64
	// ShippingAddressID опционален; нерезолвящийся id даёт заказ без снимка адреса.
	ShippingAddressID string
	PaymentMethod     PaymentMethod
	UTRNumber         string
}

// Validate проверяет запрос в фиксированном порядке и возвращает
// первую найденную ошибку. Все проверки выполняются до каких-либо записей.
func (r *CheckoutRequest) Validate() error {
	if len(r.Items) == 0 {
		return ErrItemsRequired
	}
	if r.TotalAmount <= 0 {
		return ErrTotalInvalid
	}
	if r.PaymentMethod == "" {
		return ErrPaymentMethodRequired
	}
	if r.PaymentMethod == PaymentMethodUPI && !utrPattern.MatchString(r.UTRNumber) {
		return ErrUTRInvalid
	}
	return nil
}

// BuildItems разворачивает позиции запроса в позиции заказа,
// добавляя строку наценки для наложенного платежа.
func (r *CheckoutRequest) BuildItems() []OrderItem {
	items := make([]OrderItem, 0, len(r.Items)+1)
	for _, item := range r.Items {
		items = append(items, OrderItem{
			ProductName: item.Name,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
		})
	}
	if r.PaymentMethod == PaymentMethodCOD {
		items = append(items, OrderItem{
			ProductName: CODSurchargeName,
			UnitPrice:   CODSurchargeAmount,
			Quantity:    CODSurchargeQty,
		})
	}
	return items
}
