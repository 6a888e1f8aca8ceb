package domain

import "time"

// Address хранит адрес доставки, принадлежащий одному владельцу.
// Инвариант: у владельца не больше одного адреса с IsDefault = true.
type Address struct {
	ID      string
	OwnerID string
	// Kind — тип адреса (home/work/other), свободный текст.
	Kind          string
	RecipientName string
	Email         string
	Phone         string
	House         string
	Street        string
	City          string
	State         string
	ZipCode       string
	Country       string
	IsDefault     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AddressSnapshot — денормализованная копия адреса на момент оформления заказа.
// Последующие правки или удаление адреса не меняют историю заказов.
type AddressSnapshot struct {
	RecipientName string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	House         string `json:"house"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
}

// Snapshot делает копию адреса для заголовка заказа.
func (a Address) Snapshot() *AddressSnapshot {
	country := a.Country
	if country == "" {
		country = "IN"
	}
	return &AddressSnapshot{
		RecipientName: a.RecipientName,
		Email:         a.Email,
		Phone:         a.Phone,
		House:         a.House,
		Street:        a.Street,
		City:          a.City,
		State:         a.State,
		ZipCode:       a.ZipCode,
		Country:       country,
	}
}

// Validate проверяет обязательные поля адреса.
func (a *Address) Validate() []error {
	var errs []error

	if a.OwnerID == "" {
		errs = append(errs, ErrOwnerRequired)
	}

	return errs
}
