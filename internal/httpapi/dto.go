package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/admin"
)

type addCartLineRequest struct {
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
}

type cartLineResponse struct {
	ID          string    `json:"id"`
	ProductName string    `json:"productName"`
	Price       float64   `json:"price"`
	Quantity    int32     `json:"quantity"`
	OwnerName   string    `json:"ownerName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func mapCartLine(line domain.CartLine) cartLineResponse {
	return cartLineResponse{
		ID:          line.ID,
		ProductName: line.ProductName,
		Price:       line.UnitPrice,
		Quantity:    line.Quantity,
		OwnerName:   line.OwnerName,
		CreatedAt:   line.CreatedAt,
		UpdatedAt:   line.UpdatedAt,
	}
}

type addressRequest struct {
	AddressType   string `json:"addressType"`
	RecipientName string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	House         string `json:"house"`
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
	IsDefault     bool   `json:"isDefault"`
}

func (r addressRequest) toDomain(ownerID, addressID string) domain.Address {
	return domain.Address{
		ID:            addressID,
		OwnerID:       ownerID,
		Kind:          r.AddressType,
		RecipientName: r.RecipientName,
		Email:         r.Email,
		Phone:         r.Phone,
		House:         r.House,
		Street:        r.Street,
		City:          r.City,
		State:         r.State,
		ZipCode:       r.ZipCode,
		Country:       r.Country,
		IsDefault:     r.IsDefault,
	}
}

type addressResponse struct {
	ID            string    `json:"id"`
	AddressType   string    `json:"addressType,omitempty"`
	RecipientName string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	House         string    `json:"house"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zipCode"`
	Country       string    `json:"country"`
	IsDefault     bool      `json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func mapAddress(addr domain.Address) addressResponse {
	return addressResponse{
		ID:            addr.ID,
		AddressType:   addr.Kind,
		RecipientName: addr.RecipientName,
		Email:         addr.Email,
		Phone:         addr.Phone,
		House:         addr.House,
		Street:        addr.Street,
		City:          addr.City,
		State:         addr.State,
		ZipCode:       addr.ZipCode,
		Country:       addr.Country,
		IsDefault:     addr.IsDefault,
		CreatedAt:     addr.CreatedAt,
		UpdatedAt:     addr.UpdatedAt,
	}
}

type checkoutItemRequest struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int32   `json:"quantity"`
}

type checkoutRequest struct {
	Items             []checkoutItemRequest `json:"items"`
	TotalAmount       float64               `json:"totalAmount"`
	ShippingAddressID string                `json:"shippingAddressId"`
	PaymentMethod     string                `json:"paymentMethod"`
	UTRNumber         string                `json:"utrNumber"`
}

func (r checkoutRequest) toDomain(ownerID string) domain.CheckoutRequest {
	items := make([]domain.CheckoutItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.CheckoutItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	return domain.CheckoutRequest{
		OwnerID:           ownerID,
		Items:             items,
		TotalAmount:       r.TotalAmount,
		ShippingAddressID: r.ShippingAddressID,
		PaymentMethod:     domain.PaymentMethod(r.PaymentMethod),
		UTRNumber:         r.UTRNumber,
	}
}

type orderItemResponse struct {
	ID          string  `json:"id"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int32   `json:"quantity"`
	Total       float64 `json:"total"`
}

type orderResponse struct {
	ID              string                  `json:"id"`
	TotalAmount     float64                 `json:"totalAmount"`
	Status          string                  `json:"status"`
	ShippingAddress *domain.AddressSnapshot `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	UTRNumber       string                  `json:"utrNumber,omitempty"`
	PaymentStatus   string                  `json:"paymentStatus,omitempty"`
	CustomerName    string                  `json:"customerName,omitempty"`
	Items           []orderItemResponse     `json:"items"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

func mapOrder(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Price:       item.UnitPrice,
			Quantity:    item.Quantity,
			Total:       item.Total(),
		})
	}
	return orderResponse{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		UTRNumber:       order.UTRNumber,
		PaymentStatus:   order.PaymentStatus,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

type updateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

func mapProfile(p domain.Profile) userResponse {
	return userResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      string(p.Role),
	}
}

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapProduct(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Image:       p.Image,
		Description: p.Description,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

type messageResponse struct {
	Message      string               `json:"message"`
	ItemID       string               `json:"itemId,omitempty"`
	AddressID    string               `json:"addressId,omitempty"`
	OrderID      string               `json:"orderId,omitempty"`
	DeletedItems *admin.CascadeResult `json:"deletedItems,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
