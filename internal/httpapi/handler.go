package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/service/admin"
	"github.com/vladislavdragonenkov/storefront/internal/service/cart"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
)

// Handler обслуживает HTTP-контракт магазина: корзину, адреса,
// оформление и просмотр заказов, каталог и админские операции.
type Handler struct {
	carts     *cart.Service
	addresses domain.AddressRepository
	checkout  *checkout.Service
	orders    domain.OrderRepository
	admin     *admin.Service
	catalog   domain.CatalogReader
	logger    *log.Entry
}

// NewHandler собирает обработчик поверх сервисов ядра. catalog опционален.
func NewHandler(
	carts *cart.Service,
	addresses domain.AddressRepository,
	checkoutSvc *checkout.Service,
	orders domain.OrderRepository,
	adminSvc *admin.Service,
	catalog domain.CatalogReader,
) *Handler {
	return &Handler{
		carts:     carts,
		addresses: addresses,
		checkout:  checkoutSvc,
		orders:    orders,
		admin:     adminSvc,
		catalog:   catalog,
		logger:    log.WithField("component", "http-handler"),
	}
}

// ListCart возвращает позиции корзины принципала.
func (h *Handler) ListCart(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	lines, err := h.carts.List(principal.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]cartLineResponse, 0, len(lines))
	for _, line := range lines {
		result = append(result, mapCartLine(line))
	}
	writeJSON(w, http.StatusOK, result)
}

// AddCartLine добавляет позицию или инкрементирует существующую.
func (h *Handler) AddCartLine(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req addCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	line, inserted, err := h.carts.Add(principal.ID, req.ProductName, req.Price, req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if inserted {
		writeJSON(w, http.StatusCreated, messageResponse{
			Message: "Item added to cart successfully",
			ItemID:  line.ID,
		})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item quantity updated in cart"})
}

// RemoveCartLine удаляет одну позицию корзины.
func (h *Handler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	if err := h.carts.Remove(principal.ID, chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item removed from cart"})
}

// ClearCart удаляет все позиции корзины принципала.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	if _, err := h.carts.Clear(principal.ID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Cart cleared"})
}

// ListAddresses возвращает адреса принципала, default первым.
func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	addrs, err := h.addresses.List(principal.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]addressResponse, 0, len(addrs))
	for _, addr := range addrs {
		result = append(result, mapAddress(addr))
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateAddress добавляет адрес принципала.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	created, err := h.addresses.Create(req.toDomain(principal.ID, ""))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message:   "Address added successfully",
		AddressID: created.ID,
	})
}

// UpdateAddress применяет новые поля адреса.
func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req addressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.addresses.Update(req.toDomain(principal.ID, chi.URLParam(r, "id"))); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Address updated successfully"})
}

// DeleteAddress удаляет адрес принципала.
func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	if err := h.addresses.Delete(principal.ID, chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Address deleted successfully"})
}

// PlaceOrder оформляет заказ из тела запроса.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	order, err := h.checkout.PlaceOrder(req.toDomain(principal.ID))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message: "Order placed successfully",
		OrderID: order.ID,
	})
}

// ListMyOrders возвращает заказы принципала, новые первыми.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	orders, err := h.orders.ListByOwner(principal.ID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, mapOrder(order))
	}
	writeJSON(w, http.StatusOK, result)
}

// ListProducts возвращает каталог с опциональным фильтром по категории.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		writeJSON(w, http.StatusOK, []productResponse{})
		return
	}

	products, err := h.catalog.ListProducts(r.URL.Query().Get("category"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]productResponse, 0, len(products))
	for _, p := range products {
		result = append(result, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, result)
}

// ListUsers возвращает учётные записи без учётных данных.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.admin.ListUsers()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]userResponse, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, mapProfile(p))
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteUser выполняет каскадное удаление учётной записи.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	counts, err := h.admin.DeleteUser(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message:      "User deleted successfully",
		DeletedItems: &counts,
	})
}

// ListAllOrders возвращает все заказы с именами покупателей.
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.admin.ListOrders()
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		mapped := mapOrder(order.Order)
		mapped.CustomerName = order.CustomerName
		result = append(result, mapped)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetOrder возвращает один заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.admin.GetOrder(chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}

// UpdateOrder применяет админскую правку статуса заказа.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if err := h.admin.UpdateOrder(chi.URLParam(r, "id"), req.Status, req.PaymentStatus); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Order updated successfully"})
}

// DeleteOrder удаляет один заказ.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteOrder(chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Order deleted successfully"})
}

// writeDomainError переводит доменную ошибку в HTTP-статус и `{error}`.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsInvalidRequest(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
