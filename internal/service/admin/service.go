package admin

import (
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// CascadeResult — счётчики каскадного удаления учётной записи.
type CascadeResult struct {
	CartItems  int `json:"cartItems"`
	Addresses  int `json:"addresses"`
	Orders     int `json:"orders"`
	OrderItems int `json:"orderItems"`
}

// OrderWithCustomer — заказ с отображаемым именем покупателя
// для админского обзора.
type OrderWithCustomer struct {
	domain.Order
	CustomerName string
}

// Service реализует административные операции: обзор пользователей
// и заказов, правку заказов и каскадное удаление учётной записи.
type Service struct {
	cart      domain.CartRepository
	addresses domain.AddressRepository
	orders    domain.OrderRepository
	profiles  domain.ProfileDirectory
	outbox    domain.OutboxRepository
	metrics   *metrics.CheckoutMetrics
	logger    *log.Entry
}

// NewService создаёт административный сервис. outbox и checkoutMetrics опциональны.
func NewService(
	cart domain.CartRepository,
	addresses domain.AddressRepository,
	orders domain.OrderRepository,
	profiles domain.ProfileDirectory,
	outbox domain.OutboxRepository,
	checkoutMetrics *metrics.CheckoutMetrics,
) *Service {
	return &Service{
		cart:      cart,
		addresses: addresses,
		orders:    orders,
		profiles:  profiles,
		outbox:    outbox,
		metrics:   checkoutMetrics,
		logger:    log.WithField("component", "admin-service"),
	}
}

// DeleteUser выполняет каскадное удаление учётной записи в фиксированном
// порядке: корзина, адреса, позиции заказов, заголовки заказов, учётная
// запись. Возвращает счётчики удалённого.
func (s *Service) DeleteUser(ownerID string) (CascadeResult, error) {
	if _, err := s.profiles.Get(ownerID); err != nil {
		return CascadeResult{}, err
	}

	var result CascadeResult

	cartItems, err := s.cart.Clear(ownerID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("clear cart for %s: %w", ownerID, err)
	}
	result.CartItems = cartItems

	addrs, err := s.addresses.List(ownerID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("list addresses for %s: %w", ownerID, err)
	}
	for _, addr := range addrs {
		if err := s.addresses.Delete(ownerID, addr.ID); err != nil {
			return CascadeResult{}, fmt.Errorf("delete address %s: %w", addr.ID, err)
		}
		result.Addresses++
	}

	orders, items, err := s.orders.DeleteByOwner(ownerID)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete orders for %s: %w", ownerID, err)
	}
	result.Orders = orders
	result.OrderItems = items

	if err := s.profiles.Remove(ownerID); err != nil {
		return CascadeResult{}, fmt.Errorf("remove profile %s: %w", ownerID, err)
	}

	s.enqueueUserDeleted(ownerID, result)
	if s.metrics != nil {
		s.metrics.RecordCascadeDelete()
	}
	s.logger.WithFields(log.Fields{
		"owner_id":    ownerID,
		"cart_items":  result.CartItems,
		"addresses":   result.Addresses,
		"orders":      result.Orders,
		"order_items": result.OrderItems,
	}).Info("user deleted with cascade")

	return result, nil
}

// ListUsers возвращает все учётные записи справочника.
func (s *Service) ListUsers() ([]domain.Profile, error) {
	return s.profiles.List()
}

// ListOrders возвращает все заказы с отображаемыми именами покупателей.
// Деградация справочника профилей не прерывает обзор.
func (s *Service) ListOrders() ([]OrderWithCustomer, error) {
	orders, err := s.orders.ListAll()
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	result := make([]OrderWithCustomer, 0, len(orders))
	for _, order := range orders {
		name, ok := names[order.OwnerID]
		if !ok {
			name = "Unknown"
			if profile, err := s.profiles.Get(order.OwnerID); err == nil {
				name = profile.DisplayName()
			}
			names[order.OwnerID] = name
		}
		result = append(result, OrderWithCustomer{Order: order, CustomerName: name})
	}

	return result, nil
}

// GetOrder возвращает один заказ.
func (s *Service) GetOrder(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// UpdateOrder применяет правку статуса и/или статуса оплаты заказа.
// Пустые значения не трогают соответствующее поле.
func (s *Service) UpdateOrder(id, status, paymentStatus string) error {
	if err := s.orders.UpdateStatus(id, status, paymentStatus); err != nil {
		return err
	}

	s.enqueueOrderEvent(id, "order.status_changed", map[string]interface{}{
		"order_id":       id,
		"status":         status,
		"payment_status": paymentStatus,
	})

	return nil
}

// DeleteOrder удаляет один заказ вместе с позициями.
func (s *Service) DeleteOrder(id string) error {
	if err := s.orders.Delete(id); err != nil {
		return err
	}

	s.enqueueOrderEvent(id, "order.deleted", map[string]interface{}{
		"order_id": id,
	})

	return nil
}

func (s *Service) enqueueUserDeleted(ownerID string, result CascadeResult) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"owner_id":    ownerID,
		"cart_items":  result.CartItems,
		"addresses":   result.Addresses,
		"orders":      result.Orders,
		"order_items": result.OrderItems,
		"deleted_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		s.logger.WithError(err).Warn("failed to marshal user.deleted payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "user",
		AggregateID:   ownerID,
		EventType:     "user.deleted",
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("owner_id", ownerID).Warn("failed to enqueue user.deleted event")
	}
}

func (s *Service) enqueueOrderEvent(orderID, eventType string, fields map[string]interface{}) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		s.logger.WithError(err).Warnf("failed to marshal %s payload", eventType)
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warnf("failed to enqueue %s event", eventType)
	}
}
