package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Service собирает заказ из запроса на оформление: валидация,
// разрешение адреса доставки в снимок, разворачивание позиций и
// передача сборки хранилищу вместе с событием order.placed.
type Service struct {
	orders    domain.OrderRepository
	addresses domain.AddressRepository
	metrics   *metrics.CheckoutMetrics
	logger    *log.Entry
}

// NewService создаёт сервис оформления заказа. checkoutMetrics опционален.
func NewService(orders domain.OrderRepository, addresses domain.AddressRepository, checkoutMetrics *metrics.CheckoutMetrics) *Service {
	return &Service{
		orders:    orders,
		addresses: addresses,
		metrics:   checkoutMetrics,
		logger:    log.WithField("component", "checkout-service"),
	}
}

// PlaceOrder оформляет заказ. Все проверки выполняются до каких-либо
// записей; после них заказ собирается хранилищем вместе с очисткой
// корзины и постановкой события в outbox.
func (s *Service) PlaceOrder(req domain.CheckoutRequest) (domain.Order, error) {
	start := time.Now()

	if req.OwnerID == "" {
		return domain.Order{}, domain.ErrOwnerRequired
	}
	if err := req.Validate(); err != nil {
		s.recordRejection(err)
		return domain.Order{}, err
	}

	snapshot, err := s.resolveAddress(req.OwnerID, req.ShippingAddressID)
	if err != nil {
		return domain.Order{}, err
	}

	// UTR сохраняется только для UPI-платежей.
	utr := ""
	if req.PaymentMethod == domain.PaymentMethodUPI {
		utr = req.UTRNumber
	}

	order := domain.Order{
		ID:              uuid.NewString(),
		OwnerID:         req.OwnerID,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: snapshot,
		PaymentMethod:   req.PaymentMethod,
		UTRNumber:       utr,
		Items:           req.BuildItems(),
	}

	event, err := placedEvent(order)
	if err != nil {
		return domain.Order{}, err
	}

	placed, err := s.orders.PlaceOrder(order, event)
	if err != nil {
		s.logger.WithError(err).WithField("owner_id", req.OwnerID).Error("order assembly failed")
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
		s.metrics.RecordCheckoutDuration(time.Since(start))
	}
	s.logger.WithFields(log.Fields{
		"order_id":       placed.ID,
		"owner_id":       placed.OwnerID,
		"payment_method": placed.PaymentMethod,
		"total_amount":   placed.TotalAmount,
	}).Info("order placed")

	return placed, nil
}

// resolveAddress превращает идентификатор адреса в снимок.
// Нерезолвящийся или чужой адрес не прерывает оформление:
// заказ просто остаётся без снимка.
func (s *Service) resolveAddress(ownerID, addressID string) (*domain.AddressSnapshot, error) {
	if addressID == "" {
		return nil, nil
	}

	addr, err := s.addresses.Get(ownerID, addressID)
	if errors.Is(err, domain.ErrAddressNotFound) {
		s.logger.WithFields(log.Fields{
			"owner_id":   ownerID,
			"address_id": addressID,
		}).Warn("shipping address did not resolve, placing order without snapshot")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve shipping address: %w", err)
	}

	return addr.Snapshot(), nil
}

func (s *Service) recordRejection(err error) {
	if s.metrics == nil {
		return
	}

	reason := "invalid_request"
	switch {
	case errors.Is(err, domain.ErrItemsRequired):
		reason = "items_required"
	case errors.Is(err, domain.ErrTotalInvalid):
		reason = "total_invalid"
	case errors.Is(err, domain.ErrPaymentMethodRequired):
		reason = "payment_method_required"
	case errors.Is(err, domain.ErrUTRInvalid):
		reason = "utr_invalid"
	}
	s.metrics.RecordCheckoutRejected(reason)
}

func placedEvent(order domain.Order) (domain.OutboxMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"order_id":       order.ID,
		"owner_id":       order.OwnerID,
		"total_amount":   order.TotalAmount,
		"payment_method": string(order.PaymentMethod),
		"item_count":     len(order.Items),
	})
	if err != nil {
		return domain.OutboxMessage{}, fmt.Errorf("marshal order.placed payload: %w", err)
	}

	return domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     "order.placed",
		Payload:       payload,
	}, nil
}
