package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderPlaced        EventType = "order.placed"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDeleted       EventType = "order.deleted"

	// User события
	EventTypeUserDeleted EventType = "user.deleted"
)

// Topics для Kafka
const (
	TopicOrderEvents     = "shop.order.events"
	TopicUserEvents      = "shop.user.events"
	TopicDeadLetterQueue = "shop.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType     EventType              `json:"event_type"`
	OrderID       string                 `json:"order_id"`
	OwnerID       string                 `json:"owner_id"`
	Status        string                 `json:"status"`
	PaymentMethod string                 `json:"payment_method,omitempty"`
	TotalAmount   float64                `json:"total_amount,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// UserEvent представляет событие учётной записи
type UserEvent struct {
	EventType EventType              `json:"event_type"`
	OwnerID   string                 `json:"owner_id"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, ownerID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType: eventType,
		OrderID:   orderID,
		OwnerID:   ownerID,
		Status:    status,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// NewUserEvent создает новое событие учётной записи
func NewUserEvent(eventType EventType, ownerID string, metadata map[string]interface{}) *UserEvent {
	return &UserEvent{
		EventType: eventType,
		OwnerID:   ownerID,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}
