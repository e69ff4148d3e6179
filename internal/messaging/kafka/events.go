package kafka

import "time"

// EventType определяет тип события жизненного цикла заказа.
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDeleted       EventType = "order.deleted"
)

// TopicOrderEvents — топик событий заказов.
const TopicOrderEvents = "shopster.order.events"

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	TenantID   string                 `json:"tenant_id"`
	OrderID    int64                  `json:"order_id"`
	CustomerID string                 `json:"customer_id,omitempty"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType EventType, tenantID string, orderID int64, customerID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		TenantID:   tenantID,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}
