package domain

import "time"

// OrderCreatedEvent is published after an order is accepted into the store.
// EventID lets consumers deduplicate redeliveries.
type OrderCreatedEvent struct {
	EventID   string      `json:"event_id"`
	OrderID   string      `json:"order_id"`
	OrderType OrderType   `json:"order_type"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}

// OrderStatusChangedEvent is published after a status update is applied.
type OrderStatusChangedEvent struct {
	EventID   string      `json:"event_id"`
	OrderID   string      `json:"order_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Timestamp time.Time   `json:"timestamp"`
}
