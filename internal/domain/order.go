package domain

import (
	"math"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

// OrderStatuses lists every valid status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered}
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
)

func (t OrderType) Valid() bool {
	return t == OrderTypeDelivery || t == OrderTypePickup
}

// OrderItem is a single purchased product line. Items are immutable once
// attached to an order; the server assigns the id at creation time.
type OrderItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order carries customer data embedded per order, matching the legacy wire
// format consumed by the dashboard.
type Order struct {
	ID                   string      `json:"id"`
	CustomerName         string      `json:"customerName"`
	CustomerEmail        string      `json:"customerEmail"`
	CustomerPhone        string      `json:"customerPhone"`
	CustomerRewardPoints int         `json:"customerRewardPoints"`
	OrderType            OrderType   `json:"orderType"`
	Status               OrderStatus `json:"status"`
	Items                []OrderItem `json:"items"`
	Total                float64     `json:"total"`
	CreatedAt            time.Time   `json:"createdAt"`
}

// ItemsTotal sums price*quantity over items, rounded to 2 decimal places.
// The stored total is derived exactly once, at creation; it is never
// re-derived afterwards because items are immutable post-creation.
func ItemsTotal(items []OrderItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return math.Round(sum*100) / 100
}
