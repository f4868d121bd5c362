package orders

import (
	"fmt"
	"strings"

	"github.com/restaunax/orders-api/internal/domain"
)

// CreateOrderRequest is the inbound payload for order creation. Item ids,
// the order id, status, total, reward points and createdAt are all
// server-assigned and therefore absent here.
type CreateOrderRequest struct {
	CustomerName  string            `json:"customerName"`
	CustomerEmail string            `json:"customerEmail"`
	CustomerPhone string            `json:"customerPhone"`
	OrderType     domain.OrderType  `json:"orderType"`
	Items         []CreateOrderItem `json:"items"`
}

type CreateOrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// ValidateCreate checks the structural rules for order creation and returns
// every violated rule at once. It is a pure function over the payload.
func ValidateCreate(req CreateOrderRequest) error {
	var reasons []string

	if strings.TrimSpace(req.CustomerName) == "" {
		reasons = append(reasons, "customerName is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		reasons = append(reasons, "customerEmail is required")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		reasons = append(reasons, "customerPhone is required")
	}
	if req.OrderType == "" {
		reasons = append(reasons, "orderType is required")
	} else if !req.OrderType.Valid() {
		reasons = append(reasons, fmt.Sprintf("orderType must be %q or %q", domain.OrderTypeDelivery, domain.OrderTypePickup))
	}

	if len(req.Items) == 0 {
		reasons = append(reasons, "items must be a non-empty array")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			reasons = append(reasons, fmt.Sprintf("items[%d].name is required", i))
		}
		if item.Quantity <= 0 {
			reasons = append(reasons, fmt.Sprintf("items[%d].quantity must be greater than zero", i))
		}
		if item.Price < 0 {
			reasons = append(reasons, fmt.Sprintf("items[%d].price must be non-negative", i))
		}
	}

	if len(reasons) > 0 {
		return &domain.ValidationError{Reasons: reasons}
	}
	return nil
}

// ValidateStatus checks the status payload of a status update.
func ValidateStatus(status domain.OrderStatus) error {
	if status == "" {
		return &domain.ValidationError{Reasons: []string{"status is required"}}
	}
	if !status.Valid() {
		return &domain.ValidationError{Reasons: []string{"status must be one of: " + validStatusList()}}
	}
	return nil
}

// ValidateStatusFilter checks the optional status query parameter of a list
// request. An empty value means no filter and is valid.
func ValidateStatusFilter(value string) (domain.OrderStatus, error) {
	if value == "" {
		return "", nil
	}
	status := domain.OrderStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("%w: status must be one of: %s", domain.ErrInvalidStatusFilter, validStatusList())
	}
	return status, nil
}

func validStatusList() string {
	statuses := domain.OrderStatuses()
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
