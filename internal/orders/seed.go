package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/restaunax/orders-api/internal/domain"
)

// seedOrder is a raw record from the legacy system export. The corpus is
// known to be dirty (wrong totals, malformed emails, empty names, negative
// reward points), so it goes through the same validation as API input.
type seedOrder struct {
	customerName  string
	customerEmail string
	customerPhone string
	rewardPoints  int
	orderType     domain.OrderType
	status        domain.OrderStatus
	ageMinutes    int
	items         []CreateOrderItem
}

// LoadSeed inserts the development seed corpus into the store. Records that
// fail create-validation are dropped with a warning, totals are recomputed
// from the items, and negative reward points are clamped to zero. Returns
// the number of orders loaded.
func LoadSeed(ctx context.Context, store Store, logger *slog.Logger) (int, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	loaded := 0

	for i, seed := range seedOrders() {
		req := CreateOrderRequest{
			CustomerName:  seed.customerName,
			CustomerEmail: seed.customerEmail,
			CustomerPhone: seed.customerPhone,
			OrderType:     seed.orderType,
			Items:         seed.items,
		}
		if err := ValidateCreate(req); err != nil {
			logger.Warn("dropping invalid seed record", "record", i, "error", err)
			continue
		}

		status := seed.status
		if !status.Valid() {
			logger.Warn("seed record has unknown status, using pending", "record", i, "status", status)
			status = domain.OrderStatusPending
		}

		points := seed.rewardPoints
		if points < 0 {
			logger.Warn("seed record has negative reward points, clamping to zero", "record", i, "points", points)
			points = 0
		}

		id, err := store.NextOrderID(ctx)
		if err != nil {
			return loaded, fmt.Errorf("generate seed order id: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(seed.items))
		for _, item := range seed.items {
			itemID, err := store.NextItemID(ctx)
			if err != nil {
				return loaded, fmt.Errorf("generate seed item id: %w", err)
			}
			items = append(items, domain.OrderItem{
				ID:       itemID,
				Name:     item.Name,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}

		order := domain.Order{
			ID:                   id,
			CustomerName:         seed.customerName,
			CustomerEmail:        seed.customerEmail,
			CustomerPhone:        seed.customerPhone,
			CustomerRewardPoints: points,
			OrderType:            seed.orderType,
			Status:               status,
			Items:                items,
			Total:                domain.ItemsTotal(items),
			CreatedAt:            now.Add(-time.Duration(seed.ageMinutes) * time.Minute),
		}

		if err := store.Insert(ctx, order); err != nil {
			return loaded, fmt.Errorf("insert seed order %s: %w", id, err)
		}
		loaded++
	}

	return loaded, nil
}

// seedOrders reproduces the legacy export verbatim, defects included. The
// export's stated totals are not carried at all; LoadSeed derives every
// total from the items, which is the only figure the API ever trusts.
func seedOrders() []seedOrder {
	return []seedOrder{
		{
			customerName: "Sarah Chen", customerEmail: "sarah.chen@email.com", customerPhone: "+1-555-0101",
			rewardPoints: 150, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusPending, ageMinutes: 5,
			items: []CreateOrderItem{
				{Name: "Margherita Pizza", Quantity: 2, Price: 15.99},
				{Name: "Caesar Salad", Quantity: 1, Price: 8.99},
				{Name: "Garlic Bread", Quantity: 1, Price: 5.00},
			},
		},
		{
			customerName: "Michael Rodriguez", customerEmail: "michael.r@email.com", customerPhone: "+1-555-0102",
			rewardPoints: 320, orderType: domain.OrderTypePickup, status: domain.OrderStatusPreparing, ageMinutes: 15,
			items: []CreateOrderItem{
				{Name: "BBQ Chicken Pizza", Quantity: 1, Price: 18.99},
				{Name: "Mozzarella Sticks", Quantity: 1, Price: 7.99},
				{Name: "Soft Drink", Quantity: 2, Price: 3.00},
			},
		},
		{
			customerName: "Emily Johnson", customerEmail: "emily.j@email.com", customerPhone: "+1-555-0103",
			rewardPoints: 85, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusReady, ageMinutes: 25,
			items: []CreateOrderItem{
				{Name: "Pepperoni Pizza", Quantity: 2, Price: 16.99},
				{Name: "Vegetarian Pizza", Quantity: 1, Price: 15.99},
				{Name: "Greek Salad", Quantity: 2, Price: 8.99},
			},
		},
		{
			customerName: "James Wilson", customerEmail: "james.wilson@email.com", customerPhone: "+1-555-0104",
			rewardPoints: 540, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusDelivered, ageMinutes: 90,
			items: []CreateOrderItem{
				{Name: "Hawaiian Pizza", Quantity: 1, Price: 17.99},
				{Name: "Chicken Wings", Quantity: 1, Price: 10.98},
			},
		},
		{
			// Malformed email (missing @); passes presence validation as-is.
			customerName: "Olivia Martinez", customerEmail: "olivia.martinez.email.com", customerPhone: "+1-555-0105",
			rewardPoints: 220, orderType: domain.OrderTypePickup, status: domain.OrderStatusPending, ageMinutes: 3,
			items: []CreateOrderItem{
				{Name: "Cheese Pizza", Quantity: 1, Price: 14.99},
				{Name: "Onion Rings", Quantity: 1, Price: 6.99},
				{Name: "Iced Tea", Quantity: 1, Price: 2.99},
			},
		},
		{
			customerName: "Daniel Brown", customerEmail: "daniel.brown@email.com", customerPhone: "+1-555-0106",
			rewardPoints: 470, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusPreparing, ageMinutes: 20,
			items: []CreateOrderItem{
				{Name: "Meat Lovers Pizza", Quantity: 2, Price: 19.99},
				{Name: "Buffalo Wings", Quantity: 1, Price: 12.98},
				{Name: "Coleslaw", Quantity: 1, Price: 2.00},
			},
		},
		{
			// Empty customer name; dropped by LoadSeed.
			customerName: "", customerEmail: "sophia.t@email.com", customerPhone: "+1-555-0107",
			rewardPoints: 95, orderType: domain.OrderTypePickup, status: domain.OrderStatusReady, ageMinutes: 30,
			items: []CreateOrderItem{
				{Name: "Personal Margherita", Quantity: 1, Price: 9.99},
				{Name: "Side Salad", Quantity: 1, Price: 4.99},
				{Name: "Lemonade", Quantity: 1, Price: 4.99},
			},
		},
		{
			customerName: "Liam Anderson", customerEmail: "liam.anderson@email.com", customerPhone: "+1-555-0108",
			rewardPoints: 680, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusDelivered, ageMinutes: 120,
			items: []CreateOrderItem{
				{Name: "Supreme Pizza", Quantity: 3, Price: 18.99},
				{Name: "Breadsticks", Quantity: 2, Price: 4.99},
				{Name: "Marinara Sauce", Quantity: 2, Price: 1.99},
			},
		},
		{
			// Negative reward points; clamped by LoadSeed.
			customerName: "Ava Thompson", customerEmail: "ava.thompson@email.com", customerPhone: "+1-555-0109",
			rewardPoints: -50, orderType: domain.OrderTypePickup, status: domain.OrderStatusPending, ageMinutes: 8,
			items: []CreateOrderItem{
				{Name: "Four Cheese Pizza", Quantity: 1, Price: 16.99},
				{Name: "Spinach Dip", Quantity: 1, Price: 8.99},
				{Name: "Tiramisu", Quantity: 2, Price: 6.49},
			},
		},
		{
			customerName: "Noah Garcia", customerEmail: "noah.garcia@email.com", customerPhone: "+1-555-0110",
			rewardPoints: 390, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusPreparing, ageMinutes: 18,
			items: []CreateOrderItem{
				{Name: "Deluxe Pizza", Quantity: 1, Price: 20.99},
				{Name: "Garden Salad", Quantity: 2, Price: 7.99},
				{Name: "Soft Drink", Quantity: 3, Price: 2.00},
			},
		},
		{
			customerName: "Isabella Lee", customerEmail: "isabella.lee@email.com", customerPhone: "+1-555-0111",
			rewardPoints: 210, orderType: domain.OrderTypePickup, status: domain.OrderStatusReady, ageMinutes: 35,
			items: []CreateOrderItem{
				{Name: "Veggie Delight Pizza", Quantity: 1, Price: 15.99},
				{Name: "French Fries", Quantity: 1, Price: 5.99},
				{Name: "Milkshake", Quantity: 1, Price: 5.00},
			},
		},
		{
			customerName: "Ethan Harris", customerEmail: "ethan.harris@email.com", customerPhone: "+1-555-0112",
			rewardPoints: 890, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusDelivered, ageMinutes: 150,
			items: []CreateOrderItem{
				{Name: "Pepperoni Pizza", Quantity: 2, Price: 16.99},
				{Name: "BBQ Chicken Pizza", Quantity: 2, Price: 18.99},
				{Name: "Chicken Wings", Quantity: 1, Price: 10.98},
				{Name: "Cheesy Bread", Quantity: 1, Price: 6.99},
			},
		},
		{
			customerName: "Mia White", customerEmail: "mia.white@email.com", customerPhone: "+1-555-0113",
			rewardPoints: 45, orderType: domain.OrderTypePickup, status: domain.OrderStatusPending, ageMinutes: 2,
			items: []CreateOrderItem{
				{Name: "Personal Pepperoni", Quantity: 1, Price: 9.99},
				{Name: "Soft Drink", Quantity: 2, Price: 3.00},
			},
		},
		{
			customerName: "Benjamin Clark", customerEmail: "ben.clark@email.com", customerPhone: "+1-555-0114",
			rewardPoints: 560, orderType: domain.OrderTypeDelivery, status: domain.OrderStatusPreparing, ageMinutes: 22,
			items: []CreateOrderItem{
				{Name: "Spicy Italian Pizza", Quantity: 2, Price: 17.99},
				{Name: "Jalapeño Poppers", Quantity: 1, Price: 8.99},
				{Name: "Ranch Dressing", Quantity: 2, Price: 0.99},
			},
		},
		{
			customerName: "Charlotte Lewis", customerEmail: "charlotte.lewis@email.com", customerPhone: "+1-555-0115",
			rewardPoints: 175, orderType: domain.OrderTypePickup, status: domain.OrderStatusReady, ageMinutes: 40,
			items: []CreateOrderItem{
				{Name: "White Pizza", Quantity: 1, Price: 16.99},
				{Name: "Caprese Salad", Quantity: 1, Price: 9.99},
				{Name: "Cannoli", Quantity: 2, Price: 3.99},
			},
		},
	}
}
