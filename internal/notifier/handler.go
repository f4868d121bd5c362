package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/restaunax/orders-api/internal/client"
	"github.com/restaunax/orders-api/internal/domain"
)

// Handler turns order.created events into kitchen tickets. The full order is
// re-fetched through the API client because the event carries only the order
// summary, and the ticket needs customer contact details.
type Handler struct {
	api        *client.Client
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHandler builds the event handler. An empty webhookURL switches to
// log-only mode; tickets are still assembled and logged.
func NewHandler(api *client.Client, webhookURL string, httpClient *http.Client, logger *slog.Logger) *Handler {
	return &Handler{
		api:        api,
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ticket is the payload posted to the kitchen webhook.
type ticket struct {
	OrderID      string             `json:"order_id"`
	OrderType    domain.OrderType   `json:"order_type"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone"`
	Items        []domain.OrderItem `json:"items"`
	Total        float64            `json:"total"`
}

func (h *Handler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}

	h.logger.Info("processing order created event", "event_id", event.EventID, "order_id", event.OrderID)

	order, err := h.api.GetOrder(ctx, event.OrderID)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			// The order vanished between event and processing; nothing to
			// print, and retrying will not bring it back.
			h.logger.Warn("order from event no longer exists", "order_id", event.OrderID)
			return nil
		}
		return fmt.Errorf("fetch order %s: %w", event.OrderID, err)
	}

	t := ticket{
		OrderID:      order.ID,
		OrderType:    order.OrderType,
		CustomerName: order.CustomerName,
		Phone:        order.CustomerPhone,
		Items:        order.Items,
		Total:        order.Total,
	}

	if h.webhookURL == "" {
		h.logger.Info("kitchen ticket (no webhook configured)",
			"order_id", t.OrderID, "order_type", t.OrderType, "items", len(t.Items), "total", t.Total)
		return nil
	}

	if err := h.postTicket(ctx, t); err != nil {
		return fmt.Errorf("post kitchen ticket for %s: %w", order.ID, err)
	}

	h.logger.Info("kitchen ticket sent", "order_id", order.ID)
	return nil
}

func (h *Handler) postTicket(ctx context.Context, t ticket) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
