package orders

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/restaunax/orders-api/internal/domain"
	"github.com/restaunax/orders-api/internal/telemetry"
)

// EventPublisher decouples the handler from the kafka wiring; a nil publisher
// disables events entirely.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order domain.Order) error
	PublishStatusChanged(ctx context.Context, orderID string, oldStatus, newStatus domain.OrderStatus) error
}

type Handler struct {
	service   *Service
	publisher EventPublisher
	metrics   *telemetry.OrderMetrics
	logger    *slog.Logger
}

func NewHandler(service *Service, publisher EventPublisher, metrics *telemetry.OrderMetrics, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// apiError is the error body shape shared with the dashboard client.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	statusFilter := r.URL.Query().Get("status")

	orders, err := h.service.List(r.Context(), statusFilter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatusFilter) {
			h.writeError(w, http.StatusBadRequest, "invalid status filter", trimSentinel(err, domain.ErrInvalidStatusFilter))
			return
		}
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.logger.Info("orders listed", "count", len(orders), "status_filter", statusFilter)
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			h.writeError(w, http.StatusNotFound, "order not found", "")
			return
		}
		h.logger.Error("failed to get order", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	h.logger.Info("order retrieved", "order_id", order.ID)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	order, err := h.service.Create(r.Context(), req)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			h.writeError(w, http.StatusBadRequest, "validation failed", joinReasons(ve))
			return
		}
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error", "")
		return
	}

	if h.metrics != nil {
		h.metrics.OrderCreated(r.Context(), order.OrderType)
	}

	if h.publisher != nil {
		if err := h.publisher.PublishOrderCreated(r.Context(), order); err != nil {
			h.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order created", "order_id", order.ID, "total", order.Total, "order_type", order.OrderType)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	order, oldStatus, err := h.service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			h.writeError(w, http.StatusBadRequest, "validation failed", joinReasons(ve))
		case errors.Is(err, domain.ErrOrderNotFound):
			h.writeError(w, http.StatusNotFound, "order not found", "")
		default:
			h.logger.Error("failed to update order status", "error", err, "id", id)
			h.writeError(w, http.StatusInternalServerError, "internal server error", "")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.StatusChanged(r.Context(), oldStatus, order.Status)
	}

	if h.publisher != nil {
		if err := h.publisher.PublishStatusChanged(r.Context(), order.ID, oldStatus, order.Status); err != nil {
			h.logger.Error("failed to publish status changed event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order status updated", "order_id", order.ID, "status", order.Status)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Restaunax API is running",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, errCode, message string) {
	h.writeJSON(w, status, apiError{Error: errCode, Message: message})
}

func joinReasons(ve *domain.ValidationError) string {
	return strings.Join(ve.Reasons, "; ")
}

// trimSentinel strips the sentinel prefix so the client sees only the
// human-readable remainder, e.g. "status must be one of: ...".
func trimSentinel(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
