package orders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/restaunax/orders-api/internal/domain"
)

type capturingPublisher struct {
	created       []domain.Order
	statusChanges []string
	fail          bool
}

func (p *capturingPublisher) PublishOrderCreated(_ context.Context, order domain.Order) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.created = append(p.created, order)
	return nil
}

func (p *capturingPublisher) PublishStatusChanged(_ context.Context, orderID string, oldStatus, newStatus domain.OrderStatus) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.statusChanges = append(p.statusChanges, orderID+":"+string(oldStatus)+"->"+string(newStatus))
	return nil
}

func newTestHandler(t *testing.T, publisher EventPublisher) (*Handler, *Service) {
	t.Helper()
	service := NewService(NewMemoryStore())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(service, publisher, nil, logger), service
}

func decodeError(t *testing.T, body io.Reader) (string, string) {
	t.Helper()
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return resp.Error, resp.Message
}

func TestHandler_HandleCreate(t *testing.T) {
	t.Run("creates an order with server-assigned fields", func(t *testing.T) {
		handler, _ := newTestHandler(t, nil)

		reqBody := `{"customerName":"A","customerEmail":"a@b.com","customerPhone":"555","orderType":"pickup","items":[{"name":"X","quantity":2,"price":5.00}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.Total != 10.00 {
			t.Errorf("expected total 10.00, got %v", order.Total)
		}
		if order.Status != domain.OrderStatusPending {
			t.Errorf("expected status pending, got %q", order.Status)
		}
		if order.CustomerRewardPoints != 0 {
			t.Errorf("expected 0 reward points, got %d", order.CustomerRewardPoints)
		}
		if order.ID == "" || order.Items[0].ID == "" {
			t.Errorf("expected server-assigned ids, got %+v", order)
		}
		if order.CreatedAt.IsZero() {
			t.Error("expected createdAt to be set")
		}
	})

	t.Run("rejects validation failures with the reason list", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)

		reqBody := `{"customerName":"A","customerEmail":"a@b.com","customerPhone":"555","orderType":"pickup","items":[]}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errCode, message := decodeError(t, rec.Body)
		if errCode != "validation failed" {
			t.Errorf("expected 'validation failed', got %q", errCode)
		}
		if !strings.Contains(message, "items") {
			t.Errorf("expected message about items, got %q", message)
		}

		all, _ := service.List(req.Context(), "")
		if len(all) != 0 {
			t.Errorf("expected no store mutation, got %d orders", len(all))
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		handler, _ := newTestHandler(t, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("publishes an order created event", func(t *testing.T) {
		publisher := &capturingPublisher{}
		handler, _ := newTestHandler(t, publisher)

		reqBody := `{"customerName":"A","customerEmail":"a@b.com","customerPhone":"555","orderType":"pickup","items":[{"name":"X","quantity":1,"price":2.50}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", rec.Code)
		}
		if len(publisher.created) != 1 {
			t.Fatalf("expected 1 published event, got %d", len(publisher.created))
		}
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		handler, _ := newTestHandler(t, &capturingPublisher{fail: true})

		reqBody := `{"customerName":"A","customerEmail":"a@b.com","customerPhone":"555","orderType":"pickup","items":[{"name":"X","quantity":1,"price":2.50}]}`
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(reqBody))
		rec := httptest.NewRecorder()

		handler.HandleCreate(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201 despite broker failure, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleList(t *testing.T) {
	seedThree := func(t *testing.T, service *Service) {
		t.Helper()
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			if _, err := service.Create(ctx, validCreateRequest()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if _, _, err := service.UpdateStatus(ctx, "ord_002", domain.OrderStatusPreparing); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	t.Run("returns all orders", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)
		seedThree(t, service)

		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var orders []domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(orders) != 3 {
			t.Errorf("expected 3 orders, got %d", len(orders))
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)
		seedThree(t, service)

		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=preparing", nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var orders []domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&orders); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(orders) != 1 || orders[0].ID != "ord_002" {
			t.Errorf("expected only ord_002, got %+v", orders)
		}
	})

	t.Run("rejects an invalid status filter", func(t *testing.T) {
		handler, _ := newTestHandler(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders?status=bogus", nil)
		rec := httptest.NewRecorder()

		handler.HandleList(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errCode, message := decodeError(t, rec.Body)
		if errCode != "invalid status filter" {
			t.Errorf("expected 'invalid status filter', got %q", errCode)
		}
		if !strings.Contains(message, "pending, preparing, ready, delivered") {
			t.Errorf("expected message to enumerate valid statuses, got %q", message)
		}
	})
}

func TestHandler_HandleGet(t *testing.T) {
	t.Run("returns an existing order", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)
		created, err := service.Create(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.ID, nil)
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.ID != created.ID {
			t.Errorf("expected %s, got %s", created.ID, order.ID)
		}
	})

	t.Run("returns 404 for an unknown id", func(t *testing.T) {
		handler, _ := newTestHandler(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/orders/ord_404", nil)
		req.SetPathValue("id", "ord_404")
		rec := httptest.NewRecorder()

		handler.HandleGet(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
		errCode, _ := decodeError(t, rec.Body)
		if errCode != "order not found" {
			t.Errorf("expected 'order not found', got %q", errCode)
		}
	})
}

func TestHandler_HandleUpdateStatus(t *testing.T) {
	t.Run("updates only the status", func(t *testing.T) {
		publisher := &capturingPublisher{}
		handler, service := newTestHandler(t, publisher)
		created, err := service.Create(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+created.ID, strings.NewReader(`{"status":"ready"}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()

		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var order domain.Order
		if err := json.NewDecoder(rec.Body).Decode(&order); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if order.Status != domain.OrderStatusReady {
			t.Errorf("expected status ready, got %q", order.Status)
		}
		if order.ID != created.ID || order.Total != created.Total {
			t.Errorf("expected other fields unchanged, got %+v", order)
		}
		if len(publisher.statusChanges) != 1 || publisher.statusChanges[0] != created.ID+":pending->ready" {
			t.Errorf("unexpected status change events: %v", publisher.statusChanges)
		}
	})

	t.Run("rejects an invalid status", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)
		created, err := service.Create(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+created.ID, strings.NewReader(`{"status":"cooking"}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()

		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
		errCode, message := decodeError(t, rec.Body)
		if errCode != "validation failed" {
			t.Errorf("expected 'validation failed', got %q", errCode)
		}
		if !strings.Contains(message, "status must be one of") {
			t.Errorf("expected message about valid statuses, got %q", message)
		}
	})

	t.Run("returns 404 for an unknown id", func(t *testing.T) {
		handler, _ := newTestHandler(t, nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/orders/ord_404", strings.NewReader(`{"status":"ready"}`))
		req.SetPathValue("id", "ord_404")
		rec := httptest.NewRecorder()

		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("rejects a missing status", func(t *testing.T) {
		handler, service := newTestHandler(t, nil)
		created, err := service.Create(context.Background(), validCreateRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+created.ID, strings.NewReader(`{}`))
		req.SetPathValue("id", created.ID)
		rec := httptest.NewRecorder()

		handler.HandleUpdateStatus(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestHandler_HandleHealth(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
	if resp["message"] == "" {
		t.Error("expected a message")
	}
}
