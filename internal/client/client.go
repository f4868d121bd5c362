// Package client is the dashboard-facing adapter for the orders API. Every
// failure it returns is an *APIError, so callers can always tell a server
// error response apart from an unreachable server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/restaunax/orders-api/internal/domain"
	"github.com/restaunax/orders-api/internal/orders"
)

// APIError carries the normalized failure of an API call. StatusCode is 0
// when no response was received at all.
type APIError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Body       []byte // raw error payload, empty on transport failures
	cause      error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "orders api unreachable: " + e.Message
	}
	if e.Message != "" {
		return fmt.Sprintf("orders api error (status %d): %s: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("orders api error (status %d): %s", e.StatusCode, e.ErrorCode)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL, e.g. "http://localhost:3000".
// A nil httpClient gets a 10s-timeout default.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// ListOrders fetches orders newest-first, optionally filtered by status.
// An empty status means no filter.
func (c *Client) ListOrders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	path := "/api/orders"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var result []domain.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) CreateOrder(ctx context.Context, req orders.CreateOrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{Status: status}

	var order domain.Order
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id), body, &order); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "encode request: " + err.Error(), cause: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{Message: "build request: " + err.Error(), cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Message: "could not reach server: " + err.Error(), cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    "decode response: " + err.Error(),
				cause:      err,
			}
		}
	}

	return nil
}

// newAPIError parses the structured {error, message} body; a body that does
// not match stays available raw, with a generic message.
func newAPIError(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       raw,
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error != "" {
		apiErr.ErrorCode = parsed.Error
		apiErr.Message = parsed.Message
	} else {
		apiErr.ErrorCode = "unexpected error"
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
