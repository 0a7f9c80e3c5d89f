// Package orderapi implements the remote order-submission boundary. The
// wire contract is the backend's createOrder endpoint: a JSON body
// {success, data:{_id}, message}. Anything that prevents reading that body
// is a TransportError; a readable success=false is a business rejection and
// comes back as a non-error result.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"checkout-service/internal/checkout"
	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

// TransportError reports a failed exchange with the order API: no
// response, a non-2xx status, or an unreadable body.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order api transport failure: %v", e.Err)
	}
	return fmt.Sprintf("order api transport failure: status=%d body=%s", e.Status, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client calls the remote order API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates an order API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  util.GetLogger(),
	}
}

type createOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		ID string `json:"_id"`
	} `json:"data"`
}

// CreateOrder posts the payload to the order endpoint exactly once
func (c *Client) CreateOrder(ctx context.Context, payload *models.OrderPayload) (*checkout.CreateOrderResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}

	var decoded createOrderResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(respBody), Err: err}
	}

	// Non-2xx with a parseable business message is a rejection, not a
	// transport failure; the server said no and the user can correct.
	if !decoded.Success {
		if decoded.Message == "" && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
			return nil, &TransportError{Status: resp.StatusCode, Body: string(respBody)}
		}
		return &checkout.CreateOrderResult{Success: false, Message: decoded.Message}, nil
	}

	orderID := ""
	if decoded.Data != nil {
		orderID = decoded.Data.ID
	}

	c.logger.Debug("Order API accepted order", zap.String("order_id", orderID))
	return &checkout.CreateOrderResult{Success: true, OrderID: orderID}, nil
}
