package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// POSPayload is the closure notification sent to a restaurant's POS
// system after a bill commits.
type POSPayload struct {
	Reference       string     `json:"reference"`
	SessionID       uint       `json:"session_id"`
	TableID         uint       `json:"table_id"`
	RestaurantID    uint       `json:"restaurant_id"`
	Subtotal        int64      `json:"subtotal"`
	ServiceCharge   int64      `json:"service_charge"`
	DiscountApplied int64      `json:"discount_applied"`
	Total           int64      `json:"total"`
	AmountPaid      int64      `json:"amount_paid"`
	PaymentMethod   string     `json:"payment_method"`
	Items           []BillLine `json:"items"`
	StartedAt       time.Time  `json:"started_at"`
	ClosedAt        time.Time  `json:"closed_at"`
}

// POSNotifier delivers closure payloads to an external POS endpoint.
// Implementations are best-effort: a returned error is recorded on the
// closure result but never rolls anything back.
type POSNotifier interface {
	Notify(ctx context.Context, endpoint, credential string, payload POSPayload) error
}

// POSClient is the HTTP implementation of POSNotifier. Any transport
// error and any non-2xx response are treated the same way.
type POSClient struct {
	httpClient *http.Client
}

func NewPOSClient() *POSClient {
	return &POSClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *POSClient) Notify(ctx context.Context, endpoint, credential string, payload POSPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrPOSNotify, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrPOSNotify, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPOSNotify, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a little of the body for the audit record.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: endpoint returned %d: %s", ErrPOSNotify, resp.StatusCode, string(snippet))
	}

	return nil
}
