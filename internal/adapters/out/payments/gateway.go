// Package payments integrates with the external payment collaborator.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fooddispatch/internal/core/domain/model/kernel"
)

const defaultTimeout = 5 * time.Second

// HTTPPaymentGateway implements ports.PaymentGateway against the payment
// service's REST API.
type HTTPPaymentGateway struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPaymentGateway creates a gateway for the payment service at baseURL.
func NewHTTPPaymentGateway(baseURL string) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// paymentStatusResponse is the payment service's status payload.
type paymentStatusResponse struct {
	Captured bool `json:"captured"`
}

// IsCaptured reports whether the order's payment has been captured.
func (g *HTTPPaymentGateway) IsCaptured(ctx context.Context, orderID kernel.UUID) (bool, error) {
	url := fmt.Sprintf("%s/payments/%s/status", g.baseURL, orderID.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("payment service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var status paymentStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("payment service response is malformed: %w", err)
	}

	return status.Captured, nil
}

// StaticPaymentGateway implements ports.PaymentGateway with a fixed answer.
// Used when no payment service is configured, e.g. local development.
type StaticPaymentGateway struct {
	captured bool
}

// NewStaticPaymentGateway creates a gateway that always reports the given
// capture state.
func NewStaticPaymentGateway(captured bool) *StaticPaymentGateway {
	return &StaticPaymentGateway{captured: captured}
}

// IsCaptured reports the configured capture state for every order.
func (g *StaticPaymentGateway) IsCaptured(_ context.Context, _ kernel.UUID) (bool, error) {
	return g.captured, nil
}
