package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/pkg/errors"
)

// participantClient translates one orchestration intent into one HTTP call
// and normalizes the result into a StepOutcome. A single attempt per
// invocation; retry policy, if any, is a higher-level concern. Transport
// failures are never propagated as errors so the orchestrator never faults on
// an unreachable participant.
type participantClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

type actionRequest struct {
	OrderID models.ID `json:"order_id"`
}

func (c *participantClient) post(ctx context.Context, path string, orderID models.ID, wantStatus int) saga.StepOutcome {
	body, err := json.Marshal(actionRequest{OrderID: orderID})
	if err != nil {
		return saga.Fail(nil, errors.Wrap(err, "failed to marshal request").Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return saga.Fail(nil, errors.Wrapf(err, "failed to build %s request", c.name).Error())
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return saga.Fail(nil, errors.Wrapf(err, "%s service unreachable", c.name).Error())
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return saga.Fail(nil, errors.Wrapf(err, "failed to read %s response", c.name).Error())
	}

	if len(data) > 0 && !json.Valid(data) {
		return saga.Fail(nil, fmt.Sprintf("%s service returned malformed response", c.name))
	}

	if res.StatusCode != wantStatus {
		return saga.Fail(data, fmt.Sprintf("%s service returned status %d", c.name, res.StatusCode))
	}

	return saga.Succeed(data)
}

// HTTPPaymentClient calls the payment service
type HTTPPaymentClient struct {
	participantClient
}

// NewPaymentClient creates a payment service client
func NewPaymentClient(baseURL string, httpClient *http.Client) *HTTPPaymentClient {
	return &HTTPPaymentClient{participantClient{name: "payment", baseURL: baseURL, httpClient: httpClient}}
}

// Authorize authorizes a payment for the order
func (c *HTTPPaymentClient) Authorize(ctx context.Context, orderID models.ID) saga.StepOutcome {
	return c.post(ctx, "/payments", orderID, http.StatusCreated)
}

// Refund refunds the most recent authorized payment for the order
func (c *HTTPPaymentClient) Refund(ctx context.Context, orderID models.ID) saga.StepOutcome {
	return c.post(ctx, "/payments/refund", orderID, http.StatusOK)
}

// HTTPInventoryClient calls the inventory service
type HTTPInventoryClient struct {
	participantClient
}

// NewInventoryClient creates an inventory service client
func NewInventoryClient(baseURL string, httpClient *http.Client) *HTTPInventoryClient {
	return &HTTPInventoryClient{participantClient{name: "inventory", baseURL: baseURL, httpClient: httpClient}}
}

// Reserve reserves stock for the order
func (c *HTTPInventoryClient) Reserve(ctx context.Context, orderID models.ID) saga.StepOutcome {
	return c.post(ctx, "/reservations", orderID, http.StatusCreated)
}

// Release releases the most recent active reservation for the order
func (c *HTTPInventoryClient) Release(ctx context.Context, orderID models.ID) saga.StepOutcome {
	return c.post(ctx, "/reservations/release", orderID, http.StatusOK)
}

// HTTPShippingClient calls the shipping service
type HTTPShippingClient struct {
	participantClient
}

// NewShippingClient creates a shipping service client
func NewShippingClient(baseURL string, httpClient *http.Client) *HTTPShippingClient {
	return &HTTPShippingClient{participantClient{name: "shipping", baseURL: baseURL, httpClient: httpClient}}
}

// Ship creates a shipment for the order
func (c *HTTPShippingClient) Ship(ctx context.Context, orderID models.ID) saga.StepOutcome {
	return c.post(ctx, "/shipments", orderID, http.StatusCreated)
}
