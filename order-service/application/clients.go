package application

import (
	"context"

	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
)

// Saga step names, surfaced verbatim in the failure envelope.
const (
	StepPayment   = "payment"
	StepInventory = "inventory"
	StepShipping  = "shipping"
)

// PaymentClient is the orchestrator-facing contract of the payment service.
type PaymentClient interface {
	Authorize(ctx context.Context, orderID models.ID) saga.StepOutcome
	Refund(ctx context.Context, orderID models.ID) saga.StepOutcome
}

// InventoryClient is the orchestrator-facing contract of the inventory service.
type InventoryClient interface {
	Reserve(ctx context.Context, orderID models.ID) saga.StepOutcome
	Release(ctx context.Context, orderID models.ID) saga.StepOutcome
}

// ShippingClient is the orchestrator-facing contract of the shipping service.
// Shipments cannot be undone, so there is no compensating call.
type ShippingClient interface {
	Ship(ctx context.Context, orderID models.ID) saga.StepOutcome
}
