package domain

import (
	"context"

	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// PaymentStatus represents the status of a payment. A payment only ever moves
// from authorized to refunded, never back.
type PaymentStatus string

const (
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Payment is the role record kept per authorization, keyed by the external
// order identifier. Repeated authorizations for the same order create
// duplicate records; the caller may not rely on idempotency.
type Payment struct {
	ID         models.ID
	OrderID    models.ID
	Status     PaymentStatus
	Timestamps models.Timestamps
}

// AuthorizePayment creates an authorized payment for the order
func AuthorizePayment(orderID models.ID) *Payment {
	return &Payment{
		ID:         models.GenerateUUID(),
		OrderID:    orderID,
		Status:     PaymentStatusAuthorized,
		Timestamps: models.NewTimestamps(),
	}
}

// Refund flips the payment to refunded
func (p *Payment) Refund() error {
	if p.Status != PaymentStatusAuthorized {
		return errors.Errorf("payment can only be refunded from authorized, was %s", p.Status)
	}
	p.Status = PaymentStatusRefunded
	p.Timestamps = p.Timestamps.Update()
	return nil
}

// PaymentRepository interface
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	// FindLatestAuthorized returns the most recent authorized payment for
	// the order, or nil when none exists.
	FindLatestAuthorized(ctx context.Context, orderID models.ID) (*Payment, error)
	FindAll(ctx context.Context) ([]*Payment, error)
}
