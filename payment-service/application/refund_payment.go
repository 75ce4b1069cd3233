package application

import (
	"context"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// RefundPaymentCommand represents the command to refund a payment
type RefundPaymentCommand struct {
	OrderID string `json:"order_id"`
}

// RefundPaymentResponse represents the refund result. Payment is nil when
// there was nothing to refund; the call still succeeds so compensation is
// always safe to invoke.
type RefundPaymentResponse struct {
	Payment *PaymentView `json:"payment,omitempty"`
	Message string       `json:"message"`
}

// RefundPayment use case: compensating action for payment authorization
type RefundPayment struct {
	paymentRepository domain.PaymentRepository
}

// NewRefundPayment creates a new RefundPayment use case
func NewRefundPayment(paymentRepository domain.PaymentRepository) *RefundPayment {
	return &RefundPayment{paymentRepository: paymentRepository}
}

// Execute refunds the most recent authorized payment for the order
func (uc *RefundPayment) Execute(ctx context.Context, cmd *RefundPaymentCommand) (*RefundPaymentResponse, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	payment, err := uc.paymentRepository.FindLatestAuthorized(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find payment")
	}

	if payment == nil {
		return &RefundPaymentResponse{Message: "nothing to refund"}, nil
	}

	if err := payment.Refund(); err != nil {
		return nil, errors.Wrap(err, "failed to refund payment")
	}

	if err := uc.paymentRepository.Update(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to update payment")
	}

	return &RefundPaymentResponse{
		Payment: newPaymentView(payment),
		Message: "payment refunded",
	}, nil
}
