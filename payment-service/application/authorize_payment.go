package application

import (
	"context"
	"time"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/pkg/errors"
)

// ErrPaymentDeclined is returned when the simulated payment provider declines
// the authorization.
var ErrPaymentDeclined = errors.New("payment declined")

// AuthorizePaymentCommand represents the command to authorize a payment
type AuthorizePaymentCommand struct {
	OrderID string `json:"order_id"`
}

// PaymentView is the external representation of a payment
type PaymentView struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newPaymentView(payment *domain.Payment) *PaymentView {
	return &PaymentView{
		PaymentID: payment.ID.String(),
		OrderID:   payment.OrderID.String(),
		Status:    string(payment.Status),
		CreatedAt: payment.Timestamps.CreatedAt.Format(time.RFC3339),
		UpdatedAt: payment.Timestamps.UpdatedAt.Format(time.RFC3339),
	}
}

// AuthorizePayment use case. The decider simulates the upstream payment
// provider; production wiring uses a random decider with a configured success
// rate.
type AuthorizePayment struct {
	paymentRepository domain.PaymentRepository
	decider           simulation.Decider
}

// NewAuthorizePayment creates a new AuthorizePayment use case
func NewAuthorizePayment(paymentRepository domain.PaymentRepository, decider simulation.Decider) *AuthorizePayment {
	return &AuthorizePayment{
		paymentRepository: paymentRepository,
		decider:           decider,
	}
}

// Execute executes the authorize payment use case
func (uc *AuthorizePayment) Execute(ctx context.Context, cmd *AuthorizePaymentCommand) (*PaymentView, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	if !uc.decider.Approve() {
		return nil, ErrPaymentDeclined
	}

	payment := domain.AuthorizePayment(orderID)
	if err := uc.paymentRepository.Save(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to save payment")
	}

	return newPaymentView(payment), nil
}
