package application

import (
	"context"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/pkg/errors"
)

// ListPaymentsResponse represents the response for listing payments
type ListPaymentsResponse struct {
	Payments []*PaymentView `json:"payments"`
}

// ListPayments use case, newest payments first
type ListPayments struct {
	paymentRepository domain.PaymentRepository
}

// NewListPayments creates a new ListPayments use case
func NewListPayments(paymentRepository domain.PaymentRepository) *ListPayments {
	return &ListPayments{paymentRepository: paymentRepository}
}

// Execute executes the list payments use case
func (uc *ListPayments) Execute(ctx context.Context) (*ListPaymentsResponse, error) {
	payments, err := uc.paymentRepository.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	views := make([]*PaymentView, 0, len(payments))
	for _, payment := range payments {
		views = append(views, newPaymentView(payment))
	}

	return &ListPaymentsResponse{Payments: views}, nil
}
