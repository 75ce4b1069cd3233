package application

import (
	"context"
	"testing"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryPaymentRepository keeps payments in insertion order.
type memoryPaymentRepository struct {
	payments []*domain.Payment
}

func (r *memoryPaymentRepository) Save(_ context.Context, payment *domain.Payment) error {
	copied := *payment
	r.payments = append(r.payments, &copied)
	return nil
}

func (r *memoryPaymentRepository) Update(_ context.Context, payment *domain.Payment) error {
	for i, existing := range r.payments {
		if existing.ID == payment.ID {
			copied := *payment
			r.payments[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *memoryPaymentRepository) FindLatestAuthorized(_ context.Context, orderID models.ID) (*domain.Payment, error) {
	for i := len(r.payments) - 1; i >= 0; i-- {
		p := r.payments[i]
		if p.OrderID == orderID && p.Status == domain.PaymentStatusAuthorized {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryPaymentRepository) FindAll(_ context.Context) ([]*domain.Payment, error) {
	return r.payments, nil
}

func TestAuthorizePayment_Approved(t *testing.T) {
	repo := &memoryPaymentRepository{}
	uc := NewAuthorizePayment(repo, simulation.Always(true))

	orderID := models.GenerateUUID()
	view, err := uc.Execute(context.Background(), &AuthorizePaymentCommand{OrderID: orderID.String()})
	require.NoError(t, err)

	assert.Equal(t, orderID.String(), view.OrderID)
	assert.Equal(t, string(domain.PaymentStatusAuthorized), view.Status)
	require.Len(t, repo.payments, 1)
}

func TestAuthorizePayment_Declined(t *testing.T) {
	repo := &memoryPaymentRepository{}
	uc := NewAuthorizePayment(repo, simulation.Always(false))

	view, err := uc.Execute(context.Background(), &AuthorizePaymentCommand{OrderID: models.GenerateUUID().String()})
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrPaymentDeclined)

	// Declined authorizations leave no record behind.
	assert.Empty(t, repo.payments)
}

func TestAuthorizePayment_InvalidOrderID(t *testing.T) {
	uc := NewAuthorizePayment(&memoryPaymentRepository{}, simulation.Always(true))

	view, err := uc.Execute(context.Background(), &AuthorizePaymentCommand{OrderID: "not-a-uuid"})
	assert.Nil(t, view)
	assert.Error(t, err)
}

func TestRefundPayment(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("refunds latest authorized payment", func(t *testing.T) {
		repo := &memoryPaymentRepository{}
		authorize := NewAuthorizePayment(repo, simulation.Always(true))
		_, err := authorize.Execute(context.Background(), &AuthorizePaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		uc := NewRefundPayment(repo)
		response, err := uc.Execute(context.Background(), &RefundPaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		require.NotNil(t, response.Payment)
		assert.Equal(t, string(domain.PaymentStatusRefunded), response.Payment.Status)
		assert.Equal(t, "payment refunded", response.Message)
		assert.Equal(t, domain.PaymentStatusRefunded, repo.payments[0].Status)
	})

	t.Run("nothing to refund", func(t *testing.T) {
		uc := NewRefundPayment(&memoryPaymentRepository{})

		response, err := uc.Execute(context.Background(), &RefundPaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		assert.Nil(t, response.Payment)
		assert.Equal(t, "nothing to refund", response.Message)
	})

	t.Run("second refund finds nothing", func(t *testing.T) {
		repo := &memoryPaymentRepository{}
		authorize := NewAuthorizePayment(repo, simulation.Always(true))
		_, err := authorize.Execute(context.Background(), &AuthorizePaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		uc := NewRefundPayment(repo)
		_, err = uc.Execute(context.Background(), &RefundPaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		response, err := uc.Execute(context.Background(), &RefundPaymentCommand{OrderID: orderID.String()})
		require.NoError(t, err)
		assert.Equal(t, "nothing to refund", response.Message)
	})
}

func TestPaymentDomain_RefundGuard(t *testing.T) {
	payment := domain.AuthorizePayment(models.GenerateUUID())
	require.NoError(t, payment.Refund())
	assert.Error(t, payment.Refund())
	assert.Equal(t, domain.PaymentStatusRefunded, payment.Status)
}
