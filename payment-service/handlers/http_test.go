package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func newTestRouter(decider simulation.Decider) (*chi.Mux, *memoryPaymentRepository) {
	repo := &memoryPaymentRepository{}
	h := NewPaymentHandlers(
		application.NewAuthorizePayment(repo, decider),
		application.NewRefundPayment(repo),
		application.NewListPayments(repo),
	)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router, repo
}

func TestAuthorizePaymentHandler(t *testing.T) {
	orderID := models.GenerateUUID().String()

	t.Run("authorized returns 201", func(t *testing.T) {
		router, _ := newTestRouter(simulation.Always(true))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"order_id":"`+orderID+`"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var view application.PaymentView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, orderID, view.OrderID)
		assert.Equal(t, string(domain.PaymentStatusAuthorized), view.Status)
	})

	t.Run("declined returns 402 with error body", func(t *testing.T) {
		router, _ := newTestRouter(simulation.Always(false))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"order_id":"`+orderID+`"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "payment declined", body["error"])
		assert.Equal(t, orderID, body["order_id"])
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		router, _ := newTestRouter(simulation.Always(true))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader("{not json"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefundPaymentHandler(t *testing.T) {
	orderID := models.GenerateUUID().String()

	t.Run("refund after authorization", func(t *testing.T) {
		router, repo := newTestRouter(simulation.Always(true))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"order_id":"`+orderID+`"}`))
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPost, "/payments/refund", strings.NewReader(`{"order_id":"`+orderID+`"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response application.RefundPaymentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "payment refunded", response.Message)
		assert.Equal(t, domain.PaymentStatusRefunded, repo.payments[0].Status)
	})

	t.Run("nothing to refund still returns 200", func(t *testing.T) {
		router, _ := newTestRouter(simulation.Always(true))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/payments/refund", strings.NewReader(`{"order_id":"`+orderID+`"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response application.RefundPaymentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.Equal(t, "nothing to refund", response.Message)
		assert.Nil(t, response.Payment)
	})
}
