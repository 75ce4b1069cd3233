package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftea/order-system/order-service/application"
	"github.com/draftea/order-system/order-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryOrderRepository struct {
	orders map[models.ID]*domain.Order
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{orders: make(map[models.ID]*domain.Order)}
}

func (r *memoryOrderRepository) Save(_ context.Context, order *domain.Order) error {
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *memoryOrderRepository) FindByID(_ context.Context, id models.ID) (*domain.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *memoryOrderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ ...*events.Event) error { return nil }

// fixedParticipants answers every forward call with the same outcome and every
// compensating call with success.
type fixedParticipants struct {
	outcome saga.StepOutcome
}

func (p fixedParticipants) Authorize(_ context.Context, _ models.ID) saga.StepOutcome {
	return p.outcome
}
func (p fixedParticipants) Refund(_ context.Context, _ models.ID) saga.StepOutcome {
	return saga.Succeed(nil)
}
func (p fixedParticipants) Reserve(_ context.Context, _ models.ID) saga.StepOutcome {
	return p.outcome
}
func (p fixedParticipants) Release(_ context.Context, _ models.ID) saga.StepOutcome {
	return saga.Succeed(nil)
}
func (p fixedParticipants) Ship(_ context.Context, _ models.ID) saga.StepOutcome {
	return p.outcome
}

func newTestRouter(repo *memoryOrderRepository, outcome saga.StepOutcome) *chi.Mux {
	participants := fixedParticipants{outcome: outcome}
	createOrder := application.NewCreateOrder(repo, noopPublisher{}, participants, participants, participants, nil, nil)
	getOrder := application.NewGetOrder(repo)
	listOrders := application.NewListOrders(repo)

	h := NewOrderHandlers(createOrder, getOrder, listOrders)
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func createOrderBody() string {
	return `{"customer_id":"` + models.GenerateUUID().String() + `","amount":2500,"currency":"USD"}`
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("processed order returns 201", func(t *testing.T) {
		router := newTestRouter(newMemoryOrderRepository(), saga.Succeed(json.RawMessage(`{}`)))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody()))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var response application.CreateOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "shipped", response.Order.Status)
	})

	t.Run("failed saga returns 422 with failure envelope", func(t *testing.T) {
		router := newTestRouter(newMemoryOrderRepository(), saga.Fail(json.RawMessage(`{"error":"payment declined"}`), "payment declined"))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(createOrderBody()))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var response application.CreateOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
		assert.False(t, response.Success)
		assert.Equal(t, "payment", response.FailedStep)
		require.NotNil(t, response.Error)
		assert.Equal(t, "payment declined", response.Error.Error)
		assert.Equal(t, "failed", response.Order.Status)
	})

	t.Run("invalid body returns 400", func(t *testing.T) {
		router := newTestRouter(newMemoryOrderRepository(), saga.Succeed(nil))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	repo := newMemoryOrderRepository()
	order, err := domain.CreateOrder(models.GenerateUUID(), models.NewMoney(2500, "USD"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), order))

	router := newTestRouter(repo, saga.Succeed(nil))

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+order.ID.String(), nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var view application.OrderView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, order.ID.String(), view.OrderID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/orders/"+models.GenerateUUID().String(), nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	repo := newMemoryOrderRepository()
	order, err := domain.CreateOrder(models.GenerateUUID(), models.NewMoney(2500, "USD"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), order))

	router := newTestRouter(repo, saga.Succeed(nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response application.ListOrdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Len(t, response.Orders, 1)
}
