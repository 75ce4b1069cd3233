package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/draftea/order-system/order-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryOrderRepository keeps orders in memory for use case tests.
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

// capturingPublisher collects published event types.
type capturingPublisher struct {
	eventTypes []string
}

func (p *capturingPublisher) Publish(_ context.Context, evts ...*events.Event) error {
	for _, evt := range evts {
		p.eventTypes = append(p.eventTypes, evt.EventType)
	}
	return nil
}

// stubParticipants implements all three participant clients with canned
// outcomes and records the calls made against it.
type stubParticipants struct {
	authorizeOutcome saga.StepOutcome
	reserveOutcome   saga.StepOutcome
	shipOutcome      saga.StepOutcome

	calls []string
}

func okParticipants() *stubParticipants {
	ok := saga.Succeed(json.RawMessage(`{}`))
	return &stubParticipants{authorizeOutcome: ok, reserveOutcome: ok, shipOutcome: ok}
}

func (s *stubParticipants) Authorize(_ context.Context, _ models.ID) saga.StepOutcome {
	s.calls = append(s.calls, "authorize")
	return s.authorizeOutcome
}

func (s *stubParticipants) Refund(_ context.Context, _ models.ID) saga.StepOutcome {
	s.calls = append(s.calls, "refund")
	return saga.Succeed(nil)
}

func (s *stubParticipants) Reserve(_ context.Context, _ models.ID) saga.StepOutcome {
	s.calls = append(s.calls, "reserve")
	return s.reserveOutcome
}

func (s *stubParticipants) Release(_ context.Context, _ models.ID) saga.StepOutcome {
	s.calls = append(s.calls, "release")
	return saga.Succeed(nil)
}

func (s *stubParticipants) Ship(_ context.Context, _ models.ID) saga.StepOutcome {
	s.calls = append(s.calls, "ship")
	return s.shipOutcome
}

func validCommand() *CreateOrderCommand {
	return &CreateOrderCommand{
		CustomerID: models.GenerateUUID().String(),
		Amount:     2500,
		Currency:   "USD",
	}
}

func newCreateOrderFixture(participants *stubParticipants) (*CreateOrder, *memoryOrderRepository, *capturingPublisher) {
	repo := newMemoryOrderRepository()
	publisher := &capturingPublisher{}
	uc := NewCreateOrder(repo, publisher, participants, participants, participants, nil, nil)
	return uc, repo, publisher
}

func TestCreateOrder_HappyPath(t *testing.T) {
	participants := okParticipants()
	uc, repo, publisher := newCreateOrderFixture(participants)

	response, err := uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)

	assert.True(t, response.Success)
	assert.Equal(t, string(domain.OrderStatusShipped), response.Order.Status)
	assert.Empty(t, response.FailedStep)
	assert.Nil(t, response.Error)

	assert.Equal(t, []string{"authorize", "reserve", "ship"}, participants.calls)

	orderID, err := models.NewID(response.Order.OrderID)
	require.NoError(t, err)
	stored, err := repo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.OrderStatusShipped, stored.Status)

	assert.Equal(t, []string{
		events.OrderCreatedEvent,
		events.OrderPaidEvent,
		events.OrderStockReservedEvent,
		events.OrderShippedEvent,
	}, publisher.eventTypes)
}

func TestCreateOrder_PaymentDeclined(t *testing.T) {
	participants := okParticipants()
	participants.authorizeOutcome = saga.Fail(json.RawMessage(`{"error":"payment declined"}`), "payment declined")
	uc, repo, publisher := newCreateOrderFixture(participants)

	response, err := uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, StepPayment, response.FailedStep)
	require.NotNil(t, response.Error)
	assert.Equal(t, "payment declined", response.Error.Error)
	assert.Equal(t, string(domain.OrderStatusFailed), response.Order.Status)

	// Nothing succeeded, so nothing is compensated and later steps never run.
	assert.Equal(t, []string{"authorize"}, participants.calls)

	orderID, err := models.NewID(response.Order.OrderID)
	require.NoError(t, err)
	stored, err := repo.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusFailed, stored.Status)

	assert.Equal(t, []string{events.OrderCreatedEvent, events.OrderFailedEvent}, publisher.eventTypes)
}

func TestCreateOrder_InventoryDeclined_RefundsPayment(t *testing.T) {
	participants := okParticipants()
	participants.reserveOutcome = saga.Fail(json.RawMessage(`{"error":"out of stock"}`), "out of stock")
	uc, _, publisher := newCreateOrderFixture(participants)

	response, err := uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, StepInventory, response.FailedStep)
	assert.Equal(t, string(domain.OrderStatusFailed), response.Order.Status)

	// Only the payment is undone, exactly once.
	assert.Equal(t, []string{"authorize", "reserve", "refund"}, participants.calls)

	assert.Equal(t, []string{
		events.OrderCreatedEvent,
		events.OrderPaidEvent,
		events.OrderFailedEvent,
		events.SagaStepCompensatedEvent,
	}, publisher.eventTypes)
}

func TestCreateOrder_ShippingDeclined_ReleasesThenRefunds(t *testing.T) {
	participants := okParticipants()
	participants.shipOutcome = saga.Fail(json.RawMessage(`{"error":"carrier unavailable"}`), "carrier unavailable")
	uc, _, publisher := newCreateOrderFixture(participants)

	response, err := uc.Execute(context.Background(), validCommand())
	require.NoError(t, err)

	assert.False(t, response.Success)
	assert.Equal(t, StepShipping, response.FailedStep)
	assert.Equal(t, string(domain.OrderStatusFailed), response.Order.Status)

	// Compensation runs in strict reverse order of the completed steps.
	assert.Equal(t, []string{"authorize", "reserve", "ship", "release", "refund"}, participants.calls)

	assert.Equal(t, []string{
		events.OrderCreatedEvent,
		events.OrderPaidEvent,
		events.OrderStockReservedEvent,
		events.OrderFailedEvent,
		events.SagaStepCompensatedEvent,
		events.SagaStepCompensatedEvent,
	}, publisher.eventTypes)
}

func TestCreateOrder_ValidatesCommand(t *testing.T) {
	tests := []struct {
		name string
		cmd  *CreateOrderCommand
	}{
		{"missing customer ID", &CreateOrderCommand{Amount: 2500, Currency: "USD"}},
		{"malformed customer ID", &CreateOrderCommand{CustomerID: "not-a-uuid", Amount: 2500, Currency: "USD"}},
		{"zero amount", &CreateOrderCommand{CustomerID: models.GenerateUUID().String(), Currency: "USD"}},
		{"negative amount", &CreateOrderCommand{CustomerID: models.GenerateUUID().String(), Amount: -1, Currency: "USD"}},
		{"missing currency", &CreateOrderCommand{CustomerID: models.GenerateUUID().String(), Amount: 2500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			participants := okParticipants()
			uc, _, _ := newCreateOrderFixture(participants)

			response, err := uc.Execute(context.Background(), tt.cmd)
			assert.Error(t, err)
			assert.Nil(t, response)

			// Invalid commands never reach the participants.
			assert.Empty(t, participants.calls)
		})
	}
}

func TestGetOrder(t *testing.T) {
	repo := newMemoryOrderRepository()
	order, err := domain.CreateOrder(models.GenerateUUID(), models.NewMoney(2500, "USD"))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), order))

	uc := NewGetOrder(repo)

	t.Run("found", func(t *testing.T) {
		view, err := uc.Execute(context.Background(), &GetOrderQuery{OrderID: order.ID.String()})
		require.NoError(t, err)
		assert.Equal(t, order.ID.String(), view.OrderID)
		assert.Equal(t, string(domain.OrderStatusPending), view.Status)
	})

	t.Run("not found", func(t *testing.T) {
		view, err := uc.Execute(context.Background(), &GetOrderQuery{OrderID: models.GenerateUUID().String()})
		assert.Nil(t, view)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("malformed ID", func(t *testing.T) {
		view, err := uc.Execute(context.Background(), &GetOrderQuery{OrderID: "not-a-uuid"})
		assert.Nil(t, view)
		assert.Error(t, err)
	})
}
