package domain

import (
	"testing"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	order, err := CreateOrder(models.GenerateUUID(), models.NewMoney(2500, "USD"))
	require.NoError(t, err)
	return order
}

func TestCreateOrder(t *testing.T) {
	customerID := models.GenerateUUID()
	order, err := CreateOrder(customerID, models.NewMoney(2500, "USD"))
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, customerID, order.CustomerID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, 1, order.Version.Value)
	assert.False(t, order.IsTerminal())

	require.Len(t, order.Events(), 1)
	assert.Equal(t, events.OrderCreatedEvent, order.Events()[0].EventType)
}

func TestCreateOrder_RejectsNonPositiveAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{"zero amount", 0},
		{"negative amount", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := CreateOrder(models.GenerateUUID(), models.NewMoney(tt.amount, "USD"))
			assert.Error(t, err)
			assert.Nil(t, order)
		})
	}
}

func TestOrder_HappyPathTransitions(t *testing.T) {
	order := newTestOrder(t)
	order.ClearEvents()

	require.NoError(t, order.MarkPaid())
	assert.Equal(t, OrderStatusPaid, order.Status)

	require.NoError(t, order.MarkStockReserved())
	assert.Equal(t, OrderStatusReserved, order.Status)

	require.NoError(t, order.MarkShipped())
	assert.Equal(t, OrderStatusShipped, order.Status)
	assert.True(t, order.IsTerminal())

	// One version bump and one event per transition.
	assert.Equal(t, 4, order.Version.Value)
	require.Len(t, order.Events(), 3)
	assert.Equal(t, events.OrderPaidEvent, order.Events()[0].EventType)
	assert.Equal(t, events.OrderStockReservedEvent, order.Events()[1].EventType)
	assert.Equal(t, events.OrderShippedEvent, order.Events()[2].EventType)
}

func TestOrder_TransitionGuards(t *testing.T) {
	t.Run("cannot reserve before paid", func(t *testing.T) {
		order := newTestOrder(t)
		assert.Error(t, order.MarkStockReserved())
		assert.Equal(t, OrderStatusPending, order.Status)
	})

	t.Run("cannot ship before reserved", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		assert.Error(t, order.MarkShipped())
		assert.Equal(t, OrderStatusPaid, order.Status)
	})

	t.Run("cannot pay twice", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		assert.Error(t, order.MarkPaid())
	})
}

func TestOrder_FailFromAnyNonTerminalStatus(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(o *Order)
	}{
		{"from pending", func(o *Order) {}},
		{"from paid", func(o *Order) {
			require.NoError(t, o.MarkPaid())
		}},
		{"from reserved", func(o *Order) {
			require.NoError(t, o.MarkPaid())
			require.NoError(t, o.MarkStockReserved())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := newTestOrder(t)
			tt.prepare(order)

			require.NoError(t, order.Fail("saga compensated"))
			assert.Equal(t, OrderStatusFailed, order.Status)
			assert.True(t, order.IsTerminal())
		})
	}
}

func TestOrder_TerminalStatusesAreImmutable(t *testing.T) {
	t.Run("failed order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.Fail("saga compensated"))

		assert.Error(t, order.MarkPaid())
		assert.Error(t, order.Fail("again"))
		assert.Equal(t, OrderStatusFailed, order.Status)
	})

	t.Run("shipped order", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.MarkPaid())
		require.NoError(t, order.MarkStockReserved())
		require.NoError(t, order.MarkShipped())

		assert.Error(t, order.Fail("too late"))
		assert.Equal(t, OrderStatusShipped, order.Status)
	})
}

func TestOrder_ClearEvents(t *testing.T) {
	order := newTestOrder(t)
	require.NotEmpty(t, order.Events())

	order.ClearEvents()
	assert.Empty(t, order.Events())
}
