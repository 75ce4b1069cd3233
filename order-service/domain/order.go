package domain

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// OrderStatus represents the status of an order. Along the happy path the
// status moves pending -> paid -> reserved -> shipped; failed is a terminal
// overwrite reachable from any non-terminal status.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusReserved OrderStatus = "reserved"
	OrderStatusShipped  OrderStatus = "shipped"
	OrderStatusFailed   OrderStatus = "failed"
)

// Order aggregate root. Its status is the externally observable proxy for
// saga progress and is mutated exclusively by the one saga execution that
// owns the order.
type Order struct {
	ID         models.ID
	CustomerID models.ID
	Amount     models.Money
	Status     OrderStatus
	Timestamps models.Timestamps
	Version    models.Version

	events []*events.Event
}

// CreateOrder factory method
func CreateOrder(customerID models.ID, amount models.Money) (*Order, error) {
	if !amount.IsPositive() {
		return nil, errors.New("amount must be positive")
	}

	order := &Order{
		ID:         models.GenerateUUID(),
		CustomerID: customerID,
		Amount:     amount,
		Status:     OrderStatusPending,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}

	order.recordEvent(events.NewEvent(order.ID, events.OrderCreatedEvent, OrderCreatedData{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Amount:     order.Amount,
	}))

	return order, nil
}

// MarkPaid records the payment step as completed
func (o *Order) MarkPaid() error {
	if o.Status != OrderStatusPending {
		return errors.Errorf("order can only be marked paid from pending, was %s", o.Status)
	}
	o.transition(OrderStatusPaid, events.OrderPaidEvent)
	return nil
}

// MarkStockReserved records the inventory step as completed
func (o *Order) MarkStockReserved() error {
	if o.Status != OrderStatusPaid {
		return errors.Errorf("order can only be marked reserved from paid, was %s", o.Status)
	}
	o.transition(OrderStatusReserved, events.OrderStockReservedEvent)
	return nil
}

// MarkShipped records the shipping step as completed; shipped is terminal
func (o *Order) MarkShipped() error {
	if o.Status != OrderStatusReserved {
		return errors.Errorf("order can only be marked shipped from reserved, was %s", o.Status)
	}
	o.transition(OrderStatusShipped, events.OrderShippedEvent)
	return nil
}

// Fail marks the order as failed. Failed is terminal and reachable from any
// non-terminal status; terminal orders are immutable.
func (o *Order) Fail(reason string) error {
	if o.IsTerminal() {
		return errors.Errorf("cannot fail a %s order", o.Status)
	}

	o.Status = OrderStatusFailed
	o.Timestamps = o.Timestamps.Update()
	o.Version = o.Version.Update()

	o.recordEvent(events.NewEvent(o.ID, events.OrderFailedEvent, OrderFailedData{
		OrderID:  o.ID,
		Reason:   reason,
		FailedAt: time.Now(),
	}))

	return nil
}

// IsTerminal reports whether the order admits no further transitions
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusShipped || o.Status == OrderStatusFailed
}

func (o *Order) transition(status OrderStatus, eventType string) {
	o.Status = status
	o.Timestamps = o.Timestamps.Update()
	o.Version = o.Version.Update()

	o.recordEvent(events.NewEvent(o.ID, eventType, OrderStatusChangedData{
		OrderID: o.ID,
		Status:  status,
	}))
}

// Events returns domain events
func (o *Order) Events() []*events.Event {
	return o.events
}

// ClearEvents clears domain events
func (o *Order) ClearEvents() {
	o.events = make([]*events.Event, 0)
}

func (o *Order) recordEvent(event *events.Event) {
	o.events = append(o.events, event)
}

// Event Data Structures
type OrderCreatedData struct {
	OrderID    models.ID    `json:"order_id"`
	CustomerID models.ID    `json:"customer_id"`
	Amount     models.Money `json:"amount"`
}

type OrderStatusChangedData struct {
	OrderID models.ID   `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

type OrderFailedData struct {
	OrderID  models.ID `json:"order_id"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failed_at"`
}

// OrderRepository interface
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
}
