package events

// Order lifecycle event types published by the order service.
const (
	OrderCreatedEvent = "order.created"

	OrderPaidEvent          = "order.paid"
	OrderStockReservedEvent = "order.stock_reserved"
	OrderShippedEvent       = "order.shipped"
	OrderFailedEvent        = "order.failed"

	SagaStepCompensatedEvent = "saga.step.compensated"
)
