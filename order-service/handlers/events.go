package handlers

import (
	"context"
	"log/slog"

	"github.com/draftea/order-system/shared/events"
)

// OrderEventHandlers consumes order lifecycle events from the queue. The
// handler is an audit surface only; saga control flow never depends on it.
type OrderEventHandlers struct {
	logger *slog.Logger
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(logger *slog.Logger) *OrderEventHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderEventHandlers{logger: logger}
}

// Handle implements events.EventHandler
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.OrderCreatedEvent,
		events.OrderPaidEvent,
		events.OrderStockReservedEvent,
		events.OrderShippedEvent:
		h.logger.Info("order lifecycle event",
			"topic", event.Topic,
			"aggregate_id", event.AggregateID,
			"event_id", event.ID,
		)
	case events.OrderFailedEvent, events.SagaStepCompensatedEvent:
		h.logger.Warn("order failure event",
			"topic", event.Topic,
			"aggregate_id", event.AggregateID,
			"event_id", event.ID,
		)
	default:
		// Unknown topics are acked and ignored.
	}
	return nil
}
