package application

import (
	"context"
	"log/slog"

	"github.com/draftea/order-system/order-service/domain"
	"github.com/draftea/order-system/shared/events"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/saga"
	"github.com/pkg/errors"
)

// CreateOrderCommand represents the command to create and process an order
type CreateOrderCommand struct {
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// CreateOrderResponse is the saga execution envelope returned to the caller.
// On failure, FailedStep names the forward step that triggered compensation
// and Error carries that step's raw outcome.
type CreateOrderResponse struct {
	Success    bool              `json:"success"`
	Order      *OrderView        `json:"order"`
	Message    string            `json:"message"`
	FailedStep string            `json:"failed_step,omitempty"`
	Error      *saga.StepOutcome `json:"error,omitempty"`
}

// CreateOrder use case: creates the order in pending and drives the
// order-processing saga to a terminal state, synchronously.
type CreateOrder struct {
	orderRepository domain.OrderRepository
	eventPublisher  events.Publisher
	payment         PaymentClient
	inventory       InventoryClient
	shipping        ShippingClient
	sagaMetrics     *saga.Metrics
	logger          *slog.Logger
}

// NewCreateOrder creates a new CreateOrder use case
func NewCreateOrder(
	orderRepository domain.OrderRepository,
	eventPublisher events.Publisher,
	payment PaymentClient,
	inventory InventoryClient,
	shipping ShippingClient,
	sagaMetrics *saga.Metrics,
	logger *slog.Logger,
) *CreateOrder {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateOrder{
		orderRepository: orderRepository,
		eventPublisher:  eventPublisher,
		payment:         payment,
		inventory:       inventory,
		shipping:        shipping,
		sagaMetrics:     sagaMetrics,
		logger:          logger,
	}
}

// Execute executes the create order use case
func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (*CreateOrderResponse, error) {
	if err := uc.validateCommand(cmd); err != nil {
		return nil, errors.Wrap(err, "invalid command")
	}

	customerID, err := models.NewID(cmd.CustomerID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid customer ID")
	}

	order, err := domain.CreateOrder(customerID, models.NewMoney(cmd.Amount, cmd.Currency))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		return nil, errors.Wrap(err, "failed to save order")
	}
	uc.publish(ctx, order)

	orchestrator := saga.NewOrchestrator(
		order.ID,
		uc.buildSteps(order.ID),
		&orderTransitionRecorder{order: order, repository: uc.orderRepository, publish: uc.publish},
		saga.WithLogger(uc.logger),
		saga.WithMetrics(uc.sagaMetrics),
	)

	result, err := orchestrator.Execute(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "saga execution")
	}

	if !result.Success {
		uc.publishCompensations(ctx, order, orchestrator.Ledger())
		return &CreateOrderResponse{
			Success:    false,
			Order:      newOrderView(order),
			Message:    "order processing failed, compensations applied",
			FailedStep: result.FailedStep,
			Error:      result.Error,
		}, nil
	}

	return &CreateOrderResponse{
		Success: true,
		Order:   newOrderView(order),
		Message: "order processed",
	}, nil
}

// buildSteps binds the participant clients to one order. Step order is the
// saga sequence; compensations run in the reverse of it.
func (uc *CreateOrder) buildSteps(orderID models.ID) []saga.Step {
	return []saga.Step{
		{
			Name: StepPayment,
			Invoke: func(ctx context.Context) saga.StepOutcome {
				return uc.payment.Authorize(ctx, orderID)
			},
			Compensate: func(ctx context.Context) saga.StepOutcome {
				return uc.payment.Refund(ctx, orderID)
			},
		},
		{
			Name: StepInventory,
			Invoke: func(ctx context.Context) saga.StepOutcome {
				return uc.inventory.Reserve(ctx, orderID)
			},
			Compensate: func(ctx context.Context) saga.StepOutcome {
				return uc.inventory.Release(ctx, orderID)
			},
		},
		{
			Name: StepShipping,
			Invoke: func(ctx context.Context) saga.StepOutcome {
				return uc.shipping.Ship(ctx, orderID)
			},
			// Shipment cannot be undone; it is the last step by design.
		},
	}
}

// publishCompensations emits one audit event per step that was undone. The
// completed-steps ledger only ever holds compensable steps on failure: the
// non-compensable shipping step completing means the saga succeeded.
func (uc *CreateOrder) publishCompensations(ctx context.Context, order *domain.Order, compensatedSteps []string) {
	for _, step := range compensatedSteps {
		event := events.NewEvent(order.ID, events.SagaStepCompensatedEvent, SagaStepCompensatedData{
			OrderID: order.ID,
			Step:    step,
		})
		if err := uc.eventPublisher.Publish(ctx, event); err != nil {
			uc.logger.Error("failed to publish compensation event", "order_id", order.ID, "step", step, "error", err)
		}
	}
}

// SagaStepCompensatedData is the payload of a saga.step.compensated event.
type SagaStepCompensatedData struct {
	OrderID models.ID `json:"order_id"`
	Step    string    `json:"step"`
}

// publish emits accumulated domain events. Event delivery is observational
// only and must never alter saga control flow.
func (uc *CreateOrder) publish(ctx context.Context, order *domain.Order) {
	if len(order.Events()) == 0 {
		return
	}
	if err := uc.eventPublisher.Publish(ctx, order.Events()...); err != nil {
		uc.logger.Error("failed to publish order events", "order_id", order.ID, "error", err)
	}
	order.ClearEvents()
}

func (uc *CreateOrder) validateCommand(cmd *CreateOrderCommand) error {
	if cmd.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if cmd.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if cmd.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// orderTransitionRecorder moves the order through its status lifecycle on
// behalf of the orchestrator.
type orderTransitionRecorder struct {
	order      *domain.Order
	repository domain.OrderRepository
	publish    func(ctx context.Context, order *domain.Order)
}

func (r *orderTransitionRecorder) StepCompleted(ctx context.Context, stepName string) error {
	var err error
	switch stepName {
	case StepPayment:
		err = r.order.MarkPaid()
	case StepInventory:
		err = r.order.MarkStockReserved()
	case StepShipping:
		err = r.order.MarkShipped()
	default:
		err = errors.Errorf("unknown saga step %q", stepName)
	}
	if err != nil {
		return err
	}

	if err := r.repository.Save(ctx, r.order); err != nil {
		return errors.Wrapf(err, "failed to save order after %s", stepName)
	}
	r.publish(ctx, r.order)
	return nil
}

func (r *orderTransitionRecorder) SagaFailed(ctx context.Context) error {
	if err := r.order.Fail("saga compensated"); err != nil {
		return err
	}
	if err := r.repository.Save(ctx, r.order); err != nil {
		return errors.Wrap(err, "failed to save failed order")
	}
	r.publish(ctx, r.order)
	return nil
}
