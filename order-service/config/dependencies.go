package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/draftea/order-system/order-service/application"
	"github.com/draftea/order-system/order-service/handlers"
	"github.com/draftea/order-system/order-service/infrastructure"
	sharedinfra "github.com/draftea/order-system/shared/infrastructure"
	"github.com/draftea/order-system/shared/saga"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	OrderRepository *infrastructure.PostgresOrderRepository

	// Participant clients
	PaymentClient   *infrastructure.HTTPPaymentClient
	InventoryClient *infrastructure.HTTPInventoryClient
	ShippingClient  *infrastructure.HTTPShippingClient

	// Use Cases
	CreateOrder *application.CreateOrder
	GetOrder    *application.GetOrder
	ListOrders  *application.ListOrders

	// HTTP Handlers
	OrderHandlers *handlers.OrderHandlers

	// Event Handlers
	OrderEventHandlers *handlers.OrderEventHandlers

	// Infrastructure
	EventPublisher  *sharedinfra.SNSPublisherAdapter
	EventSubscriber *sharedinfra.SQSSubscriberAdapter
	SagaMetrics     *saga.Metrics
}

func BuildDependencies(cfg *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(cfg.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	eventSubscriber, err := sharedinfra.NewSQSSubscriberAdapter(cfg.AWS.SQSQueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQS subscriber: %w", err)
	}
	deps.EventSubscriber = eventSubscriber

	deps.OrderRepository = infrastructure.NewPostgresOrderRepository(db)

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Participants.TimeoutSeconds) * time.Second,
	}
	deps.PaymentClient = infrastructure.NewPaymentClient(cfg.Participants.PaymentURL, httpClient)
	deps.InventoryClient = infrastructure.NewInventoryClient(cfg.Participants.InventoryURL, httpClient)
	deps.ShippingClient = infrastructure.NewShippingClient(cfg.Participants.ShippingURL, httpClient)

	deps.SagaMetrics = saga.NewMetrics(prometheus.DefaultRegisterer)

	deps.CreateOrder = application.NewCreateOrder(
		deps.OrderRepository,
		eventPublisher,
		deps.PaymentClient,
		deps.InventoryClient,
		deps.ShippingClient,
		deps.SagaMetrics,
		slog.Default(),
	)
	deps.GetOrder = application.NewGetOrder(deps.OrderRepository)
	deps.ListOrders = application.NewListOrders(deps.OrderRepository)

	deps.OrderHandlers = handlers.NewOrderHandlers(deps.CreateOrder, deps.GetOrder, deps.ListOrders)
	deps.OrderEventHandlers = handlers.NewOrderEventHandlers(slog.Default())

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.EventSubscriber != nil {
		if err := d.EventSubscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event subscriber: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}
	return nil
}
