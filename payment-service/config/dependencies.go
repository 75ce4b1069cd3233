package config

import (
	"fmt"

	"github.com/draftea/order-system/payment-service/application"
	"github.com/draftea/order-system/payment-service/handlers"
	"github.com/draftea/order-system/payment-service/infrastructure"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	PaymentRepository *infrastructure.PostgresPaymentRepository

	// Use Cases
	AuthorizePayment *application.AuthorizePayment
	RefundPayment    *application.RefundPayment
	ListPayments     *application.ListPayments

	// HTTP Handlers
	PaymentHandlers *handlers.PaymentHandlers
}

func BuildDependencies(cfg *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	deps.PaymentRepository = infrastructure.NewPostgresPaymentRepository(db)

	decider := simulation.NewRandomDecider(cfg.SuccessRate)

	deps.AuthorizePayment = application.NewAuthorizePayment(deps.PaymentRepository, decider)
	deps.RefundPayment = application.NewRefundPayment(deps.PaymentRepository)
	deps.ListPayments = application.NewListPayments(deps.PaymentRepository)

	deps.PaymentHandlers = handlers.NewPaymentHandlers(deps.AuthorizePayment, deps.RefundPayment, deps.ListPayments)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
