package config

import (
	"fmt"

	"github.com/draftea/order-system/shared/simulation"
	"github.com/draftea/order-system/shipping-service/application"
	"github.com/draftea/order-system/shipping-service/handlers"
	"github.com/draftea/order-system/shipping-service/infrastructure"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	ShipmentRepository *infrastructure.PostgresShipmentRepository

	// Use Cases
	CreateShipment *application.CreateShipment
	ListShipments  *application.ListShipments

	// HTTP Handlers
	ShippingHandlers *handlers.ShippingHandlers
}

func BuildDependencies(cfg *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	deps.ShipmentRepository = infrastructure.NewPostgresShipmentRepository(db)

	decider := simulation.NewRandomDecider(cfg.SuccessRate)

	deps.CreateShipment = application.NewCreateShipment(deps.ShipmentRepository, decider)
	deps.ListShipments = application.NewListShipments(deps.ShipmentRepository)

	deps.ShippingHandlers = handlers.NewShippingHandlers(deps.CreateShipment, deps.ListShipments)

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
