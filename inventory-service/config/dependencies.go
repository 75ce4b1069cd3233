package config

import (
	"fmt"

	"github.com/draftea/order-system/inventory-service/application"
	"github.com/draftea/order-system/inventory-service/handlers"
	"github.com/draftea/order-system/inventory-service/infrastructure"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	ReservationRepository *infrastructure.PostgresReservationRepository

	// Use Cases
	ReserveStock     *application.ReserveStock
	ReleaseStock     *application.ReleaseStock
	ListReservations *application.ListReservations

	// HTTP Handlers
	InventoryHandlers *handlers.InventoryHandlers
}

func BuildDependencies(cfg *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	db, err := sqlx.Connect("postgres", cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	deps.ReservationRepository = infrastructure.NewPostgresReservationRepository(db)

	decider := simulation.NewRandomDecider(cfg.SuccessRate)

	deps.ReserveStock = application.NewReserveStock(deps.ReservationRepository, decider)
	deps.ReleaseStock = application.NewReleaseStock(deps.ReservationRepository)
	deps.ListReservations = application.NewListReservations(deps.ReservationRepository)

	deps.InventoryHandlers = handlers.NewInventoryHandlers(deps.ReserveStock, deps.ReleaseStock, deps.ListReservations)

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
