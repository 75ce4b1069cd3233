package infrastructure

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shipping-service/domain"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresShipmentRepository implements ShipmentRepository using PostgreSQL
type PostgresShipmentRepository struct {
	db *sqlx.DB
}

// NewPostgresShipmentRepository creates a new PostgresShipmentRepository
func NewPostgresShipmentRepository(db *sqlx.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{db: db}
}

type postgresShipment struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save inserts a new shipment
func (r *PostgresShipmentRepository) Save(ctx context.Context, shipment *domain.Shipment) error {
	query := `
		INSERT INTO shipments (id, order_id, status, created_at, updated_at)
		VALUES (:id, :order_id, :status, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(shipment))
	if err != nil {
		return errors.Wrap(err, "failed to insert shipment")
	}
	return nil
}

// FindAll returns all shipments, most recently created first
func (r *PostgresShipmentRepository) FindAll(ctx context.Context) ([]*domain.Shipment, error) {
	query := `
		SELECT id, order_id, status, created_at, updated_at
		FROM shipments
		ORDER BY created_at DESC`

	var pgShipments []postgresShipment
	if err := r.db.SelectContext(ctx, &pgShipments, query); err != nil {
		return nil, errors.Wrap(err, "failed to list shipments")
	}

	shipments := make([]*domain.Shipment, 0, len(pgShipments))
	for i := range pgShipments {
		shipments = append(shipments, r.toDomain(&pgShipments[i]))
	}
	return shipments, nil
}

func (r *PostgresShipmentRepository) toPostgres(shipment *domain.Shipment) *postgresShipment {
	return &postgresShipment{
		ID:        shipment.ID.String(),
		OrderID:   shipment.OrderID.String(),
		Status:    string(shipment.Status),
		CreatedAt: shipment.Timestamps.CreatedAt,
		UpdatedAt: shipment.Timestamps.UpdatedAt,
	}
}

func (r *PostgresShipmentRepository) toDomain(pgShipment *postgresShipment) *domain.Shipment {
	return &domain.Shipment{
		ID:      models.ID(pgShipment.ID),
		OrderID: models.ID(pgShipment.OrderID),
		Status:  domain.ShipmentStatus(pgShipment.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pgShipment.CreatedAt,
			UpdatedAt: pgShipment.UpdatedAt,
		},
	}
}
