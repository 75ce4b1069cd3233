package domain

import (
	"context"

	"github.com/draftea/order-system/shared/models"
)

// ShipmentStatus represents the status of a shipment. Shipments cannot be
// undone, so shipped is the only status.
type ShipmentStatus string

const (
	ShipmentStatusShipped ShipmentStatus = "shipped"
)

// Shipment is the role record kept per shipment, keyed by the external order
// identifier.
type Shipment struct {
	ID         models.ID
	OrderID    models.ID
	Status     ShipmentStatus
	Timestamps models.Timestamps
}

// CreateShipment creates a shipment for the order
func CreateShipment(orderID models.ID) *Shipment {
	return &Shipment{
		ID:         models.GenerateUUID(),
		OrderID:    orderID,
		Status:     ShipmentStatusShipped,
		Timestamps: models.NewTimestamps(),
	}
}

// ShipmentRepository interface
type ShipmentRepository interface {
	Save(ctx context.Context, shipment *Shipment) error
	FindAll(ctx context.Context) ([]*Shipment, error)
}
