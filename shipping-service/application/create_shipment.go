package application

import (
	"context"
	"time"

	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/draftea/order-system/shipping-service/domain"
	"github.com/pkg/errors"
)

// ErrCarrierUnavailable is returned when the simulated carrier booking fails.
var ErrCarrierUnavailable = errors.New("carrier unavailable")

// CreateShipmentCommand represents the command to create a shipment
type CreateShipmentCommand struct {
	OrderID string `json:"order_id"`
}

// ShipmentView is the external representation of a shipment
type ShipmentView struct {
	ShipmentID string `json:"shipment_id"`
	OrderID    string `json:"order_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func newShipmentView(shipment *domain.Shipment) *ShipmentView {
	return &ShipmentView{
		ShipmentID: shipment.ID.String(),
		OrderID:    shipment.OrderID.String(),
		Status:     string(shipment.Status),
		CreatedAt:  shipment.Timestamps.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  shipment.Timestamps.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateShipment use case
type CreateShipment struct {
	shipmentRepository domain.ShipmentRepository
	decider            simulation.Decider
}

// NewCreateShipment creates a new CreateShipment use case
func NewCreateShipment(shipmentRepository domain.ShipmentRepository, decider simulation.Decider) *CreateShipment {
	return &CreateShipment{
		shipmentRepository: shipmentRepository,
		decider:            decider,
	}
}

// Execute executes the create shipment use case
func (uc *CreateShipment) Execute(ctx context.Context, cmd *CreateShipmentCommand) (*ShipmentView, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	if !uc.decider.Approve() {
		return nil, ErrCarrierUnavailable
	}

	shipment := domain.CreateShipment(orderID)
	if err := uc.shipmentRepository.Save(ctx, shipment); err != nil {
		return nil, errors.Wrap(err, "failed to save shipment")
	}

	return newShipmentView(shipment), nil
}
