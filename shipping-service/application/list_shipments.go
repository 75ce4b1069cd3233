package application

import (
	"context"

	"github.com/draftea/order-system/shipping-service/domain"
	"github.com/pkg/errors"
)

// ListShipmentsResponse represents the response for listing shipments
type ListShipmentsResponse struct {
	Shipments []*ShipmentView `json:"shipments"`
}

// ListShipments use case, newest shipments first
type ListShipments struct {
	shipmentRepository domain.ShipmentRepository
}

// NewListShipments creates a new ListShipments use case
func NewListShipments(shipmentRepository domain.ShipmentRepository) *ListShipments {
	return &ListShipments{shipmentRepository: shipmentRepository}
}

// Execute executes the list shipments use case
func (uc *ListShipments) Execute(ctx context.Context) (*ListShipmentsResponse, error) {
	shipments, err := uc.shipmentRepository.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shipments")
	}

	views := make([]*ShipmentView, 0, len(shipments))
	for _, shipment := range shipments {
		views = append(views, newShipmentView(shipment))
	}

	return &ListShipmentsResponse{Shipments: views}, nil
}
