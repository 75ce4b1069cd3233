package application

import (
	"context"

	"github.com/draftea/order-system/inventory-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// ReleaseStockCommand represents the command to release a reservation
type ReleaseStockCommand struct {
	OrderID string `json:"order_id"`
}

// ReleaseStockResponse represents the release result. Reservation is nil when
// there was nothing to release; the call still succeeds so compensation is
// always safe to invoke.
type ReleaseStockResponse struct {
	Reservation *ReservationView `json:"reservation,omitempty"`
	Message     string           `json:"message"`
}

// ReleaseStock use case: compensating action for stock reservation
type ReleaseStock struct {
	reservationRepository domain.ReservationRepository
}

// NewReleaseStock creates a new ReleaseStock use case
func NewReleaseStock(reservationRepository domain.ReservationRepository) *ReleaseStock {
	return &ReleaseStock{reservationRepository: reservationRepository}
}

// Execute releases the most recent active reservation for the order
func (uc *ReleaseStock) Execute(ctx context.Context, cmd *ReleaseStockCommand) (*ReleaseStockResponse, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	reservation, err := uc.reservationRepository.FindLatestReserved(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find reservation")
	}

	if reservation == nil {
		return &ReleaseStockResponse{Message: "nothing to release"}, nil
	}

	if err := reservation.Release(); err != nil {
		return nil, errors.Wrap(err, "failed to release reservation")
	}

	if err := uc.reservationRepository.Update(ctx, reservation); err != nil {
		return nil, errors.Wrap(err, "failed to update reservation")
	}

	return &ReleaseStockResponse{
		Reservation: newReservationView(reservation),
		Message:     "reservation released",
	}, nil
}
