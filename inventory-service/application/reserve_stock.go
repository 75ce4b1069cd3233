package application

import (
	"context"
	"time"

	"github.com/draftea/order-system/inventory-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/pkg/errors"
)

// ErrOutOfStock is returned when the simulated stock check fails.
var ErrOutOfStock = errors.New("out of stock")

// ReserveStockCommand represents the command to reserve stock
type ReserveStockCommand struct {
	OrderID string `json:"order_id"`
}

// ReservationView is the external representation of a reservation
type ReservationView struct {
	ReservationID string `json:"reservation_id"`
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func newReservationView(reservation *domain.Reservation) *ReservationView {
	return &ReservationView{
		ReservationID: reservation.ID.String(),
		OrderID:       reservation.OrderID.String(),
		Status:        string(reservation.Status),
		CreatedAt:     reservation.Timestamps.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     reservation.Timestamps.UpdatedAt.Format(time.RFC3339),
	}
}

// ReserveStock use case
type ReserveStock struct {
	reservationRepository domain.ReservationRepository
	decider               simulation.Decider
}

// NewReserveStock creates a new ReserveStock use case
func NewReserveStock(reservationRepository domain.ReservationRepository, decider simulation.Decider) *ReserveStock {
	return &ReserveStock{
		reservationRepository: reservationRepository,
		decider:               decider,
	}
}

// Execute executes the reserve stock use case
func (uc *ReserveStock) Execute(ctx context.Context, cmd *ReserveStockCommand) (*ReservationView, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	if !uc.decider.Approve() {
		return nil, ErrOutOfStock
	}

	reservation := domain.ReserveStock(orderID)
	if err := uc.reservationRepository.Save(ctx, reservation); err != nil {
		return nil, errors.Wrap(err, "failed to save reservation")
	}

	return newReservationView(reservation), nil
}
