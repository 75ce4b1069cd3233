package application

import (
	"context"

	"github.com/draftea/order-system/inventory-service/domain"
	"github.com/pkg/errors"
)

// ListReservationsResponse represents the response for listing reservations
type ListReservationsResponse struct {
	Reservations []*ReservationView `json:"reservations"`
}

// ListReservations use case, newest reservations first
type ListReservations struct {
	reservationRepository domain.ReservationRepository
}

// NewListReservations creates a new ListReservations use case
func NewListReservations(reservationRepository domain.ReservationRepository) *ListReservations {
	return &ListReservations{reservationRepository: reservationRepository}
}

// Execute executes the list reservations use case
func (uc *ListReservations) Execute(ctx context.Context) (*ListReservationsResponse, error) {
	reservations, err := uc.reservationRepository.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reservations")
	}

	views := make([]*ReservationView, 0, len(reservations))
	for _, reservation := range reservations {
		views = append(views, newReservationView(reservation))
	}

	return &ListReservationsResponse{Reservations: views}, nil
}
