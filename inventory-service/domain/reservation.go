package domain

import (
	"context"

	"github.com/draftea/order-system/shared/models"
	"github.com/pkg/errors"
)

// ReservationStatus represents the status of a stock reservation. A
// reservation only ever moves from reserved to released, never back.
type ReservationStatus string

const (
	ReservationStatusReserved ReservationStatus = "reserved"
	ReservationStatusReleased ReservationStatus = "released"
)

// Reservation is the role record kept per stock reservation, keyed by the
// external order identifier.
type Reservation struct {
	ID         models.ID
	OrderID    models.ID
	Status     ReservationStatus
	Timestamps models.Timestamps
}

// ReserveStock creates a reservation for the order
func ReserveStock(orderID models.ID) *Reservation {
	return &Reservation{
		ID:         models.GenerateUUID(),
		OrderID:    orderID,
		Status:     ReservationStatusReserved,
		Timestamps: models.NewTimestamps(),
	}
}

// Release flips the reservation to released
func (r *Reservation) Release() error {
	if r.Status != ReservationStatusReserved {
		return errors.Errorf("reservation can only be released from reserved, was %s", r.Status)
	}
	r.Status = ReservationStatusReleased
	r.Timestamps = r.Timestamps.Update()
	return nil
}

// ReservationRepository interface
type ReservationRepository interface {
	Save(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
	// FindLatestReserved returns the most recent active reservation for the
	// order, or nil when none exists.
	FindLatestReserved(ctx context.Context, orderID models.ID) (*Reservation, error)
	FindAll(ctx context.Context) ([]*Reservation, error)
}
