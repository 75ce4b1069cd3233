package application

import (
	"context"
	"testing"

	"github.com/draftea/order-system/inventory-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/draftea/order-system/shared/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryReservationRepository keeps reservations in insertion order.
type memoryReservationRepository struct {
	reservations []*domain.Reservation
}

func (r *memoryReservationRepository) Save(_ context.Context, reservation *domain.Reservation) error {
	copied := *reservation
	r.reservations = append(r.reservations, &copied)
	return nil
}

func (r *memoryReservationRepository) Update(_ context.Context, reservation *domain.Reservation) error {
	for i, existing := range r.reservations {
		if existing.ID == reservation.ID {
			copied := *reservation
			r.reservations[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *memoryReservationRepository) FindLatestReserved(_ context.Context, orderID models.ID) (*domain.Reservation, error) {
	for i := len(r.reservations) - 1; i >= 0; i-- {
		res := r.reservations[i]
		if res.OrderID == orderID && res.Status == domain.ReservationStatusReserved {
			copied := *res
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryReservationRepository) FindAll(_ context.Context) ([]*domain.Reservation, error) {
	return r.reservations, nil
}

func TestReserveStock_Approved(t *testing.T) {
	repo := &memoryReservationRepository{}
	uc := NewReserveStock(repo, simulation.Always(true))

	orderID := models.GenerateUUID()
	view, err := uc.Execute(context.Background(), &ReserveStockCommand{OrderID: orderID.String()})
	require.NoError(t, err)

	assert.Equal(t, orderID.String(), view.OrderID)
	assert.Equal(t, string(domain.ReservationStatusReserved), view.Status)
	require.Len(t, repo.reservations, 1)
}

func TestReserveStock_OutOfStock(t *testing.T) {
	repo := &memoryReservationRepository{}
	uc := NewReserveStock(repo, simulation.Always(false))

	view, err := uc.Execute(context.Background(), &ReserveStockCommand{OrderID: models.GenerateUUID().String()})
	assert.Nil(t, view)
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Empty(t, repo.reservations)
}

func TestReserveStock_InvalidOrderID(t *testing.T) {
	uc := NewReserveStock(&memoryReservationRepository{}, simulation.Always(true))

	view, err := uc.Execute(context.Background(), &ReserveStockCommand{OrderID: "not-a-uuid"})
	assert.Nil(t, view)
	assert.Error(t, err)
}

func TestReleaseStock(t *testing.T) {
	orderID := models.GenerateUUID()

	t.Run("releases latest reservation", func(t *testing.T) {
		repo := &memoryReservationRepository{}
		reserve := NewReserveStock(repo, simulation.Always(true))
		_, err := reserve.Execute(context.Background(), &ReserveStockCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		uc := NewReleaseStock(repo)
		response, err := uc.Execute(context.Background(), &ReleaseStockCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		require.NotNil(t, response.Reservation)
		assert.Equal(t, string(domain.ReservationStatusReleased), response.Reservation.Status)
		assert.Equal(t, "reservation released", response.Message)
		assert.Equal(t, domain.ReservationStatusReleased, repo.reservations[0].Status)
	})

	t.Run("nothing to release", func(t *testing.T) {
		uc := NewReleaseStock(&memoryReservationRepository{})

		response, err := uc.Execute(context.Background(), &ReleaseStockCommand{OrderID: orderID.String()})
		require.NoError(t, err)

		assert.Nil(t, response.Reservation)
		assert.Equal(t, "nothing to release", response.Message)
	})
}

func TestReservationDomain_ReleaseGuard(t *testing.T) {
	reservation := domain.ReserveStock(models.GenerateUUID())
	require.NoError(t, reservation.Release())
	assert.Error(t, reservation.Release())
	assert.Equal(t, domain.ReservationStatusReleased, reservation.Status)
}
