package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/inventory-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresReservationRepository implements ReservationRepository using PostgreSQL
type PostgresReservationRepository struct {
	db *sqlx.DB
}

// NewPostgresReservationRepository creates a new PostgresReservationRepository
func NewPostgresReservationRepository(db *sqlx.DB) *PostgresReservationRepository {
	return &PostgresReservationRepository{db: db}
}

type postgresReservation struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save inserts a new reservation
func (r *PostgresReservationRepository) Save(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, order_id, status, created_at, updated_at)
		VALUES (:id, :order_id, :status, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(reservation))
	if err != nil {
		return errors.Wrap(err, "failed to insert reservation")
	}
	return nil
}

// Update persists a status flip
func (r *PostgresReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = :status, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(reservation))
	if err != nil {
		return errors.Wrap(err, "failed to update reservation")
	}
	return nil
}

// FindLatestReserved returns the most recent active reservation for the
// order, or nil when none exists
func (r *PostgresReservationRepository) FindLatestReserved(ctx context.Context, orderID models.ID) (*domain.Reservation, error) {
	query := `
		SELECT id, order_id, status, created_at, updated_at
		FROM reservations
		WHERE order_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var pgReservation postgresReservation
	err := r.db.GetContext(ctx, &pgReservation, query, orderID.String(), string(domain.ReservationStatusReserved))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find reservation")
	}

	return r.toDomain(&pgReservation), nil
}

// FindAll returns all reservations, most recently created first
func (r *PostgresReservationRepository) FindAll(ctx context.Context) ([]*domain.Reservation, error) {
	query := `
		SELECT id, order_id, status, created_at, updated_at
		FROM reservations
		ORDER BY created_at DESC`

	var pgReservations []postgresReservation
	if err := r.db.SelectContext(ctx, &pgReservations, query); err != nil {
		return nil, errors.Wrap(err, "failed to list reservations")
	}

	reservations := make([]*domain.Reservation, 0, len(pgReservations))
	for i := range pgReservations {
		reservations = append(reservations, r.toDomain(&pgReservations[i]))
	}
	return reservations, nil
}

func (r *PostgresReservationRepository) toPostgres(reservation *domain.Reservation) *postgresReservation {
	return &postgresReservation{
		ID:        reservation.ID.String(),
		OrderID:   reservation.OrderID.String(),
		Status:    string(reservation.Status),
		CreatedAt: reservation.Timestamps.CreatedAt,
		UpdatedAt: reservation.Timestamps.UpdatedAt,
	}
}

func (r *PostgresReservationRepository) toDomain(pgReservation *postgresReservation) *domain.Reservation {
	return &domain.Reservation{
		ID:      models.ID(pgReservation.ID),
		OrderID: models.ID(pgReservation.OrderID),
		Status:  domain.ReservationStatus(pgReservation.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pgReservation.CreatedAt,
			UpdatedAt: pgReservation.UpdatedAt,
		},
	}
}
