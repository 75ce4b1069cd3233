package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-system/payment-service/domain"
	"github.com/draftea/order-system/shared/models"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *sqlx.DB
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(db *sqlx.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

type postgresPayment struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"order_id"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Save inserts a new payment
func (r *PostgresPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, status, created_at, updated_at)
		VALUES (:id, :order_id, :status, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(payment))
	if err != nil {
		return errors.Wrap(err, "failed to insert payment")
	}
	return nil
}

// Update persists a status flip
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = :status, updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, r.toPostgres(payment))
	if err != nil {
		return errors.Wrap(err, "failed to update payment")
	}
	return nil
}

// FindLatestAuthorized returns the most recent authorized payment for the
// order, or nil when none exists
func (r *PostgresPaymentRepository) FindLatestAuthorized(ctx context.Context, orderID models.ID) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var pgPayment postgresPayment
	err := r.db.GetContext(ctx, &pgPayment, query, orderID.String(), string(domain.PaymentStatusAuthorized))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find payment")
	}

	return r.toDomain(&pgPayment), nil
}

// FindAll returns all payments, most recently created first
func (r *PostgresPaymentRepository) FindAll(ctx context.Context) ([]*domain.Payment, error) {
	query := `
		SELECT id, order_id, status, created_at, updated_at
		FROM payments
		ORDER BY created_at DESC`

	var pgPayments []postgresPayment
	if err := r.db.SelectContext(ctx, &pgPayments, query); err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}

	payments := make([]*domain.Payment, 0, len(pgPayments))
	for i := range pgPayments {
		payments = append(payments, r.toDomain(&pgPayments[i]))
	}
	return payments, nil
}

func (r *PostgresPaymentRepository) toPostgres(payment *domain.Payment) *postgresPayment {
	return &postgresPayment{
		ID:        payment.ID.String(),
		OrderID:   payment.OrderID.String(),
		Status:    string(payment.Status),
		CreatedAt: payment.Timestamps.CreatedAt,
		UpdatedAt: payment.Timestamps.UpdatedAt,
	}
}

func (r *PostgresPaymentRepository) toDomain(pgPayment *postgresPayment) *domain.Payment {
	return &domain.Payment{
		ID:      models.ID(pgPayment.ID),
		OrderID: models.ID(pgPayment.OrderID),
		Status:  domain.PaymentStatus(pgPayment.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pgPayment.CreatedAt,
			UpdatedAt: pgPayment.UpdatedAt,
		},
	}
}
