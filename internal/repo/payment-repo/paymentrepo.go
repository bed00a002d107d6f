package paymentrepo

import (
	"context"
	"errors"
	"time"

	"github.com/abarbosa/coursepay/internal/domain"
	"github.com/abarbosa/coursepay/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrPaymentExists signals a unique violation on the external charge id.
// Concurrent webhook deliveries can race on the lazy insert; the caller
// treats this as "record now exists" and proceeds.
var ErrPaymentExists = errors.New("payment already exists")

const uniqueViolation = "23505"

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) FindByAsaasID(ctx context.Context, asaasPaymentID string) (*domain.Payment, error) {
	query := `
        SELECT id, user_id, course_id, asaas_payment_id, asaas_customer_id, status, value_cents, billing_type, created_at
        FROM payments
        WHERE asaas_payment_id = $1
    `
	row := r.db.QueryRow(ctx, query, asaasPaymentID)

	var p domain.Payment
	err := row.Scan(&p.ID, &p.UserID, &p.CourseID, &p.AsaasPaymentID, &p.AsaasCustomerID, &p.Status, &p.ValueCents, &p.BillingType, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment", zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Save(ctx context.Context, payment *domain.Payment) error {
	query := `
        INSERT INTO payments (user_id, course_id, asaas_payment_id, asaas_customer_id, status, value_cents, billing_type, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		err := r.db.QueryRow(ctx, query,
			payment.UserID, payment.CourseID, payment.AsaasPaymentID, payment.AsaasCustomerID,
			payment.Status, payment.ValueCents, payment.BillingType, payment.CreatedAt,
		).Scan(&payment.ID)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrPaymentExists
			}
			zap.L().Error("can't save payment", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
        UPDATE payments
        SET status = $1
        WHERE id = $2
    `
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, query, status, id)
		if err != nil {
			zap.L().Error("failed to update payment status", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// FindStalePending lists pending payments that have not seen a webhook for
// at least the given age. Used by the sweeper to re-poll the processor.
func (r *Repository) FindStalePending(ctx context.Context, olderThan time.Duration, limit uint32) ([]domain.Payment, error) {
	query := `
        SELECT id, user_id, course_id, asaas_payment_id, asaas_customer_id, status, value_cents, billing_type, created_at
        FROM payments
        WHERE status = 'pending' AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, time.Now().Add(-olderThan), int(limit))
	if err != nil {
		zap.L().Error("can't get stale pending payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.AsaasPaymentID, &p.AsaasCustomerID, &p.Status, &p.ValueCents, &p.BillingType, &p.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
