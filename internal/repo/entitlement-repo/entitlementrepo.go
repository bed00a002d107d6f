package entitlementrepo

import (
	"context"
	"errors"

	"github.com/abarbosa/coursepay/internal/domain"
	"github.com/abarbosa/coursepay/internal/pg"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Entitlement, error) {
	query := `
        SELECT id, user_id, course_id, status, activated_at, expires_at, created_at
        FROM entitlements
        WHERE user_id = $1 AND course_id = $2
    `
	row := r.db.QueryRow(ctx, query, userID, courseID)

	var e domain.Entitlement
	err := row.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.ActivatedAt, &e.ExpiresAt, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find entitlement", zap.Error(err))
		return nil, err
	}
	return &e, nil
}

// Upsert activates or refreshes the entitlement atomically on the
// (user_id, course_id) unique constraint, closing the find-then-insert race
// between concurrent deliveries. The expiration is left untouched on
// conflict; lifetime access stays a NULL expires_at.
func (r *Repository) Upsert(ctx context.Context, e *domain.Entitlement) error {
	query := `
        INSERT INTO entitlements (user_id, course_id, status, activated_at, expires_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, course_id)
        DO UPDATE SET status = EXCLUDED.status, activated_at = EXCLUDED.activated_at
    `
	_, err := r.db.Exec(ctx, query, e.UserID, e.CourseID, e.Status, e.ActivatedAt, e.ExpiresAt)
	if err != nil {
		zap.L().Error("can't upsert entitlement", zap.Error(err))
		return err
	}
	return nil
}

// Deactivate flips the entitlement to inactive. Setting inactive twice has
// the same effect as once, so refund redeliveries stay safe.
func (r *Repository) Deactivate(ctx context.Context, userID, courseID string) error {
	query := `
        UPDATE entitlements
        SET status = $1
        WHERE user_id = $2 AND course_id = $3
    `
	_, err := r.db.Exec(ctx, query, domain.EntitlementInactive, userID, courseID)
	if err != nil {
		zap.L().Error("can't deactivate entitlement", zap.Error(err))
		return err
	}
	return nil
}
