package courserepo

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

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	query := `
        SELECT id, slug, title, price_cents
        FROM courses
        WHERE slug = $1
    `
	var course domain.Course
	err := r.db.QueryRow(ctx, query, slug).Scan(&course.ID, &course.Slug, &course.Title, &course.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find course", zap.Error(err))
		return nil, err
	}
	return &course, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
        SELECT id, slug, title, price_cents
        FROM courses
        WHERE id = $1
    `
	var course domain.Course
	err := r.db.QueryRow(ctx, query, id).Scan(&course.ID, &course.Slug, &course.Title, &course.PriceCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find course", zap.Error(err))
		return nil, err
	}
	return &course, nil
}
