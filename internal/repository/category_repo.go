package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (int64, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, onlyActive bool) ([]domain.Category, error)
	Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error
	DeleteByID(ctx context.Context, id int64) error
}

type categoryRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewCategoryRepository(pool *pgxpool.Pool, logger *zap.Logger) CategoryRepository {
	return &categoryRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("storefront/category_repo"),
	}
}

func (r *categoryRepo) Create(ctx context.Context, category *domain.Category) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", category.Slug),
	)

	query := `
		INSERT INTO categories (name, slug, image, is_active, ordering)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		category.Name,
		category.Slug,
		category.Image,
		category.IsActive,
		category.Ordering,
	).Scan(&category.ID)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error creating category",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating category: %w", err)
	}

	return category.ID, nil
}

func (r *categoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.GetBySlug")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	query := `
		SELECT id, name, slug, image, is_active, ordering, created_at, updated_at
		FROM categories
		WHERE slug = $1;
	`

	var c domain.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&c.ID, &c.Name, &c.Slug, &c.Image, &c.IsActive, &c.Ordering,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error getting category",
			zap.String("slug", slug),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting category: %w", err)
	}

	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context, onlyActive bool) ([]domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.List")
	defer span.End()

	query := `
		SELECT id, name, slug, image, is_active, ordering, created_at, updated_at
		FROM categories
	`
	if onlyActive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY ordering ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error listing categories",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Image, &c.IsActive, &c.Ordering,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return categories, nil
}

func (r *categoryRepo) Update(ctx context.Context, id int64, input *domain.UpdateCategoryInput) error {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE categories SET `
	var args []interface{}
	argId := 1

	var updates []string

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argId))
		args = append(args, value)
		argId++
	}

	if input.Name != nil {
		set("name", *input.Name)
	}
	if input.Slug != nil {
		set("slug", *input.Slug)
	}
	if input.Image != nil {
		set("image", *input.Image)
	}
	if input.IsActive != nil {
		set("is_active", *input.IsActive)
	}
	if input.Ordering != nil {
		set("ordering", *input.Ordering)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")

	query += strings.Join(updates, ", ")
	query += fmt.Sprintf(" WHERE id = $%d", argId)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to update category",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating category: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

func (r *categoryRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "CategoryRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	commandTag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error deleting category",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deleting category: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
