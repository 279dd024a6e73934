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

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, filters domain.ProductFilters, onlyActive bool) ([]domain.Product, int64, error)
	Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error
	SetStock(ctx context.Context, id, stock int64) error
	DeleteByID(ctx context.Context, id int64) error
}

// sortColumns whitelists the sortBy query parameter; anything else falls
// back to created_at.
var sortColumns = map[string]string{
	"createdAt": "p.created_at",
	"price":     "p.price",
	"title":     "p.title",
	"rating":    "p.rating",
}

type productRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewProductRepository(pool *pgxpool.Pool, logger *zap.Logger) ProductRepository {
	return &productRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("storefront/product_repo"),
	}
}

const productColumns = `p.id, p.title, p.slug, p.description, p.price, p.original_price,
		p.images, p.category_id, p.colors, p.sizes, p.stock, p.sku,
		p.is_new, p.is_best_seller, p.is_active, p.rating, p.review_count,
		p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Images, &p.CategoryID, &p.Colors, &p.Sizes, &p.Stock, &p.SKU,
		&p.IsNew, &p.IsBestSeller, &p.IsActive, &p.Rating, &p.ReviewCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, product *domain.Product) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("title", product.Title),
	)

	query := `
		INSERT INTO products (title, slug, description, price, original_price,
			images, category_id, colors, sizes, stock, sku, is_new, is_best_seller, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		product.Title,
		product.Slug,
		product.Description,
		product.Price,
		product.OriginalPrice,
		product.Images,
		product.CategoryID,
		product.Colors,
		product.Sizes,
		product.Stock,
		product.SKU,
		product.IsNew,
		product.IsBestSeller,
		product.IsActive,
	).Scan(&product.ID)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error creating product",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating product: %w", err)
	}

	return product.ID, nil
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.id = $1 AND p.deleted_at IS NULL;
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error get by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return p, nil
}

func (r *productRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetBySlug")
	defer span.End()

	span.SetAttributes(
		attribute.String("slug", slug),
	)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products p
		WHERE p.slug = $1 AND p.is_active AND p.deleted_at IS NULL;
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error get by slug",
			zap.String("slug", slug),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting product: %w", err)
	}

	return p, nil
}

func (r *productRepo) List(ctx context.Context, filters domain.ProductFilters, onlyActive bool) ([]domain.Product, int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("page", filters.Page),
		attribute.Int64("limit", filters.Limit),
		attribute.String("search", filters.Search),
		attribute.String("category", filters.CategorySlug),
	)

	where := `WHERE p.deleted_at IS NULL`
	var args []interface{}
	argId := 1

	if onlyActive {
		where += " AND p.is_active"
	}

	if filters.CategorySlug != "" {
		where += fmt.Sprintf(" AND c.slug = $%d", argId)
		args = append(args, filters.CategorySlug)
		argId++
	}

	if filters.Search != "" {
		where += fmt.Sprintf(" AND p.title ILIKE $%d", argId)
		args = append(args, "%"+filters.Search+"%")
		argId++
	}

	from := `FROM products p JOIN categories c ON c.id = p.category_id `

	countQuery := `SELECT COUNT(*) ` + from + where

	orderCol, ok := sortColumns[filters.SortBy]
	if !ok {
		orderCol = "p.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filters.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (filters.Page - 1) * filters.Limit

	baseQuery := fmt.Sprintf(`SELECT %s %s%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productColumns, from, where, orderCol, direction, argId, argId+1)

	listArgs := append(append([]interface{}{}, args...), filters.Limit, offset)

	rows, err := r.pool.Query(ctx, baseQuery, listArgs...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error getting products",
			zap.String("search", filters.Search),
			zap.Int64("page", filters.Page),
			zap.Int64("limit", filters.Limit),
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error selecting products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			span.RecordError(err)

			applog.Error(
				ctx,
				r.logger,
				"Failed to scan rows",
				zap.Error(err),
			)

			return nil, 0, fmt.Errorf("error scanning rows: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Rows iteration error",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to count products",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, totalCount, nil
}

func (r *productRepo) Update(ctx context.Context, id int64, input *domain.UpdateProductInput) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `UPDATE products SET `
	var args []interface{}
	argId := 1

	var updates []string

	set := func(column string, value interface{}) {
		updates = append(updates, fmt.Sprintf("%s = $%d", column, argId))
		args = append(args, value)
		argId++
	}

	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Description != nil {
		set("description", *input.Description)
	}
	if input.Price != nil {
		set("price", *input.Price)
	}
	if input.OriginalPrice != nil {
		set("original_price", *input.OriginalPrice)
	}
	if input.Images != nil {
		set("images", *input.Images)
	}
	if input.CategoryID != nil {
		set("category_id", *input.CategoryID)
	}
	if input.Colors != nil {
		set("colors", *input.Colors)
	}
	if input.Sizes != nil {
		set("sizes", *input.Sizes)
	}
	if input.Stock != nil {
		set("stock", *input.Stock)
	}
	if input.IsNew != nil {
		set("is_new", *input.IsNew)
	}
	if input.IsBestSeller != nil {
		set("is_best_seller", *input.IsBestSeller)
	}
	if input.IsActive != nil {
		set("is_active", *input.IsActive)
	}

	if len(updates) == 0 {
		return nil
	}

	updates = append(updates, "updated_at = NOW()")

	query += strings.Join(updates, ", ")
	query += fmt.Sprintf(" WHERE id = $%d AND deleted_at IS NULL", argId)
	args = append(args, id)

	commandTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to update product",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating product: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) SetStock(ctx context.Context, id, stock int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.SetStock")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Int64("stock", stock),
	)

	query := `
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	commandTag, err := r.pool.Exec(ctx, query, id, stock)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Failed to set stock",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error setting stock: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepo) DeleteByID(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DeleteByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE products
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	commandTag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error deleting product by id",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error deleting product by id: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}
