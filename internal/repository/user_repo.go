package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, limit int64, search string) ([]domain.User, int64, error)
	UpdateRoles(ctx context.Context, id int64, roles []string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type userRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *zap.Logger) UserRepository {
	return &userRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("storefront/user_repo"),
	}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("email", user.Email),
	)

	query := `
		INSERT INTO users (name, email, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Roles,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrUserExists
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error creating user",
			zap.Error(err),
		)

		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return user.ID, nil
}

const userColumns = `id, name, email, password_hash, roles, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles, &u.IsActive,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error getting user",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetByEmail")
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error getting user by email",
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting user: %w", err)
	}

	return u, nil
}

func (r *userRepo) List(ctx context.Context, page, limit int64, search string) ([]domain.User, int64, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("page", page),
		attribute.Int64("limit", limit),
		attribute.String("search", search),
	)

	where := ""
	var args []interface{}
	argId := 1

	if search != "" {
		where = fmt.Sprintf(" WHERE name ILIKE $%d OR email ILIKE $%d", argId, argId)
		args = append(args, "%"+search+"%")
		argId++
	}

	countQuery := `SELECT COUNT(*) FROM users` + where

	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, argId, argId+1)

	listArgs := append(append([]interface{}{}, args...), limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, listArgs...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error listing users",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			span.RecordError(err)

			return nil, 0, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	return users, totalCount, nil
}

func (r *userRepo) UpdateRoles(ctx context.Context, id int64, roles []string) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.UpdateRoles")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := `
		UPDATE users
		SET roles = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(ctx, query, id, roles)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error updating user roles",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating user roles: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepo) SetActive(ctx context.Context, id int64, active bool) error {
	ctx, span := r.tracer.Start(ctx, "UserRepository.SetActive")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.Bool("active", active),
	)

	query := `
		UPDATE users
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error updating user active flag",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return fmt.Errorf("error updating user: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
