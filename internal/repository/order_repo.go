package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID, page, limit int64) ([]domain.Order, int64, error)
	List(ctx context.Context, status domain.OrderStatus, page, limit int64) ([]domain.Order, int64, error)
	ChangeOrderStatus(ctx context.Context, tx pgx.Tx, id int64, status domain.OrderStatus) (domain.OrderStatus, error)
	SetPaid(ctx context.Context, tx pgx.Tx, id int64, paymentID string) (domain.OrderStatus, error)
}

type orderRepo struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
	logger *zap.Logger
}

func NewOrderRepository(pool *pgxpool.Pool, logger *zap.Logger) OrderRepository {
	return &orderRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("storefront/order_repo"),
	}
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.CreateOrder")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", order.UserID),
		attribute.Int64("total_sum", order.TotalSum),
	)

	query := `
		INSERT INTO orders (user_id, status, customer_name, customer_email, customer_phone,
			customer_tc_no, shipping_address, shipping_city, shipping_district,
			shipping_postal_code, subtotal, shipping_fee, total_sum)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at;
	`

	err := tx.QueryRow(
		ctx,
		query,
		order.UserID,
		order.Status,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.TCNo,
		order.Shipping.FullAddress,
		order.Shipping.City,
		order.Shipping.District,
		order.Shipping.PostalCode,
		order.Subtotal,
		order.ShippingFee,
		order.TotalSum,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error creating order",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)

		return fmt.Errorf("error creating order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, title, price, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		if err := tx.QueryRow(
			ctx,
			itemQuery,
			item.OrderID,
			item.ProductID,
			item.Title,
			item.Price,
			item.Quantity,
			item.Color,
			item.Size,
		).Scan(&item.ID); err != nil {
			span.RecordError(err)

			applog.Error(
				ctx,
				r.logger,
				"Error creating order item",
				zap.Int64("order_id", order.ID),
				zap.Int64("product_id", item.ProductID),
				zap.Error(err),
			)

			return fmt.Errorf("error creating order item: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, user_id, status, customer_name, customer_email, customer_phone,
		customer_tc_no, shipping_address, shipping_city, shipping_district,
		shipping_postal_code, subtotal, shipping_fee, total_sum,
		COALESCE(payment_id, ''), created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status,
		&o.Customer.Name, &o.Customer.Email, &o.Customer.Phone, &o.Customer.TCNo,
		&o.Shipping.FullAddress, &o.Shipping.City, &o.Shipping.District, &o.Shipping.PostalCode,
		&o.Subtotal, &o.ShippingFee, &o.TotalSum, &o.PaymentID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	query := `
		SELECT id, order_id, product_id, title, price, quantity, color, size
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("error loading order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Title,
			&item.Price, &item.Quantity, &item.Color, &item.Size,
		); err != nil {
			return fmt.Errorf("error scanning order item: %w", err)
		}

		if o, ok := index[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return rows.Err()
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetByID")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}

		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error getting order",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error getting order: %w", err)
	}

	orders := []domain.Order{*o}
	if err := r.loadItems(ctx, orders); err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &orders[0], nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID, page, limit int64) ([]domain.Order, int64, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ListByUser")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.Int64("page", page),
		attribute.Int64("limit", limit),
	)

	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, orderColumns)

	return r.listOrders(ctx, span, query,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`,
		[]interface{}{userID}, limit, (page-1)*limit)
}

func (r *orderRepo) List(ctx context.Context, status domain.OrderStatus, page, limit int64) ([]domain.Order, int64, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	span.SetAttributes(
		attribute.String("status", string(status)),
		attribute.Int64("page", page),
		attribute.Int64("limit", limit),
	)

	where := ""
	var args []interface{}
	nextArg := 1

	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
		nextArg++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM orders%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, orderColumns, where, nextArg, nextArg+1)

	return r.listOrders(ctx, span, query,
		`SELECT COUNT(*) FROM orders`+where,
		args, limit, (page-1)*limit)
}

func (r *orderRepo) listOrders(
	ctx context.Context,
	span trace.Span,
	query, countQuery string,
	args []interface{},
	limit, offset int64,
) ([]domain.Order, int64, error) {
	listArgs := append(append([]interface{}{}, args...), limit, offset)

	rows, err := r.pool.Query(ctx, query, listArgs...)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error listing orders",
			zap.Error(err),
		)

		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			span.RecordError(err)

			return nil, 0, fmt.Errorf("error scanning order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		span.RecordError(err)
		return nil, 0, err
	}

	var totalCount int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		span.RecordError(err)

		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	return orders, totalCount, nil
}

// ChangeOrderStatus updates the order status inside the caller's transaction
// and returns the previous status. The row is locked for the duration of the
// transaction so concurrent callback and admin updates serialize.
func (r *orderRepo) ChangeOrderStatus(ctx context.Context, tx pgx.Tx, id int64, status domain.OrderStatus) (domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.ChangeOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
		attribute.String("status", string(status)),
	)

	var old domain.OrderStatus
	err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&old)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrOrderNotFound
		}

		span.RecordError(err)

		return "", fmt.Errorf("error locking order: %w", err)
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		span.RecordError(err)

		applog.Error(
			ctx,
			r.logger,
			"Error updating order status",
			zap.Int64("id", id),
			zap.Error(err),
		)

		return "", fmt.Errorf("error updating order status: %w", err)
	}

	return old, nil
}

func (r *orderRepo) SetPaid(ctx context.Context, tx pgx.Tx, id int64, paymentID string) (domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.SetPaid")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("id", id),
	)

	old, err := r.ChangeOrderStatus(ctx, tx, id, domain.OrderStatusPaid)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx, `UPDATE orders SET payment_id = $2 WHERE id = $1`, id, paymentID)
	if err != nil {
		span.RecordError(err)

		return "", fmt.Errorf("error setting payment id: %w", err)
	}

	return old, nil
}
