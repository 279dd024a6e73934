package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	outboxDomain "github.com/emregurs3s/karakus-tech-website/pkg/outbox/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/outbox/worker"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	orderCreatedTopic       = "order.created"
	orderStatusChangedTopic = "order.status_changed"
)

type OrderService interface {
	// CreateDraft persists a pending order and, still inside the same
	// transaction, runs the then callback with the assigned order id. If
	// the callback fails nothing is committed, so no orphan drafts are
	// left behind when the payment handoff cannot be prepared.
	CreateDraft(ctx context.Context, order *domain.Order, then func(*domain.Order) error) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID, page, limit int64) ([]domain.Order, int64, error)
	List(ctx context.Context, status domain.OrderStatus, page, limit int64) ([]domain.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error
	MarkPaid(ctx context.Context, id int64, paymentID string) error
	Cancel(ctx context.Context, id int64) error
}

type orderService struct {
	orderRepo  repository.OrderRepository
	outboxRepo worker.OutboxRepository
	pool       *pgxpool.Pool
	logger     *zap.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	outboxRepo worker.OutboxRepository,
	pool *pgxpool.Pool,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		pool:       pool,
		logger:     logger,
	}
}

func (s *orderService) CreateDraft(ctx context.Context, order *domain.Order, then func(*domain.Order) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		applog.Warn(ctx, s.logger, "Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx, "CreateDraft")

	order.Status = domain.OrderStatusPending
	order.CalculateTotal()

	if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]domain.OrderItemEvent, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, domain.OrderItemEvent{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	event := domain.OrderCreatedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		TotalSum:  order.TotalSum,
		Items:     items,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.saveEvent(ctx, tx, order.ID, "OrderCreated", orderCreatedTopic, event); err != nil {
		return err
	}

	if then != nil {
		if err := then(order); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		applog.Error(ctx, s.logger, "Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(ctx, s.logger, "Order draft created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Int64("total_sum", order.TotalSum),
	)

	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) ListByUser(ctx context.Context, userID, page, limit int64) ([]domain.Order, int64, error) {
	return s.orderRepo.ListByUser(ctx, userID, page, limit)
}

func (s *orderService) List(ctx context.Context, status domain.OrderStatus, page, limit int64) ([]domain.Order, int64, error) {
	return s.orderRepo.List(ctx, status, page, limit)
}

func (s *orderService) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx, "UpdateStatus")

	oldStatus, err := s.orderRepo.ChangeOrderStatus(ctx, tx, id, status)
	if err != nil {
		return err
	}

	if oldStatus == status {
		// Nothing changed, so no event either.
		return tx.Commit(ctx)
	}

	event := domain.OrderStatusChangedEvent{
		OrderID:   id,
		OldStatus: oldStatus,
		NewStatus: status,
		ChangedAt: time.Now().UTC(),
	}

	if err := s.saveEvent(ctx, tx, id, "OrderStatusChanged", orderStatusChangedTopic, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(ctx, s.logger, "Order status changed",
		zap.Int64("order_id", id),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(status)),
	)

	return nil
}

// MarkPaid records a successful payment. Replayed callbacks are
// harmless: an order that is already paid is left as is.
func (s *orderService) MarkPaid(ctx context.Context, id int64, paymentID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx, "MarkPaid")

	oldStatus, err := s.orderRepo.SetPaid(ctx, tx, id, paymentID)
	if err != nil {
		return err
	}

	if oldStatus == domain.OrderStatusPaid {
		return tx.Commit(ctx)
	}

	event := domain.OrderStatusChangedEvent{
		OrderID:   id,
		OldStatus: oldStatus,
		NewStatus: domain.OrderStatusPaid,
		ChangedAt: time.Now().UTC(),
	}

	if err := s.saveEvent(ctx, tx, id, "OrderStatusChanged", orderStatusChangedTopic, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(ctx, s.logger, "Order marked paid",
		zap.Int64("order_id", id),
		zap.String("payment_id", paymentID),
	)

	return nil
}

// Cancel rolls a draft back after a failed or abandoned payment. Only a
// pending order is cancelled: a late or replayed failure callback that
// arrives after the order was paid leaves the order untouched.
func (s *orderService) Cancel(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx, "Cancel")

	oldStatus, err := s.orderRepo.ChangeOrderStatus(ctx, tx, id, domain.OrderStatusCancelled)
	if err != nil {
		return err
	}

	if oldStatus != domain.OrderStatusPending {
		// Returning without committing discards the status update made
		// under the row lock.
		applog.Info(ctx, s.logger, "Cancel skipped, order is not pending",
			zap.Int64("order_id", id),
			zap.String("status", string(oldStatus)),
		)

		return nil
	}

	event := domain.OrderStatusChangedEvent{
		OrderID:   id,
		OldStatus: oldStatus,
		NewStatus: domain.OrderStatusCancelled,
		ChangedAt: time.Now().UTC(),
	}

	if err := s.saveEvent(ctx, tx, id, "OrderStatusChanged", orderStatusChangedTopic, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	applog.Info(ctx, s.logger, "Order cancelled", zap.Int64("order_id", id))

	return nil
}

func (s *orderService) saveEvent(
	ctx context.Context,
	tx pgx.Tx,
	orderID int64,
	eventType, topic string,
	payload interface{},
) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	outboxEvent := &outboxDomain.OutboxEvent{
		AggregateType: "order",
		AggregateID:   strconv.FormatInt(orderID, 10),
		EventType:     eventType,
		Payload:       data,
		Topic:         topic,
	}

	if err := s.outboxRepo.SaveOutboxEvent(ctx, tx, outboxEvent); err != nil {
		applog.Error(ctx, s.logger, "Failed to save outbox event",
			zap.Int64("order_id", orderID),
			zap.String("event_type", eventType),
			zap.Error(err),
		)

		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	return nil
}

func (s *orderService) rollback(ctx context.Context, tx pgx.Tx, method string) {
	cleanupCtx := context.WithoutCancel(ctx)
	if err := tx.Rollback(cleanupCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		applog.Warn(cleanupCtx, s.logger, "Error rolling back transaction",
			zap.Error(err),
			zap.String("method_name", method),
			zap.String("service", "order_service"),
		)
	}
}
