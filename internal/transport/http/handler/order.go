package handler

import (
	"context"
	"errors"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

// ListMyOrders shows the authenticated user their own order history.
func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	orders, total, err := h.orders.ListByUser(ctx, userID, page, limit)
	if err != nil {
		applog.Warn(ctx, h.logger, "List my orders failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list orders")
	}

	return respondList(c, orders, NewPagination(page, limit, total))
}

// GetMyOrder returns one order, but only to its owner.
func (h *OrderHandler) GetMyOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid order id")
	}

	order, err := h.orders.GetOrder(ctx, int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return respondError(c, fiber.StatusNotFound, "order not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to get order")
	}

	// Not-found rather than forbidden, so order ids cannot be probed.
	if order.UserID != userID {
		return respondError(c, fiber.StatusNotFound, "order not found")
	}

	return respondOK(c, order)
}

func (h *OrderHandler) AdminListOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	status := domain.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return respondError(c, fiber.StatusBadRequest, "unknown order status")
	}

	orders, total, err := h.orders.List(ctx, status, page, limit)
	if err != nil {
		applog.Warn(ctx, h.logger, "Admin list orders failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list orders")
	}

	return respondList(c, orders, NewPagination(page, limit, total))
}

func (h *OrderHandler) AdminGetOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid order id")
	}

	order, err := h.orders.GetOrder(ctx, int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return respondError(c, fiber.StatusNotFound, "order not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to get order")
	}

	return respondOK(c, order)
}

func (h *OrderHandler) AdminUpdateStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid order id")
	}

	input := new(UpdateStatusInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.orders.UpdateStatus(ctx, int64(id), domain.OrderStatus(input.Status)); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return respondError(c, fiber.StatusBadRequest, "unknown order status")
		case errors.Is(err, repository.ErrOrderNotFound):
			return respondError(c, fiber.StatusNotFound, "order not found")
		}

		applog.Error(ctx, h.logger, "Update order status failed",
			zap.Int("order_id", id),
			zap.Error(err),
		)

		return respondError(c, fiber.StatusInternalServerError, "failed to update order")
	}

	return respondMessage(c, "order status updated")
}
