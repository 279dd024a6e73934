package handler

import (
	"context"
	"errors"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler is admin-only: user listing, role grants and the
// active flag.
type UserHandler struct {
	users  service.UserService
	logger *zap.Logger
}

func NewUserHandler(users service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

type UpdateRolesInput struct {
	Roles []string `json:"roles"`
}

type SetActiveInput struct {
	Active bool `json:"active"`
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 20))

	users, total, err := h.users.List(ctx, page, limit, c.Query("search"))
	if err != nil {
		applog.Warn(ctx, h.logger, "List users failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return respondList(c, users, NewPagination(page, limit, total))
}

func (h *UserHandler) UpdateRoles(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid user id")
	}

	input := new(UpdateRolesInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.users.UpdateRoles(ctx, int64(id), input.Roles); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			return respondError(c, fiber.StatusBadRequest, "unknown role")
		case errors.Is(err, repository.ErrUserNotFound):
			return respondError(c, fiber.StatusNotFound, "user not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to update roles")
	}

	return respondMessage(c, "roles updated")
}

func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	id, err := c.ParamsInt("id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid user id")
	}

	input := new(SetActiveInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.users.SetActive(ctx, int64(id), input.Active); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, "user not found")
		}

		return respondError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return respondMessage(c, "user updated")
}
