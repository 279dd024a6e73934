package handler

import (
	"context"
	"errors"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/auth"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth     service.AuthService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthHandler(authService service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		validate: validator.New(),
		logger:   logger,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	user, tokens, err := h.auth.Register(ctx, input.Name, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserExists):
			return respondError(c, fiber.StatusConflict, "email is already registered")
		case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooWeak):
			return respondError(c, fiber.StatusBadRequest, err.Error())
		}

		applog.Error(ctx, h.logger, "Register failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to register")
	}

	return respondCreated(c, fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	user, tokens, err := h.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return respondError(c, fiber.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrUserInactive):
			return respondError(c, fiber.StatusForbidden, "account is disabled")
		}

		applog.Error(ctx, h.logger, "Login failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to login")
	}

	return respondOK(c, fiber.Map{
		"user":   user,
		"tokens": tokens,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	input := new(RefreshInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	tokens, err := h.auth.Refresh(ctx, input.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return respondError(c, fiber.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrUserInactive):
			return respondError(c, fiber.StatusForbidden, "account is disabled")
		}

		applog.Error(ctx, h.logger, "Refresh failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to refresh tokens")
	}

	return respondOK(c, fiber.Map{"tokens": tokens})
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	user, err := h.auth.GetUserInfo(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return respondError(c, fiber.StatusNotFound, "user not found")
		}

		applog.Warn(ctx, h.logger, "Get me failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to get user")
	}

	return respondOK(c, user)
}
