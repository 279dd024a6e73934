package handler

import (
	"context"
	"net/url"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts    service.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		validate: validator.New(),
		logger:   logger,
	}
}

type AddLineInput struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Title     string `json:"title" validate:"required"`
	UnitPrice int64  `json:"unit_price" validate:"required,gt=0"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityInput struct {
	Quantity int `json:"quantity"`
}

// cartResponse pairs the cart with its derived totals so the storefront
// never computes money on the client.
func (h *CartHandler) cartResponse(cart *domain.Cart) fiber.Map {
	return fiber.Map{
		"cart":   cart,
		"totals": h.carts.Totals(cart),
	}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	cart, err := h.carts.GetCart(ctx, userID)
	if err != nil {
		applog.Warn(ctx, h.logger, "Get cart failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to get cart")
	}

	return respondOK(c, h.cartResponse(cart))
}

func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	input := new(AddLineInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidation(c, utils.FormatValidationError(err))
	}

	line := domain.CartLine{
		ProductID: input.ProductID,
		Title:     input.Title,
		UnitPrice: input.UnitPrice,
		Image:     input.Image,
		Color:     input.Color,
		Size:      input.Size,
		Quantity:  input.Quantity,
	}

	cart, err := h.carts.AddLine(ctx, userID, line)
	if err != nil {
		applog.Warn(ctx, h.logger, "Add cart line failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to update cart")
	}

	return respondOK(c, h.cartResponse(cart))
}

// lineKey pulls the :key path param and percent-decodes it. Fiber hands
// path params over raw, and line keys always carry the variant separator,
// so clients send them URL-encoded.
func lineKey(c *fiber.Ctx) (string, error) {
	return url.PathUnescape(c.Params("key"))
}

// SetQuantity overwrites one line's quantity. The key is the line key
// returned in the cart payload; quantity zero removes the line.
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	key, err := lineKey(c)
	if err != nil || key == "" {
		return respondError(c, fiber.StatusBadRequest, "missing line key")
	}

	input := new(SetQuantityInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	cart, err := h.carts.SetQuantity(ctx, userID, key, input.Quantity)
	if err != nil {
		applog.Warn(ctx, h.logger, "Set cart quantity failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to update cart")
	}

	return respondOK(c, h.cartResponse(cart))
}

func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	key, err := lineKey(c)
	if err != nil || key == "" {
		return respondError(c, fiber.StatusBadRequest, "missing line key")
	}

	cart, err := h.carts.RemoveLine(ctx, userID, key)
	if err != nil {
		applog.Warn(ctx, h.logger, "Remove cart line failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to update cart")
	}

	return respondOK(c, h.cartResponse(cart))
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	if err := h.carts.Clear(ctx, userID); err != nil {
		applog.Warn(ctx, h.logger, "Clear cart failed", zap.Int64("user_id", userID), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to clear cart")
	}

	return respondMessage(c, "cart cleared")
}
