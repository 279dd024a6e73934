package handler

import (
	"context"
	"errors"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/payment"
	"github.com/emregurs3s/karakus-tech-website/internal/service"
	"github.com/emregurs3s/karakus-tech-website/internal/transport/http/middleware"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	cb       *gobreaker.CircuitBreaker
	logger   *zap.Logger
}

func NewCheckoutHandler(checkout service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	settings := gobreaker.Settings{
		Name:        "CheckoutService",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &CheckoutHandler{
		checkout: checkout,
		cb:       gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
	}
}

type CheckoutInput struct {
	Customer domain.CustomerInfo    `json:"customer"`
	Shipping domain.ShippingAddress `json:"shipping"`
}

// Checkout snapshots the cart into a pending order and returns the
// signed payment form for the browser to POST to the hosted page.
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(c)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "userId parsing error")
	}

	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := utils.ExecuteWithBreaker[*payment.PaymentSession](h.cb, func() (*payment.PaymentSession, error) {
		return h.checkout.Checkout(ctx, userID, input.Customer, input.Shipping)
	})
	if err != nil {
		middleware.RecordCheckoutOperation("checkout", false)

		switch {
		case errors.Is(err, gobreaker.ErrOpenState):
			applog.Warn(ctx, h.logger, "Circuit breaker is open")
			return respondError(c, fiber.StatusServiceUnavailable, "service temporarily unavailable")
		case errors.Is(err, service.ErrEmptyCart):
			return respondError(c, fiber.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrMissingCustomerInfo):
			return respondError(c, fiber.StatusBadRequest, "customer info is incomplete")
		case errors.Is(err, service.ErrMissingShippingInfo):
			return respondError(c, fiber.StatusBadRequest, "shipping info is incomplete")
		case errors.Is(err, payment.ErrNotConfigured):
			applog.Error(ctx, h.logger, "Payment provider not configured")
			return respondError(c, fiber.StatusServiceUnavailable, "payment is unavailable")
		}

		applog.Error(ctx, h.logger, "Checkout failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return respondError(c, fiber.StatusInternalServerError, "failed to start checkout")
	}

	middleware.RecordCheckoutOperation("checkout", true)

	return respondOK(c, fiber.Map{
		"order_id":     session.OrderID,
		"form_data":    session.FormData,
		"redirect_url": session.RedirectURL,
	})
}

// Callback receives the provider's server-to-server form POST. It is
// unauthenticated on purpose: trust comes from the HMAC signature.
func (h *CheckoutHandler) Callback(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	fields := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})

	result, err := h.checkout.HandleCallback(ctx, fields)
	if err != nil {
		middleware.RecordCheckoutOperation("callback", false)

		switch {
		case errors.Is(err, payment.ErrBadSignature):
			return respondError(c, fiber.StatusUnauthorized, "invalid signature")
		case errors.Is(err, payment.ErrBadCallback):
			return respondError(c, fiber.StatusBadRequest, "malformed callback")
		}

		applog.Error(ctx, h.logger, "Payment callback failed", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "failed to process callback")
	}

	middleware.RecordCheckoutOperation("callback", result.Success)

	return respondOK(c, fiber.Map{
		"order_id": result.OrderID,
		"paid":     result.Success,
	})
}
