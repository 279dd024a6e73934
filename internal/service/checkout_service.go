package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/payment"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// cartStore is the slice of CartService checkout needs.
type cartStore interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	Totals(cart *domain.Cart) domain.CartTotals
	Clear(ctx context.Context, userID int64) error
}

// orderDrafts is the slice of OrderService checkout needs.
type orderDrafts interface {
	CreateDraft(ctx context.Context, order *domain.Order, then func(*domain.Order) error) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	MarkPaid(ctx context.Context, id int64, paymentID string) error
	Cancel(ctx context.Context, id int64) error
}

// CheckoutService turns the current cart into a pending order and a
// signed hosted-payment form, then settles the order when the payment
// provider calls back.
type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, customer domain.CustomerInfo, shipping domain.ShippingAddress) (*payment.PaymentSession, error)
	HandleCallback(ctx context.Context, fields map[string]string) (*payment.CallbackResult, error)
}

type checkoutService struct {
	carts    cartStore
	orders   orderDrafts
	forms    payment.FormBuilder
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCheckoutService(
	carts cartStore,
	orders orderDrafts,
	forms payment.FormBuilder,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		carts:    carts,
		orders:   orders,
		forms:    forms,
		validate: validator.New(),
		logger:   logger,
	}
}

// Checkout validates the request before touching any storage: a bad
// request must not leave a draft order behind. The cart itself is kept
// until the provider confirms payment, so an abandoned payment page
// costs the user nothing.
func (s *checkoutService) Checkout(
	ctx context.Context,
	userID int64,
	customer domain.CustomerInfo,
	shipping domain.ShippingAddress,
) (*payment.PaymentSession, error) {
	if err := s.validate.Struct(customer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingCustomerInfo, err)
	}
	if err := s.validate.Struct(shipping); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingShippingInfo, err)
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	totals := s.carts.Totals(cart)

	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.UnitPrice,
			Quantity:  int32(line.Quantity),
			Color:     line.Color,
			Size:      line.Size,
		})
	}

	order := &domain.Order{
		UserID:      userID,
		Items:       items,
		Customer:    customer,
		Shipping:    shipping,
		ShippingFee: totals.Shipping,
	}

	var session *payment.PaymentSession
	err = s.orders.CreateDraft(ctx, order, func(o *domain.Order) error {
		var buildErr error
		session, buildErr = s.forms.BuildPaymentForm(o)
		return buildErr
	})
	if err != nil {
		applog.Warn(ctx, s.logger, "Checkout failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, err
	}

	applog.Info(ctx, s.logger, "Checkout session created",
		zap.Int64("user_id", userID),
		zap.Int64("order_id", session.OrderID),
		zap.Int64("total_sum", order.TotalSum),
	)

	return session, nil
}

// HandleCallback settles an order from the provider's signed callback.
// On success the order is marked paid and the cart is cleared; on
// failure the order is cancelled and the cart is left intact so the
// user can retry.
func (s *checkoutService) HandleCallback(ctx context.Context, fields map[string]string) (*payment.CallbackResult, error) {
	result, err := s.forms.VerifyCallback(fields)
	if err != nil {
		if errors.Is(err, payment.ErrBadSignature) {
			applog.Warn(ctx, s.logger, "Payment callback with bad signature")
		}

		return nil, err
	}

	if !result.Success {
		if err := s.orders.Cancel(ctx, result.OrderID); err != nil {
			return nil, err
		}

		applog.Info(ctx, s.logger, "Payment failed, order cancelled",
			zap.Int64("order_id", result.OrderID),
		)

		return result, nil
	}

	if err := s.orders.MarkPaid(ctx, result.OrderID, result.PaymentID); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, result.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, order.UserID); err != nil {
		// The payment is already settled, a stale cart is recoverable.
		applog.Warn(ctx, s.logger, "Failed to clear cart after payment",
			zap.Int64("user_id", order.UserID),
			zap.Error(err),
		)
	}

	return result, nil
}
