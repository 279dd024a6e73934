package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/emregurs3s/karakus-tech-website/pkg/applog"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CartService owns the per-user server-side cart. Every mutation is
// written through to the store immediately, so a cart survives restarts
// and is shared across the user's devices.
type CartService interface {
	GetCart(ctx context.Context, userID int64) (*domain.Cart, error)
	AddLine(ctx context.Context, userID int64, line domain.CartLine) (*domain.Cart, error)
	RemoveLine(ctx context.Context, userID int64, key string) (*domain.Cart, error)
	SetQuantity(ctx context.Context, userID int64, key string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, userID int64) error
	Totals(cart *domain.Cart) domain.CartTotals
}

type cartService struct {
	cartRepo  repository.CartRepository
	group     singleflight.Group
	threshold int64
	fee       int64
	logger    *zap.Logger
}

func NewCartService(
	cartRepo repository.CartRepository,
	freeShippingThreshold int64,
	shippingFee int64,
	logger *zap.Logger,
) CartService {
	return &cartService{
		cartRepo:  cartRepo,
		threshold: freeShippingThreshold,
		fee:       shippingFee,
		logger:    logger,
	}
}

// GetCart never fails because the user has no cart yet: a missing cart
// is just an empty one. Concurrent reads for the same user are collapsed
// into a single store round trip.
func (s *cartService) GetCart(ctx context.Context, userID int64) (*domain.Cart, error) {
	v, err, _ := s.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		return s.load(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

func (s *cartService) load(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return domain.NewCart(userID), nil
		}

		applog.Warn(ctx, s.logger, "Failed to load cart",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return cart, nil
}

func (s *cartService) AddLine(ctx context.Context, userID int64, line domain.CartLine) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddLine(line, line.Quantity)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) RemoveLine(ctx context.Context, userID int64, key string) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveLine(key)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) SetQuantity(ctx context.Context, userID int64, key string, quantity int) (*domain.Cart, error) {
	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.SetQuantity(key, quantity)

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, userID int64) error {
	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		applog.Warn(ctx, s.logger, "Failed to clear cart",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

func (s *cartService) Totals(cart *domain.Cart) domain.CartTotals {
	return cart.Totals(s.threshold, s.fee)
}

func (s *cartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		applog.Error(ctx, s.logger, "Failed to save cart",
			zap.Int64("user_id", cart.UserID),
			zap.Error(err),
		)

		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
