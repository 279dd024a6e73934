package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/redis/go-redis/v9"
)

// CartRepository persists one cart per user in the `cart-storage` bucket.
// Carts survive sessions and carry no TTL; they exist until cleared.
type CartRepository interface {
	Get(ctx context.Context, userID int64) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, userID int64) error
}

type redisCartRepo struct {
	client *redis.Client
}

func NewCartRepository(client *redis.Client) CartRepository {
	return &redisCartRepo{client: client}
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart-storage:%d", userID)
}

func (r *redisCartRepo) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return &cart, nil
}

func (r *redisCartRepo) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := r.client.Set(ctx, cartKey(cart.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (r *redisCartRepo) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}
