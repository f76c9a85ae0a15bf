package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sapphirus/internal/domain"
	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "sapphirus:carts:"

	// Abandoned carts expire on their own; every save refreshes the TTL.
	cartTTL = 30 * 24 * time.Hour
)

type redisRepo struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) Repository {
	return &redisRepo{client: client}
}

func (r *redisRepo) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, keyPrefix+ownerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.Cart{Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (r *redisRepo) Save(ctx context.Context, ownerID string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+ownerID, data, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (r *redisRepo) Clear(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, keyPrefix+ownerID).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
