package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aishwaryacollections/storefront/models"
)

// CartRepository stores per-user carts and checkout idempotency records.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error
}

// RedisCartRepository implements CartRepository on Redis. Carts live under a
// TTL so abandoned selections expire on their own.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCartRepository) getKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func (r *RedisCartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.getKey(userID)).Result()
	if err == redis.Nil {
		// No cart found
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisCartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.getKey(cart.UserID), data, r.ttl).Err()
}

func (r *RedisCartRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.getKey(userID)).Err()
}

// Idempotency helpers
func (r *RedisCartRepository) getIdemKey(key string) string {
	return "idem:checkout:" + key
}

func (r *RedisCartRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.getIdemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisCartRepository) SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.getIdemKey(key), orderID, ttl).Err()
}
