package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// cartRepository keeps each session cart as a redis hash keyed by owner,
// one field per product id. The hash expires with the session.
type cartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCart(client *redis.Client, ttl time.Duration) port.CartRepository {
	return &cartRepository{
		client: client,
		ttl:    ttl,
	}
}

func cartKey(ownerID string) string {
	return "cart:" + ownerID
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	cart := domain.NewCart(ownerID)

	fields, err := r.client.HGetAll(ctx, cartKey(ownerID)).Result()
	if err != nil {
		return cart, fmt.Errorf("client.HGetAll: %w", err)
	}

	for field, value := range fields {
		productID, err := uuid.Parse(field)
		if err != nil {
			return cart, fmt.Errorf("uuid.Parse[%s]: %w", field, err)
		}

		quantity, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return cart, fmt.Errorf("strconv.ParseInt[%s]: %w", value, err)
		}

		cart.Items[productID] = int32(quantity)
	}

	return cart, nil
}

func (r *cartRepository) AddItem(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return domain.Validationf("quantity must be at least 1, got %d", quantity)
	}

	key := cartKey(ownerID)

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, productID.String(), int64(quantity))
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipe.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, ownerID string, productID uuid.UUID, quantity int32) error {
	if quantity < 1 {
		return domain.Validationf("quantity must be at least 1, got %d", quantity)
	}

	key := cartKey(ownerID)

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, productID.String(), int64(quantity))
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipe.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, productID uuid.UUID) (bool, error) {
	removed, err := r.client.HDel(ctx, cartKey(ownerID), productID.String()).Result()
	if err != nil {
		return false, fmt.Errorf("client.HDel: %w", err)
	}

	return removed > 0, nil
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) error {
	if err := r.client.Del(ctx, cartKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}
