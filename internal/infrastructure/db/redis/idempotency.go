package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "checkout:"
	idempotencyTTL       = 24 * time.Hour
	reservationTTL       = 30 * time.Second
	pendingMarker        = "pending"
)

// IdempotencyStore maps checkout idempotency keys to the sale they produced.
// Key format: checkout:<idempotency_key>. While a checkout runs the value is
// "pending" with a short TTL, so a crashed request frees the key on its own.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Reserve claims key with SETNX. If another request holds it, the recorded
// sale ID is returned, or "" while that request is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, string, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKey(key), pendingMarker, reservationTTL).Result()
	if err != nil {
		return false, "", fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return true, "", nil
	}
	saleID, err := s.client.Get(ctx, idempotencyKey(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// Released or expired between the two calls; the client retries.
		return false, "", nil
	case err != nil:
		return false, "", fmt.Errorf("idempotency lookup: %w", err)
	case saleID == pendingMarker:
		return false, "", nil
	}
	return false, saleID, nil
}

// Complete records saleID for key for idempotencyTTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key, saleID string) error {
	if err := s.client.Set(ctx, idempotencyKey(key), saleID, idempotencyTTL).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose checkout failed.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func idempotencyKey(key string) string {
	return idempotencyKeyPrefix + key
}
