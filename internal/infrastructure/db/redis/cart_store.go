package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/bistro/pos-system/internal/core/domain"
)

const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 12 * time.Hour

	cartUpdateRetries = 4
	cartUpdateBackoff = 5 * time.Millisecond
)

// CartStore keeps open carts as JSON documents. Each save refreshes the TTL,
// so abandoned carts expire on their own.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartStore creates a CartStore. If ttl <= 0, defaultCartTTL is used.
func NewCartStore(client *redis.Client, ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &CartStore{client: client, ttl: ttl}
}

func (s *CartStore) Save(ctx context.Context, c *domain.Cart) error {
	data, err := encodeCart(c)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cartKey(c.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Get(ctx context.Context, id string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return decodeCart(data)
}

// Update runs fn inside WATCH/MULTI on the cart key. If another writer
// touches the cart first, the read-modify-write is retried from a fresh copy;
// when the retries run out ErrCartConflict is returned.
func (s *CartStore) Update(ctx context.Context, id string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	key := cartKey(id)
	var updated *domain.Cart

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return domain.ErrCartNotFound
			}
			return fmt.Errorf("get cart: %w", err)
		}
		c, err := decodeCart(data)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		out, err := encodeCart(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, s.ttl)
			return nil
		})
		if err == nil {
			updated = c
		}
		return err
	}

	backoff := retry.WithMaxRetries(cartUpdateRetries, retry.NewExponential(cartUpdateBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			return retry.RetryableError(err)
		}
		return err
	})
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return nil, domain.ErrCartConflict
	case err != nil:
		return nil, err
	}
	return updated, nil
}

func (s *CartStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, cartKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	if n == 0 {
		return domain.ErrCartNotFound
	}
	return nil
}

func cartKey(id string) string {
	return cartKeyPrefix + id
}

func encodeCart(c *domain.Cart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return data, nil
}

func decodeCart(data []byte) (*domain.Cart, error) {
	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	return &c, nil
}
