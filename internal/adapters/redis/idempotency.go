package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Idempotency stores the first response produced for a (tenant, key) pair.
type Idempotency struct{ c *redis.Client }

func NewIdempotency(c *Cache) *Idempotency { return &Idempotency{c: c.c} }

func idemKey(tenantID, key string) string { return fmt.Sprintf("idem:%s:%s", tenantID, key) }

func (s *Idempotency) Lookup(ctx context.Context, tenantID, key string, dst any) (bool, error) {
	v, err := s.c.Get(ctx, idemKey(tenantID, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(v, dst)
}

// Remember keeps v for ttl unless a response is already stored for the key;
// the first writer wins.
func (s *Idempotency) Remember(ctx context.Context, tenantID, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.c.SetNX(ctx, idemKey(tenantID, key), b, ttl).Err()
}
