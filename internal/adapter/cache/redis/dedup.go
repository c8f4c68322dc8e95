package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/redis/go-redis/v9"
)

const (
	KeyDedup = "dedup:%s:%s"
	TTLDedup = 48 * time.Hour
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Deduplicator marks processed ids with expiring keys.
type Deduplicator struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ port.Deduplicator = (*Deduplicator)(nil)

func NewDeduplicator(rdb *redis.Client, ttl time.Duration) *Deduplicator {
	if ttl <= 0 {
		ttl = TTLDedup
	}
	return &Deduplicator{rdb: rdb, ttl: ttl}
}

// Claim sets the key only if it is absent, so concurrent consumers race on one SETNX.
func (d *Deduplicator) Claim(ctx context.Context, scope string, id string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, fmt.Sprintf(KeyDedup, scope, id), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

func (d *Deduplicator) Ping(ctx context.Context) error {
	return d.rdb.Ping(ctx).Err()
}
