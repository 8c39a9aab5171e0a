package zonecache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/traviworld/editorial/internal/logger"
)

const scanBatchSize = 100

// Cache stores rendered zone payloads in Redis so hot zones are served
// without touching Postgres. A miss or any Redis error falls through to
// the database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func (c *Cache) key(zone string) string {
	return fmt.Sprintf("zone:placements:%s", zone)
}

// Get returns the cached payload for a zone and whether it was present.
func (c *Cache) Get(ctx context.Context, zone string) ([]byte, bool) {
	key := c.key(zone)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Error("Redis error reading zone cache",
				logger.String("zone", zone),
				logger.String("redis_key", key),
				logger.Error(err),
			)
		}
		return nil, false
	}

	c.logger.Debug("Zone cache hit",
		logger.String("zone", zone),
		logger.String("redis_key", key),
	)

	return payload, true
}

// Set stores a zone payload with the configured TTL.
func (c *Cache) Set(ctx context.Context, zone string, payload []byte) error {
	key := c.key(zone)

	err := c.client.Set(ctx, key, payload, c.ttl).Err()
	if err != nil {
		c.logger.Error("Redis error writing zone cache",
			logger.String("zone", zone),
			logger.String("redis_key", key),
			logger.Duration("ttl", c.ttl),
			logger.Error(err),
		)
		return err
	}

	return nil
}

// Invalidate drops the cached payloads for the given zones. Admin writes
// call this so the next public read rebuilds from Postgres.
func (c *Cache) Invalidate(ctx context.Context, zones ...string) error {
	if len(zones) == 0 {
		return nil
	}

	keys := make([]string, 0, len(zones))
	for _, zone := range zones {
		keys = append(keys, c.key(zone))
	}

	err := c.client.Del(ctx, keys...).Err()
	if err != nil {
		c.logger.Error("Redis error invalidating zone cache",
			logger.Strings("zones", zones),
			logger.Error(err),
		)
		return err
	}

	c.logger.Debug("Zone cache invalidated", logger.Strings("zones", zones))

	return nil
}

// FlushAll removes every cached zone payload.
// Uses SCAN rather than FLUSHDB so other keys in the database survive.
func (c *Cache) FlushAll(ctx context.Context) (int, error) {
	pattern := "zone:placements:*"
	var cursor uint64
	var deletedCount int

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			c.logger.Error("Redis error scanning zone cache keys",
				logger.String("pattern", pattern),
				logger.Error(err),
			)
			return deletedCount, fmt.Errorf("scan keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, delErr := c.client.Del(ctx, keys...).Result()
			if delErr != nil {
				return deletedCount, fmt.Errorf("delete keys: %w", delErr)
			}
			deletedCount += int(deleted)
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Flushed zone cache",
		logger.Int("keys_deleted", deletedCount),
	)

	return deletedCount, nil
}
