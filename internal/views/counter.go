package views

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/traviworld/editorial/internal/logger"
)

const scanBatchSize = 100

// Counter tracks per-content daily view counts in Redis. Each calendar
// day gets its own key so lookback windows are a matter of summing keys,
// and retention is enforced by Redis TTLs rather than a cleanup job.
type Counter struct {
	client *redis.Client
	logger logger.Logger
}

func NewCounter(client *redis.Client, log logger.Logger) *Counter {
	return &Counter{
		client: client,
		logger: log,
	}
}

// Track records one view of the content for the day containing now.
func (c *Counter) Track(ctx context.Context, contentID uuid.UUID, now time.Time) error {
	key := dayKey(contentID, now)
	ttl := RetentionDays * HoursPerDay * time.Hour

	// Pipeline keeps the increment and its TTL refresh in one round trip
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		c.logger.Warn("Failed to track view",
			logger.String("content_id", contentID.String()),
			logger.String("redis_key", key),
			logger.Error(err),
		)
		return fmt.Errorf("track view: %w", err)
	}

	return nil
}

// CountSince sums the content's views over the last `days` calendar days,
// including today. Missing day keys count as zero.
func (c *Counter) CountSince(ctx context.Context, contentID uuid.UUID, days int, now time.Time) (int64, error) {
	if days < 1 {
		days = 1
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, 0, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -i)
		cmds = append(cmds, pipe.Get(ctx, dayKey(contentID, day)))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("read view counters: %w", err)
	}

	var total int64
	for _, cmd := range cmds {
		if val, valErr := cmd.Int64(); valErr == nil {
			total += val
		}
	}

	return total, nil
}

// BulkCountSince sums views for many contents in a single pipeline.
// Contents with no recorded views map to zero.
func (c *Counter) BulkCountSince(ctx context.Context, contentIDs []uuid.UUID, days int, now time.Time) (map[uuid.UUID]int64, error) {
	if days < 1 {
		days = 1
	}

	pipe := c.client.Pipeline()
	cmds := make(map[uuid.UUID][]*redis.StringCmd, len(contentIDs))
	for _, id := range contentIDs {
		dayCmds := make([]*redis.StringCmd, 0, days)
		for i := 0; i < days; i++ {
			day := now.AddDate(0, 0, -i)
			dayCmds = append(dayCmds, pipe.Get(ctx, dayKey(id, day)))
		}
		cmds[id] = dayCmds
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read view counters: %w", err)
	}

	totals := make(map[uuid.UUID]int64, len(contentIDs))
	for id, dayCmds := range cmds {
		var total int64
		for _, cmd := range dayCmds {
			if val, valErr := cmd.Int64(); valErr == nil {
				total += val
			}
		}
		totals[id] = total
	}

	return totals, nil
}

// TotalForDay sums every content's view counter for the day containing now.
func (c *Counter) TotalForDay(ctx context.Context, now time.Time) (int64, error) {
	pattern := fmt.Sprintf("views:*:%s", now.UTC().Format(DayFormat))

	var total int64
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return 0, fmt.Errorf("scan view counters: %w", err)
		}

		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			cmds := make([]*redis.StringCmd, 0, len(keys))
			for _, key := range keys {
				cmds = append(cmds, pipe.Get(ctx, key))
			}
			if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
				return 0, fmt.Errorf("read view counters: %w", err)
			}
			for _, cmd := range cmds {
				if val, valErr := cmd.Int64(); valErr == nil {
					total += val
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return total, nil
}
