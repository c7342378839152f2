// Package cache holds the Redis-backed slot picklist cache. The picklist is
// the hottest read of the public funnel and is safe to serve slightly stale;
// every reservation write invalidates the date's entries.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/metrics"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
)

// SlotCache caches day picklists keyed by date and caller role. A nil
// *SlotCache is a valid no-op cache.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a slot cache. Returns nil (no-op) when rdb is nil or the TTL
// is not positive.
func New(rdb *redis.Client, ttl time.Duration) *SlotCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &SlotCache{rdb: rdb, ttl: ttl}
}

func key(date time.Time, staff bool) string {
	role := "public"
	if staff {
		role = "staff"
	}
	return fmt.Sprintf("slots:%s:%s", date.Format(model.DateKey), role)
}

// Get returns the cached picklist for a date and role, or ok=false on miss
// or any Redis error (the caller recomputes).
func (c *SlotCache) Get(ctx context.Context, date time.Time, staff bool) ([]schedule.TimeSlot, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key(date, staff)).Result()
	if err != nil {
		metrics.IncSlotCache("miss")
		return nil, false
	}
	var slots []schedule.TimeSlot
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		metrics.IncSlotCache("miss")
		return nil, false
	}
	metrics.IncSlotCache("hit")
	return slots, true
}

// Set stores the picklist for a date and role. Errors are dropped: the
// cache is best-effort.
func (c *SlotCache) Set(ctx context.Context, date time.Time, staff bool, slots []schedule.TimeSlot) {
	if c == nil {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key(date, staff), data, c.ttl).Err()
}

// InvalidateDate drops both role variants for a date. Called after every
// reservation write touching the date.
func (c *SlotCache) InvalidateDate(ctx context.Context, date time.Time) {
	if c == nil {
		return
	}
	_ = c.rdb.Del(ctx, key(date, false), key(date, true)).Err()
}
