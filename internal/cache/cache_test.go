package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/schedule"
)

func testCache(t *testing.T) (*SlotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, time.Minute), mr
}

func TestSlotCache_RoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	slots := []schedule.TimeSlot{
		{Hour: 18, Label: "18:00", Left: 6, Available: true},
		{Hour: 19, Label: "19:00", Left: 0, Available: false},
	}

	_, ok := c.Get(ctx, date, false)
	assert.False(t, ok)

	c.Set(ctx, date, false, slots)

	got, ok := c.Get(ctx, date, false)
	require.True(t, ok)
	assert.Equal(t, slots, got)

	// Role variants are separate entries.
	_, ok = c.Get(ctx, date, true)
	assert.False(t, ok)
}

func TestSlotCache_InvalidateDate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	slots := []schedule.TimeSlot{{Hour: 18, Label: "18:00", Available: true}}
	c.Set(ctx, date, false, slots)
	c.Set(ctx, date, true, slots)

	c.InvalidateDate(ctx, date)

	_, ok := c.Get(ctx, date, false)
	assert.False(t, ok)
	_, ok = c.Get(ctx, date, true)
	assert.False(t, ok)
}

func TestSlotCache_Expiry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, date, false, []schedule.TimeSlot{{Hour: 18}})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, date, false)
	assert.False(t, ok)
}

func TestSlotCache_NilIsNoop(t *testing.T) {
	var c *SlotCache
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	c.Set(ctx, date, false, nil)
	c.InvalidateDate(ctx, date)
	_, ok := c.Get(ctx, date, false)
	assert.False(t, ok)

	assert.Nil(t, New(nil, time.Minute))
	assert.Nil(t, New(redis.NewClient(&redis.Options{}), 0))
}
