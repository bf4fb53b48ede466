package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewCacheService(ctx)
}

func TestCacheService_SetGetExpire(t *testing.T) {
	cs := newTestCache(t)

	cs.Set("a", 1, time.Minute)
	cs.Set("b", 2, -time.Second)

	v, ok := cs.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = cs.Get("b")
	assert.False(t, ok, "expired entry must not be served")

	cs.evictExpired(time.Now())
	assert.Equal(t, 1, cs.Len())
}

func TestCacheService_InvalidateByPrefix(t *testing.T) {
	cs := newTestCache(t)
	cs.Set(TemplatesCacheKey("c1"), "x", time.Minute)
	cs.Set(TemplatesCacheKey("c2"), "y", time.Minute)
	cs.Set(themesCacheKey, "z", time.Minute)

	cs.InvalidateByPrefix(templatesCachePrefix)

	assert.Equal(t, 1, cs.Len())
	_, ok := cs.Get(themesCacheKey)
	assert.True(t, ok)
}

func TestCacheService_GetOrSet(t *testing.T) {
	cs := newTestCache(t)
	calls := 0
	fn := func() (interface{}, error) {
		calls++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := cs.GetOrSet(context.Background(), "k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, calls)

	_, err := cs.GetOrSet(context.Background(), "err", time.Minute, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.Error(t, err)
	_, ok := cs.Get("err")
	assert.False(t, ok, "errors are not cached")
}

func TestCacheService_GetOrSetCollapsesConcurrentMisses(t *testing.T) {
	cs := newTestCache(t)
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func() (interface{}, error) {
		calls.Add(1)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cs.GetOrSet(context.Background(), "shared", time.Minute, fn)
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestCacheService_GetOrSetHonoursContext(t *testing.T) {
	cs := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	_, err := cs.GetOrSet(ctx, "slow", time.Minute, func() (interface{}, error) {
		<-block
		return nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
