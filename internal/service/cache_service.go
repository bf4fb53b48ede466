package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pathwai/pathwai-backend/internal/goroutine"
	"github.com/pathwai/pathwai-backend/internal/logger"
)

const cacheSweepInterval = 5 * time.Minute

// Ключи справочников в кэше процесса.
const (
	widgetTypesCacheKey  = "catalog:widget_types"
	themesCacheKey       = "catalog:themes"
	templatesCachePrefix = "catalog:templates:"
)

// TemplatesCacheKey - ключ списка шаблонов сообщества или "system".
func TemplatesCacheKey(communityID string) string {
	return templatesCachePrefix + communityID
}

// CacheService - кэш справочников в памяти процесса с TTL.
// Параллельные промахи по одному ключу схлопываются в одну загрузку.
type CacheService struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	loads   singleflight.Group
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCacheService создаёт кэш. Фоновая очистка живёт, пока жив ctx.
func NewCacheService(ctx context.Context) *CacheService {
	cs := &CacheService{entries: make(map[string]cacheEntry)}
	goroutine.NewRecoveryHandler(logger.WithComponent("cache")).
		SafeGoWithContext(ctx, "cache.sweep", cs.sweep)
	return cs
}

// Get отдаёт значение, если оно есть и не просрочено.
func (cs *CacheService) Get(key string) (interface{}, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, ok := cs.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.entries[key] = cacheEntry{data: value, expiresAt: time.Now().Add(ttl)}
}

func (cs *CacheService) Delete(key string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.entries, key)
}

// InvalidateByPrefix удаляет все ключи с префиксом.
func (cs *CacheService) InvalidateByPrefix(prefix string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for key := range cs.entries {
		if strings.HasPrefix(key, prefix) {
			delete(cs.entries, key)
		}
	}
}

// Len возвращает число записей вместе с просроченными.
func (cs *CacheService) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.entries)
}

// GetOrSet отдаёт значение из кэша или загружает его через fn.
// Ошибки fn не кэшируются.
func (cs *CacheService) GetOrSet(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fn func() (interface{}, error),
) (interface{}, error) {
	if value, ok := cs.Get(key); ok {
		return value, nil
	}

	ch := cs.loads.DoChan(key, func() (interface{}, error) {
		if value, ok := cs.Get(key); ok {
			return value, nil
		}
		value, err := fn()
		if err != nil {
			return nil, err
		}
		cs.Set(key, value, ttl)
		return value, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (cs *CacheService) sweep(ctx context.Context) {
	ticker := time.NewTicker(cacheSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cs.evictExpired(now)
		}
	}
}

func (cs *CacheService) evictExpired(now time.Time) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for key, entry := range cs.entries {
		if now.After(entry.expiresAt) {
			delete(cs.entries, key)
		}
	}
}
