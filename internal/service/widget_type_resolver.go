package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/models"
)

// WidgetTypeSource читает справочник widget_types.
type WidgetTypeSource interface {
	ListWidgetTypes(ctx context.Context) ([]models.WidgetType, error)
}

// WidgetTypeResolver отдаёт соответствие типов блоков и id из widget_types.
// Справочник кэшируется в памяти и, если задан Redis, в общем кэше.
// Параллельные промахи схлопываются в один запрос к базе.
type WidgetTypeResolver struct {
	source WidgetTypeSource
	memory *CacheService
	redis  *RedisCache
	ttl    time.Duration
	group  singleflight.Group
}

func NewWidgetTypeResolver(source WidgetTypeSource, memory *CacheService, redis *RedisCache, ttl time.Duration) *WidgetTypeResolver {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &WidgetTypeResolver{source: source, memory: memory, redis: redis, ttl: ttl}
}

// Resolve возвращает индекс типов. Возвращаемую карту нельзя изменять.
func (r *WidgetTypeResolver) Resolve(ctx context.Context) (entity.WidgetTypeIndex, error) {
	if cached, ok := r.memory.Get(widgetTypesCacheKey); ok {
		return cached.(entity.WidgetTypeIndex), nil
	}

	// Загрузка общая для всех ожидающих, поэтому отмена одного из них её не прерывает.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(widgetTypesCacheKey, func() (interface{}, error) {
		return r.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(entity.WidgetTypeIndex), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *WidgetTypeResolver) load(ctx context.Context) (entity.WidgetTypeIndex, error) {
	log := logger.WithComponent("widget_types")

	if r.redis != nil {
		var index entity.WidgetTypeIndex
		found, err := r.redis.GetJSON(ctx, widgetTypesCacheKey, &index)
		if err != nil {
			log.WithError(err).Warn("Redis read failed, falling back to database")
		} else if found {
			r.memory.Set(widgetTypesCacheKey, index, r.ttl)
			return index, nil
		}
	}

	types, err := r.source.ListWidgetTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("widget type resolver: load %w", err)
	}

	index := BuildWidgetTypeIndex(types)
	r.memory.Set(widgetTypesCacheKey, index, r.ttl)

	if r.redis != nil {
		if err := r.redis.SetJSON(ctx, widgetTypesCacheKey, index, r.ttl); err != nil {
			log.WithError(err).Warn("Redis write failed")
		}
	}

	log.WithField("types", len(index)).Debug("Widget types loaded")
	return index, nil
}

// Invalidate сбрасывает оба уровня кэша.
func (r *WidgetTypeResolver) Invalidate(ctx context.Context) error {
	r.memory.Delete(widgetTypesCacheKey)
	if r.redis != nil {
		return r.redis.Delete(ctx, widgetTypesCacheKey)
	}
	return nil
}

// BuildWidgetTypeIndex строит индекс из строк справочника. Неизвестные ключи пропускаются.
func BuildWidgetTypeIndex(types []models.WidgetType) entity.WidgetTypeIndex {
	index := make(entity.WidgetTypeIndex, len(types))
	for _, wt := range types {
		kind, err := valueobject.NewWidgetKind(wt.Key)
		if err != nil {
			continue
		}
		index[kind] = wt.ID
	}
	return index
}
