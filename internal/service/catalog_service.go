package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

const widgetTypeRowsCacheKey = widgetTypesCacheKey + ":rows"

type CatalogStore interface {
	WidgetTypeSource
	ListThemes(ctx context.Context) ([]models.Theme, error)
	UpsertWidgetType(ctx context.Context, wt *models.WidgetType) (bool, error)
}

// SyncReport - итог регистрации типов блоков в widget_types.
type SyncReport struct {
	Inserted []string `json:"inserted"`
	Updated  []string `json:"updated"`
}

// CatalogService отдаёт справочники тем и типов блоков.
type CatalogService struct {
	store    CatalogStore
	cache    *CacheService
	resolver *WidgetTypeResolver
	ttl      time.Duration
}

func NewCatalogService(store CatalogStore, cache *CacheService, resolver *WidgetTypeResolver) *CatalogService {
	return &CatalogService{store: store, cache: cache, resolver: resolver, ttl: 10 * time.Minute}
}

func (s *CatalogService) ListThemes(ctx context.Context) ([]models.Theme, error) {
	v, err := s.cache.GetOrSet(ctx, themesCacheKey, s.ttl, func() (interface{}, error) {
		return s.store.ListThemes(ctx)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch themes")
	}
	return v.([]models.Theme), nil
}

func (s *CatalogService) ListWidgetTypes(ctx context.Context) ([]models.WidgetType, error) {
	v, err := s.cache.GetOrSet(ctx, widgetTypeRowsCacheKey, s.ttl, func() (interface{}, error) {
		return s.store.ListWidgetTypes(ctx)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch widget types")
	}
	return v.([]models.WidgetType), nil
}

// SyncWidgetTypes регистрирует все известные типы блоков и сбрасывает кэши справочника.
func (s *CatalogService) SyncWidgetTypes(ctx context.Context) (*SyncReport, error) {
	report := &SyncReport{Inserted: []string{}, Updated: []string{}}

	for _, spec := range entity.WidgetSpecs() {
		wt := &models.WidgetType{Key: string(spec.Kind), Name: spec.DisplayName, Category: spec.Category}
		inserted, err := s.store.UpsertWidgetType(ctx, wt)
		if err != nil {
			return report, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to sync widget types")
		}
		if inserted {
			report.Inserted = append(report.Inserted, wt.Key)
		} else {
			report.Updated = append(report.Updated, wt.Key)
		}
	}

	s.cache.Delete(widgetTypeRowsCacheKey)
	if s.resolver != nil {
		if err := s.resolver.Invalidate(ctx); err != nil {
			logger.WithComponent("catalog").WithError(err).Warn("failed to invalidate shared widget type cache")
		}
	}

	logger.WithFields(logrus.Fields{
		"inserted": len(report.Inserted),
		"updated":  len(report.Updated),
	}).Info("widget types synced")
	return report, nil
}
