package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/validation"
)

// TemplateStore описывает хранилище шаблонов сообществ.
type TemplateStore interface {
	ListAvailable(ctx context.Context, communityID *uuid.UUID) ([]models.PortfolioTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioTemplate, error)
	GetMandatory(ctx context.Context, communityID uuid.UUID) (*models.PortfolioTemplate, error)
	Create(ctx context.Context, t *models.PortfolioTemplate) error
	Update(ctx context.Context, t *models.PortfolioTemplate) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// CommunityRoles проверяет роли участников сообщества.
type CommunityRoles interface {
	HasRole(ctx context.Context, communityID, userID uuid.UUID, role string) (bool, error)
}

// TemplateService управляет шаблонами, сохранёнными в базе.
type TemplateService struct {
	repo  TemplateStore
	roles CommunityRoles
	cache *CacheService
	ttl   time.Duration
}

func NewTemplateService(repo TemplateStore, roles CommunityRoles, cache *CacheService) *TemplateService {
	return &TemplateService{repo: repo, roles: roles, cache: cache, ttl: 5 * time.Minute}
}

// TemplateInput - данные для создания или изменения шаблона.
type TemplateInput struct {
	UserID          uuid.UUID
	CommunityID     *uuid.UUID
	Name            string
	Description     *string
	Layout          json.RawMessage
	WidgetConfigs   json.RawMessage
	PreviewImageURL *string
	IsMandatory     bool
}

// ListAvailable возвращает системные шаблоны и шаблоны сообщества.
func (s *TemplateService) ListAvailable(ctx context.Context, communityID *uuid.UUID) ([]models.PortfolioTemplate, error) {
	key := TemplatesCacheKey("system")
	if communityID != nil {
		key = TemplatesCacheKey(communityID.String())
	}

	v, err := s.cache.GetOrSet(ctx, key, s.ttl, func() (interface{}, error) {
		return s.repo.ListAvailable(ctx, communityID)
	})
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch templates")
	}
	return v.([]models.PortfolioTemplate), nil
}

// GetMandatory возвращает обязательный шаблон сообщества или nil.
func (s *TemplateService) GetMandatory(ctx context.Context, communityID uuid.UUID) (*models.PortfolioTemplate, error) {
	t, err := s.repo.GetMandatory(ctx, communityID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch mandatory template")
	}
	return t, nil
}

// Create сохраняет шаблон сообщества. Создавать может только администратор сообщества.
func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.PortfolioTemplate, error) {
	if in.CommunityID == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "communityId is required")
	}
	if err := s.requireAdmin(ctx, *in.CommunityID, in.UserID); err != nil {
		return nil, err
	}

	t := &models.PortfolioTemplate{
		CommunityID: in.CommunityID,
		CreatedBy:   &in.UserID,
	}
	if err := applyTemplateInput(t, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create template")
	}
	s.invalidate()
	return t, nil
}

// Update меняет шаблон сообщества. Системные шаблоны через API не меняются.
func (s *TemplateService) Update(ctx context.Context, id uuid.UUID, in TemplateInput) (*models.PortfolioTemplate, error) {
	t, err := s.editable(ctx, id, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := applyTemplateInput(t, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, apperror.ErrTemplateNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to update template")
	}
	s.invalidate()
	return t, nil
}

// Delete выключает шаблон (мягкое удаление).
func (s *TemplateService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.editable(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return apperror.ErrTemplateNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete template")
	}
	s.invalidate()
	return nil
}

// ResolveComposition выбирает композицию для нового портфолио:
// шаблон из базы, если templateID - uuid; иначе обязательный шаблон сообщества.
// Возвращает nil, если ни один не подходит.
func (s *TemplateService) ResolveComposition(ctx context.Context, templateID string, communityID *uuid.UUID) (*entity.Composition, error) {
	var stored *models.PortfolioTemplate

	if id, err := uuid.Parse(templateID); err == nil {
		stored, err = s.repo.GetByID(ctx, id)
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, apperror.ErrTemplateNotFound
		}
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch template")
		}
	} else if templateID == "" && communityID != nil {
		stored, err = s.repo.GetMandatory(ctx, *communityID)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch mandatory template")
		}
	}

	if stored == nil {
		return nil, nil
	}
	tmpl, err := TemplateFromRecord(stored)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Stored template is invalid")
	}
	return tmpl.Composition(), nil
}

func (s *TemplateService) editable(ctx context.Context, id, userID uuid.UUID) (*models.PortfolioTemplate, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, apperror.ErrTemplateNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch template")
	}
	if t.CommunityID == nil {
		return nil, apperror.New(apperror.ErrCodeForbidden, "System templates are read-only")
	}
	if err := s.requireAdmin(ctx, *t.CommunityID, userID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TemplateService) requireAdmin(ctx context.Context, communityID, userID uuid.UUID) error {
	ok, err := s.roles.HasRole(ctx, communityID, userID, models.CommunityAdminRole)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to check permissions")
	}
	if !ok {
		return apperror.New(apperror.ErrCodeForbidden, "Only community admins can manage templates")
	}
	return nil
}

func (s *TemplateService) invalidate() {
	s.cache.InvalidateByPrefix(templatesCachePrefix)
}

func applyTemplateInput(t *models.PortfolioTemplate, in TemplateInput) error {
	name := strings.TrimSpace(in.Name)
	if err := validation.ValidateTemplateName(name); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLink("previewImageUrl", in.PreviewImageURL); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	t.Name = name
	t.Description = in.Description
	t.Layout = in.Layout
	t.WidgetConfigs = in.WidgetConfigs
	t.PreviewImageURL = in.PreviewImageURL
	t.IsMandatory = in.IsMandatory

	if _, err := TemplateFromRecord(t); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// TemplateFromRecord превращает строку portfolio_templates в шаблон конструктора.
// Каждый id из раскладки должен иметь запись в widget_configs.
func TemplateFromRecord(rec *models.PortfolioTemplate) (entity.Template, error) {
	var layout entity.Layout
	if err := json.Unmarshal(rec.Layout, &layout); err != nil {
		return entity.Template{}, fmt.Errorf("invalid layout: %w", err)
	}

	var configs []models.WidgetConfig
	if len(rec.WidgetConfigs) > 0 {
		if err := json.Unmarshal(rec.WidgetConfigs, &configs); err != nil {
			return entity.Template{}, fmt.Errorf("invalid widget_configs: %w", err)
		}
	}

	byID := make(map[string]models.WidgetConfig, len(configs))
	for _, cfg := range configs {
		byID[cfg.ID] = cfg
	}

	tmpl := entity.Template{
		ID:      rec.ID.String(),
		Name:    rec.Name,
		Content: map[string]json.RawMessage{},
	}
	if rec.Description != nil {
		tmpl.Description = *rec.Description
	}

	column := func(ids []string) ([]entity.WidgetDefinition, error) {
		defs := make([]entity.WidgetDefinition, 0, len(ids))
		for _, id := range ids {
			cfg, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("widget %q has no config", id)
			}
			kind, err := valueobject.NewWidgetKind(cfg.Type)
			if err != nil {
				return nil, fmt.Errorf("widget %q: %w", id, err)
			}
			def := entity.WidgetDefinition{ID: id, Kind: kind}
			if len(cfg.Props) > 0 && string(cfg.Props) != "null" {
				tmpl.Content[def.ContentKey()] = cfg.Props
			}
			defs = append(defs, def)
		}
		return defs, nil
	}

	var err error
	if tmpl.Left, err = column(layout.Left.Widgets); err != nil {
		return entity.Template{}, err
	}
	if tmpl.Right, err = column(layout.Right.Widgets); err != nil {
		return entity.Template{}, err
	}

	if err := tmpl.Validate(); err != nil {
		return entity.Template{}, err
	}
	return tmpl, nil
}
