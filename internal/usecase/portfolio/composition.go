package portfolio

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

type SaveCompositionInput struct {
	UserID      uuid.UUID
	PortfolioID uuid.UUID
	Composition *entity.Composition
}

type SaveCompositionOutput struct {
	Layout  entity.Layout
	Widgets WidgetReport
}

// SaveCompositionUseCase заменяет блоки главной страницы и её раскладку.
type SaveCompositionUseCase struct {
	portfolios repository.PortfolioRepository
	pages      repository.PageRepository
	writer     *compositionWriter
}

func NewSaveCompositionUseCase(
	portfolios repository.PortfolioRepository,
	pages repository.PageRepository,
	widgets repository.WidgetInstanceRepository,
	layouts repository.LayoutRepository,
	types repository.WidgetTypeResolver,
) *SaveCompositionUseCase {
	return &SaveCompositionUseCase{
		portfolios: portfolios,
		pages:      pages,
		writer:     &compositionWriter{widgets: widgets, layouts: layouts, types: types},
	}
}

func (uc *SaveCompositionUseCase) Execute(ctx context.Context, input SaveCompositionInput) (*SaveCompositionOutput, error) {
	if input.Composition == nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "composition is required")
	}
	if err := input.Composition.Validate(); err != nil {
		return nil, err
	}

	page, err := ownedMainPage(ctx, uc.portfolios, uc.pages, input.PortfolioID, input.UserID)
	if err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{
		"component":    "save_composition",
		"user_id":      input.UserID,
		"portfolio_id": input.PortfolioID,
	})

	// Справочник типов нужен до любой записи: при ошибке страница не меняется.
	if _, err := uc.writer.types.Resolve(ctx); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load widget types")
	}
	previous, err := uc.writer.widgets.FindByPage(ctx, page.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load widgets")
	}
	before := make(map[uuid.UUID]json.RawMessage, len(previous))
	for _, inst := range previous {
		before[inst.ID] = append(json.RawMessage(nil), inst.Props...)
	}

	s := newSaga(log)
	layout, report, err := uc.writer.writeWidgets(ctx, log, page.ID, input.Composition)
	if err != nil {
		return nil, err
	}
	uc.registerRollback(s, previous, before, report)

	if _, err := uc.writer.saveLayout(ctx, page.ID, layout); err != nil {
		s.compensate(ctx)
		return nil, err
	}

	// Старые строки удаляются только после сохранения новой раскладки.
	kept := make(map[uuid.UUID]bool, len(report.Created))
	for _, c := range report.Created {
		kept[c.InstanceID] = true
	}
	for _, inst := range previous {
		if kept[inst.ID] {
			continue
		}
		if err := uc.writer.widgets.Delete(ctx, inst.ID); err != nil {
			log.WithError(err).WithField("instance_id", inst.ID).Warn("stale widget was not removed")
		}
	}

	log.WithField("failed", len(report.Failed)).Info("composition saved")
	return &SaveCompositionOutput{Layout: layout, Widgets: report}, nil
}

// registerRollback откатывает новые строки блоков и возвращает прежние props
// блокам, обновлённым на месте.
func (uc *SaveCompositionUseCase) registerRollback(s *saga, previous []*entity.WidgetInstance, before map[uuid.UUID]json.RawMessage, report WidgetReport) {
	byID := make(map[uuid.UUID]*entity.WidgetInstance, len(previous))
	for _, inst := range previous {
		byID[inst.ID] = inst
	}
	for _, c := range report.Created {
		created := c
		old, existed := byID[created.InstanceID]
		if !existed {
			s.onFailure("delete widget "+created.ID, func(ctx context.Context) error {
				return uc.writer.widgets.Delete(ctx, created.InstanceID)
			})
			continue
		}
		restored := *old
		restored.Props = before[old.ID]
		s.onFailure("restore widget "+created.ID, func(ctx context.Context) error {
			return uc.writer.widgets.UpsertByType(ctx, &restored)
		})
	}
}

// GetCompositionUseCase восстанавливает композицию из сохранённых блоков и раскладки.
type GetCompositionUseCase struct {
	portfolios repository.PortfolioRepository
	pages      repository.PageRepository
	widgets    repository.WidgetInstanceRepository
	layouts    repository.LayoutRepository
	types      repository.WidgetTypeResolver
}

func NewGetCompositionUseCase(
	portfolios repository.PortfolioRepository,
	pages repository.PageRepository,
	widgets repository.WidgetInstanceRepository,
	layouts repository.LayoutRepository,
	types repository.WidgetTypeResolver,
) *GetCompositionUseCase {
	return &GetCompositionUseCase{portfolios: portfolios, pages: pages, widgets: widgets, layouts: layouts, types: types}
}

func (uc *GetCompositionUseCase) Execute(ctx context.Context, portfolioID, userID uuid.UUID) (*entity.Composition, error) {
	page, err := ownedMainPage(ctx, uc.portfolios, uc.pages, portfolioID, userID)
	if err != nil {
		return nil, err
	}

	index, err := uc.types.Resolve(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load widget types")
	}
	instances, err := uc.widgets.FindByPage(ctx, page.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load widgets")
	}
	stored, err := uc.layouts.FindByPage(ctx, page.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load layout")
	}

	comp := &entity.Composition{
		Identity: entity.DefaultIdentity(),
		Left:     []entity.WidgetDefinition{},
		Right:    []entity.WidgetDefinition{},
		Content:  map[string]json.RawMessage{},
	}

	byID := make(map[string]entity.WidgetDefinition, len(instances))
	for _, inst := range instances {
		kind, ok := index.KindOf(inst.WidgetTypeID)
		if !ok {
			continue
		}
		def := entity.WidgetDefinition{ID: entity.PersistedWidgetID(kind, inst.ID), Kind: kind}
		byID[def.ID] = def
		if def.Role().IsPinned() {
			if err := json.Unmarshal(inst.Props, &comp.Identity); err != nil {
				return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Stored identity is corrupted")
			}
			continue
		}
		comp.Content[def.ContentKey()] = inst.Props
	}

	// id без строки в widget_instances (висячие ссылки) пропускаются.
	layout := entity.NewLayout(nil, nil)
	if stored != nil {
		layout = stored.Layout
	}
	for _, id := range layout.Left.Widgets {
		if def, ok := byID[id]; ok {
			comp.Left = append(comp.Left, def)
		}
	}
	for _, id := range layout.Right.Widgets {
		if def, ok := byID[id]; ok {
			comp.Right = append(comp.Right, def)
		}
	}
	if _, _, ok := comp.Find(entity.IdentityWidgetID); !ok {
		comp.Left = append([]entity.WidgetDefinition{{ID: entity.IdentityWidgetID, Kind: valueobject.WidgetKindIdentity}}, comp.Left...)
	}

	return comp, nil
}

func ownedMainPage(ctx context.Context, portfolios repository.PortfolioRepository, pages repository.PageRepository, portfolioID, userID uuid.UUID) (*entity.Page, error) {
	p, err := portfolios.FindByID(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(userID) {
		return nil, apperror.ErrPortfolioNotFound
	}
	page, err := pages.FindMain(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return page, nil
}
