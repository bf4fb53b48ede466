package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/slug"
)

// TemplateSource - каталог шаблонов. Resolve возвращает пустой шаблон для неизвестного id.
type TemplateSource interface {
	Resolve(id string) entity.Template
}

// StoredTemplates - шаблоны из базы: по uuid или обязательный шаблон сообщества.
// nil без ошибки означает, что подходящего шаблона нет.
type StoredTemplates interface {
	ResolveComposition(ctx context.Context, templateID string, communityID *uuid.UUID) (*entity.Composition, error)
}

type CreatePortfolioInput struct {
	UserID      uuid.UUID
	Name        string
	Description *string
	ThemeID     *uuid.UUID
	CommunityID *uuid.UUID
	TemplateID  string
	// Composition имеет приоритет над TemplateID.
	Composition *entity.Composition
}

type CreatePortfolioOutput struct {
	Portfolio *entity.Portfolio
	Page      *entity.Page
	Layout    entity.Layout
	Widgets   WidgetReport
}

type CreatePortfolioUseCase struct {
	portfolios   repository.PortfolioRepository
	pages        repository.PageRepository
	writer       *compositionWriter
	templates    TemplateSource
	stored       StoredTemplates
	slugAttempts int
}

func NewCreatePortfolioUseCase(
	portfolios repository.PortfolioRepository,
	pages repository.PageRepository,
	widgets repository.WidgetInstanceRepository,
	layouts repository.LayoutRepository,
	types repository.WidgetTypeResolver,
	templates TemplateSource,
) *CreatePortfolioUseCase {
	return &CreatePortfolioUseCase{
		portfolios:   portfolios,
		pages:        pages,
		writer:       &compositionWriter{widgets: widgets, layouts: layouts, types: types},
		templates:    templates,
		slugAttempts: slug.NumberedAttempts,
	}
}

// SetStoredTemplates подключает шаблоны сообществ из базы.
func (uc *CreatePortfolioUseCase) SetStoredTemplates(stored StoredTemplates) {
	uc.stored = stored
}

// SetSlugAttempts задаёт число нумерованных вариантов slug перед случайным суффиксом.
func (uc *CreatePortfolioUseCase) SetSlugAttempts(n int) {
	if n >= 0 {
		uc.slugAttempts = n
	}
}

func (uc *CreatePortfolioUseCase) Execute(ctx context.Context, input CreatePortfolioInput) (*CreatePortfolioOutput, error) {
	p, err := entity.NewPortfolio(input.UserID, input.Name, input.Description, input.ThemeID, input.CommunityID)
	if err != nil {
		return nil, err
	}

	if err := uc.ensureNoExisting(ctx, input.UserID, input.CommunityID); err != nil {
		return nil, err
	}

	comp, err := uc.compositionFor(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := comp.Validate(); err != nil {
		return nil, err
	}

	log := logger.WithFields(logrus.Fields{
		"component": "create_portfolio",
		"user_id":   input.UserID,
	})
	s := newSaga(log)

	if err := uc.insertWithSlug(ctx, log, p); err != nil {
		if errors.Is(err, repository.ErrPortfolioExists) {
			if conflict := uc.ensureNoExisting(ctx, input.UserID, input.CommunityID); conflict != nil {
				return nil, conflict
			}
			return nil, apperror.New(apperror.ErrCodeConflict, "You already have a portfolio")
		}
		if apperror.IsValidation(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create portfolio")
	}
	log = log.WithField("portfolio_id", p.ID)
	s.onFailure("delete portfolio", func(ctx context.Context) error {
		return uc.portfolios.Delete(ctx, p.ID)
	})

	page := entity.NewMainPage(p.ID)
	if err := uc.pages.Create(ctx, page); err != nil {
		s.compensate(ctx)
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create page")
	}
	s.onFailure("delete page", func(ctx context.Context) error {
		return uc.pages.Delete(ctx, page.ID)
	})

	layout, report, err := uc.writer.writeWidgets(ctx, log, page.ID, comp)
	if err != nil {
		s.compensate(ctx)
		return nil, err
	}
	s.onFailure("delete widgets", func(ctx context.Context) error {
		return uc.writer.widgets.DeleteByPage(ctx, page.ID)
	})

	if _, err := uc.writer.saveLayout(ctx, page.ID, layout); err != nil {
		s.compensate(ctx)
		return nil, err
	}

	if report.HasFailures() {
		log.WithField("failed", len(report.Failed)).Warn("portfolio created with missing widgets")
	} else {
		log.Info("portfolio created")
	}

	return &CreatePortfolioOutput{
		Portfolio: p,
		Page:      page,
		Layout:    layout,
		Widgets:   report,
	}, nil
}

// ensureNoExisting возвращает 409 с данными уже существующего портфолио.
func (uc *CreatePortfolioUseCase) ensureNoExisting(ctx context.Context, userID uuid.UUID, communityID *uuid.UUID) error {
	existing, err := uc.portfolios.FindExisting(ctx, userID, communityID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to check existing portfolios")
	}
	if existing == nil {
		return nil
	}

	message := "You already have a portfolio"
	if communityID != nil {
		message = "You already have a portfolio in this community"
	}
	return apperror.New(apperror.ErrCodeConflict, message).
		WithDetails("existingPortfolio", map[string]any{
			"id":   existing.ID,
			"name": existing.Name,
			"slug": existing.Slug,
		})
}

// compositionFor выбирает источник: композиция из запроса, шаблон из базы,
// шаблон каталога, затем значения конструктора по умолчанию.
func (uc *CreatePortfolioUseCase) compositionFor(ctx context.Context, input CreatePortfolioInput) (*entity.Composition, error) {
	if input.Composition != nil {
		return input.Composition, nil
	}
	if uc.stored != nil {
		comp, err := uc.stored.ResolveComposition(ctx, input.TemplateID, input.CommunityID)
		if err != nil {
			return nil, err
		}
		if comp != nil {
			return comp, nil
		}
	}
	if input.TemplateID != "" && uc.templates != nil {
		return uc.templates.Resolve(input.TemplateID).Composition(), nil
	}
	return entity.NewComposition(), nil
}

// insertWithSlug перебирает кандидатов slug, пока вставка не пройдёт.
func (uc *CreatePortfolioUseCase) insertWithSlug(ctx context.Context, log *logrus.Entry, p *entity.Portfolio) error {
	candidates := slug.Candidates(slug.Base(p.Name), uc.slugAttempts)
	for _, candidate := range candidates {
		p.Slug = candidate
		err := uc.portfolios.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrSlugTaken) {
			return err
		}
		log.WithField("slug", candidate).Debug("slug taken, trying next candidate")
	}
	return fmt.Errorf("portfolio usecase: could not create a unique slug after %d attempts", len(candidates))
}
