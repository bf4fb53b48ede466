package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

var (
	// ErrSlugTaken возвращается при нарушении уникальности portfolios_slug_idx.
	ErrSlugTaken = errors.New("portfolio slug already taken")
	// ErrPortfolioExists возвращается при нарушении уникальности портфолио пользователя в сообществе.
	ErrPortfolioExists = errors.New("portfolio already exists")
)

type PortfolioRepository interface {
	// Create вставляет строку со slug из p.Slug. При занятом slug возвращает ErrSlugTaken.
	Create(ctx context.Context, p *entity.Portfolio) error
	Update(ctx context.Context, p *entity.Portfolio) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Portfolio, error)
	// FindExisting ищет портфолио пользователя в сообществе (или без сообщества при communityID == nil).
	// Возвращает nil, nil если записи нет.
	FindExisting(ctx context.Context, userID uuid.UUID, communityID *uuid.UUID) (*entity.Portfolio, error)
	FindAnyByUser(ctx context.Context, userID uuid.UUID) (*entity.Portfolio, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Portfolio, error)
}

type PageRepository interface {
	Create(ctx context.Context, page *entity.Page) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindMain(ctx context.Context, portfolioID uuid.UUID) (*entity.Page, error)
}

type WidgetInstanceRepository interface {
	Create(ctx context.Context, w *entity.WidgetInstance) error
	// UpsertByType обновляет props существующего блока того же типа на странице.
	UpsertByType(ctx context.Context, w *entity.WidgetInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPage(ctx context.Context, pageID uuid.UUID) error
	FindByPage(ctx context.Context, pageID uuid.UUID) ([]*entity.WidgetInstance, error)
}

type LayoutRepository interface {
	Upsert(ctx context.Context, l *entity.PageLayout) error
	Delete(ctx context.Context, pageID uuid.UUID) error
	FindByPage(ctx context.Context, pageID uuid.UUID) (*entity.PageLayout, error)
}

// WidgetTypeResolver отдаёт соответствие типов блоков и id строк widget_types.
type WidgetTypeResolver interface {
	Resolve(ctx context.Context) (entity.WidgetTypeIndex, error)
}
