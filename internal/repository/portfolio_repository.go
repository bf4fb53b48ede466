package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pathwai/pathwai-backend/internal/models"
)

// ErrPortfolioNotFound возвращается, когда публичное портфолио не найдено.
var ErrPortfolioNotFound = errors.New("portfolio not found")

// PortfolioRepository отвечает за чтение опубликованных портфолио.
type PortfolioRepository struct {
	db *sqlx.DB
}

// NewPortfolioRepository создаёт экземпляр репозитория.
func NewPortfolioRepository(db *sqlx.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// ListPublic возвращает публичные портфолио, новые первыми.
func (r *PortfolioRepository) ListPublic(ctx context.Context) ([]models.PublicPortfolio, error) {
	items := []models.PublicPortfolio{}
	query := `
		SELECT portfolio_id, slug, name, description, user_id, community_id, theme_id, created_at, updated_at
		FROM public_portfolio_by_slug
		ORDER BY portfolio_id DESC
	`
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("portfolio repository: list public %w", err)
	}
	return items, nil
}

// GetPublicBySlug возвращает опубликованное портфолио по slug.
func (r *PortfolioRepository) GetPublicBySlug(ctx context.Context, slug string) (*models.PortfolioRecord, error) {
	var item models.PortfolioRecord
	query := `
		SELECT id, user_id, community_id, name, slug, description, theme_id, is_public, is_demo, created_at, updated_at
		FROM portfolios
		WHERE slug = $1 AND is_public
	`
	if err := r.db.GetContext(ctx, &item, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPortfolioNotFound
		}
		return nil, fmt.Errorf("portfolio repository: get by slug %w", err)
	}
	return &item, nil
}

// GetTheme возвращает тему оформления. Отсутствующая тема не ошибка.
func (r *PortfolioRepository) GetTheme(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	var theme models.Theme
	query := `SELECT id, name, tokens, is_active, created_at FROM themes WHERE id = $1`
	if err := r.db.GetContext(ctx, &theme, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("portfolio repository: get theme %w", err)
	}
	return &theme, nil
}

// ListPages возвращает страницы портфолио с раскладками и блоками.
// Раскладки и блоки читаются одним запросом на все страницы.
func (r *PortfolioRepository) ListPages(ctx context.Context, portfolioID uuid.UUID) ([]models.PageRecord, error) {
	pages := []models.PageRecord{}
	query := `
		SELECT id, portfolio_id, key, title, route, created_at
		FROM pages
		WHERE portfolio_id = $1
		ORDER BY created_at
	`
	if err := r.db.SelectContext(ctx, &pages, query, portfolioID); err != nil {
		return nil, fmt.Errorf("portfolio repository: list pages %w", err)
	}
	if len(pages) == 0 {
		return pages, nil
	}

	pageIDs := make([]uuid.UUID, len(pages))
	byID := make(map[uuid.UUID]*models.PageRecord, len(pages))
	for i := range pages {
		pageIDs[i] = pages[i].ID
		pages[i].Layouts = []models.PageLayoutRecord{}
		pages[i].WidgetInstances = []models.WidgetInstanceRecord{}
		byID[pages[i].ID] = &pages[i]
	}

	var layouts []models.PageLayoutRecord
	if err := r.db.SelectContext(ctx, &layouts,
		`SELECT id, page_id, layout FROM page_layouts WHERE page_id = ANY($1)`,
		pq.Array(pageIDs),
	); err != nil {
		return nil, fmt.Errorf("portfolio repository: list layouts %w", err)
	}
	for _, l := range layouts {
		if p, ok := byID[l.PageID]; ok {
			p.Layouts = append(p.Layouts, l)
		}
	}

	var widgets []models.WidgetInstanceRecord
	if err := r.db.SelectContext(ctx, &widgets, `
		SELECT wi.id, wi.page_id, wi.widget_type_id, wi.props, wi.created_at,
			wt.id AS "widget_type.id",
			wt.key AS "widget_type.key",
			wt.name AS "widget_type.name",
			wt.schema AS "widget_type.schema",
			wt.render_hint AS "widget_type.render_hint"
		FROM widget_instances wi
		JOIN widget_types wt ON wt.id = wi.widget_type_id
		WHERE wi.page_id = ANY($1)
		ORDER BY wi.created_at
	`, pq.Array(pageIDs)); err != nil {
		return nil, fmt.Errorf("portfolio repository: list widgets %w", err)
	}
	for _, w := range widgets {
		if p, ok := byID[w.PageID]; ok {
			p.WidgetInstances = append(p.WidgetInstances, w)
		}
	}

	return pages, nil
}
