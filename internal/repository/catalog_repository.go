package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pathwai/pathwai-backend/internal/models"
)

type CatalogRepository struct {
	db *sqlx.DB
}

func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListThemes возвращает активные темы.
func (r *CatalogRepository) ListThemes(ctx context.Context) ([]models.Theme, error) {
	themes := []models.Theme{}
	err := r.db.SelectContext(ctx, &themes, `
		SELECT id, name, tokens, is_active, created_at
		FROM themes WHERE is_active = TRUE ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: list themes %w", err)
	}
	return themes, nil
}

// ListWidgetTypes возвращает активные типы блоков.
func (r *CatalogRepository) ListWidgetTypes(ctx context.Context) ([]models.WidgetType, error) {
	types := []models.WidgetType{}
	err := r.db.SelectContext(ctx, &types, `
		SELECT id, key, name, category, schema, render_hint, is_active, created_at
		FROM widget_types WHERE is_active = TRUE ORDER BY category, name
	`)
	if err != nil {
		return nil, fmt.Errorf("catalog repository: list widget types %w", err)
	}
	return types, nil
}

// UpsertWidgetType регистрирует тип блока по ключу или обновляет имя и категорию.
// Возвращает true, если строка была создана.
func (r *CatalogRepository) UpsertWidgetType(ctx context.Context, wt *models.WidgetType) (bool, error) {
	var inserted bool
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO widget_types (key, name, category, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (key) DO UPDATE
			SET name = EXCLUDED.name, category = EXCLUDED.category, is_active = TRUE
		RETURNING id, created_at, (xmax = 0)
	`, wt.Key, wt.Name, wt.Category).Scan(&wt.ID, &wt.CreatedAt, &inserted)
	if err != nil {
		return false, fmt.Errorf("catalog repository: upsert widget type %s %w", wt.Key, err)
	}
	wt.IsActive = true
	return inserted, nil
}
