package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/repository/common"
)

// ErrTemplateNotFound возвращается, когда активный шаблон не найден.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateRepository работает с таблицей portfolio_templates.
type TemplateRepository struct {
	db *sqlx.DB
}

func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, community_id, name, description, layout, widget_configs, preview_image_url,
	is_active, is_mandatory, created_by, created_at, updated_at`

// ListAvailable возвращает системные шаблоны и, если задано сообщество, его шаблоны.
func (r *TemplateRepository) ListAvailable(ctx context.Context, communityID *uuid.UUID) ([]models.PortfolioTemplate, error) {
	templates := []models.PortfolioTemplate{}
	query := `SELECT ` + templateColumns + ` FROM portfolio_templates
		WHERE is_active AND (community_id IS NULL OR community_id = $1)
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &templates, query, communityID); err != nil {
		return nil, fmt.Errorf("template repository: list %w", err)
	}
	return templates, nil
}

// GetByID возвращает активный шаблон.
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PortfolioTemplate, error) {
	var t models.PortfolioTemplate
	query := `SELECT ` + templateColumns + ` FROM portfolio_templates WHERE id = $1 AND is_active`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("template repository: get by id %w", err)
	}
	return &t, nil
}

// GetMandatory возвращает обязательный шаблон сообщества или nil.
func (r *TemplateRepository) GetMandatory(ctx context.Context, communityID uuid.UUID) (*models.PortfolioTemplate, error) {
	var t models.PortfolioTemplate
	query := `SELECT ` + templateColumns + ` FROM portfolio_templates
		WHERE community_id = $1 AND is_mandatory AND is_active
		ORDER BY updated_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &t, query, communityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("template repository: get mandatory %w", err)
	}
	return &t, nil
}

// Create сохраняет шаблон. Если он обязательный, флаг снимается с остальных
// шаблонов того же сообщества в той же транзакции.
func (r *TemplateRepository) Create(ctx context.Context, t *models.PortfolioTemplate) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `INSERT INTO portfolio_templates
			(community_id, name, description, layout, widget_configs, preview_image_url, is_mandatory, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, is_active, created_at, updated_at`
		if err := tx.QueryRowxContext(ctx, query,
			t.CommunityID, t.Name, t.Description, []byte(t.Layout), []byte(t.WidgetConfigs),
			t.PreviewImageURL, t.IsMandatory, t.CreatedBy,
		).Scan(&t.ID, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("template repository: create %w", err)
		}
		return clearOtherMandatory(ctx, tx, t)
	})
}

// Update перезаписывает изменяемые поля активного шаблона.
func (r *TemplateRepository) Update(ctx context.Context, t *models.PortfolioTemplate) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `UPDATE portfolio_templates
			SET name = $2, description = $3, layout = $4, widget_configs = $5,
				preview_image_url = $6, is_mandatory = $7, updated_at = NOW()
			WHERE id = $1 AND is_active
			RETURNING updated_at`
		err := tx.QueryRowxContext(ctx, query,
			t.ID, t.Name, t.Description, []byte(t.Layout), []byte(t.WidgetConfigs),
			t.PreviewImageURL, t.IsMandatory,
		).Scan(&t.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTemplateNotFound
		}
		if err != nil {
			return fmt.Errorf("template repository: update %w", err)
		}
		return clearOtherMandatory(ctx, tx, t)
	})
}

func clearOtherMandatory(ctx context.Context, tx *sqlx.Tx, t *models.PortfolioTemplate) error {
	if !t.IsMandatory || t.CommunityID == nil {
		return nil
	}
	_, err := tx.ExecContext(ctx, `UPDATE portfolio_templates
		SET is_mandatory = FALSE, updated_at = NOW()
		WHERE community_id = $1 AND id <> $2 AND is_mandatory`,
		*t.CommunityID, t.ID)
	if err != nil {
		return fmt.Errorf("template repository: clear mandatory %w", err)
	}
	return nil
}

// SoftDelete выключает шаблон; строка остаётся в базе.
func (r *TemplateRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE portfolio_templates SET is_active = FALSE, is_mandatory = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`, id)
	if err != nil {
		return fmt.Errorf("template repository: soft delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}
