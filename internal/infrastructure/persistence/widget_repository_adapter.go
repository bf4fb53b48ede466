package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

type WidgetInstanceRepositoryAdapter struct {
	db *sqlx.DB
}

func NewWidgetInstanceRepositoryAdapter(db *sqlx.DB) *WidgetInstanceRepositoryAdapter {
	return &WidgetInstanceRepositoryAdapter{db: db}
}

func (r *WidgetInstanceRepositoryAdapter) Create(ctx context.Context, w *entity.WidgetInstance) error {
	query := `INSERT INTO widget_instances (id, page_id, widget_type_id, props, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.PageID, w.WidgetTypeID, []byte(w.Props), w.CreatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create widget")
	}
	return nil
}

// UpsertByType опирается на частичный уникальный индекс widget_instances_identity_idx.
// При конфликте w.ID заменяется id существующей строки.
func (r *WidgetInstanceRepositoryAdapter) UpsertByType(ctx context.Context, w *entity.WidgetInstance) error {
	query := `INSERT INTO widget_instances (id, page_id, widget_type_id, props, created_at, is_singleton)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (page_id, widget_type_id) WHERE is_singleton
		DO UPDATE SET props = EXCLUDED.props
		RETURNING id`
	err := r.db.QueryRowxContext(ctx, query, w.ID, w.PageID, w.WidgetTypeID, []byte(w.Props), w.CreatedAt).Scan(&w.ID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to upsert widget")
	}
	return nil
}

func (r *WidgetInstanceRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM widget_instances WHERE id = $1`, id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete widget")
	}
	return nil
}

func (r *WidgetInstanceRepositoryAdapter) DeleteByPage(ctx context.Context, pageID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM widget_instances WHERE page_id = $1`, pageID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete widgets")
	}
	return nil
}

func (r *WidgetInstanceRepositoryAdapter) FindByPage(ctx context.Context, pageID uuid.UUID) ([]*entity.WidgetInstance, error) {
	var rows []widgetInstanceRow
	query := `SELECT id, page_id, widget_type_id, props, created_at FROM widget_instances WHERE page_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query, pageID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to list widgets")
	}
	result := make([]*entity.WidgetInstance, len(rows))
	for i, row := range rows {
		result[i] = &entity.WidgetInstance{
			ID:           row.ID,
			PageID:       row.PageID,
			WidgetTypeID: row.WidgetTypeID,
			Props:        json.RawMessage(row.Props),
			CreatedAt:    row.CreatedAt,
		}
	}
	return result, nil
}

type widgetInstanceRow struct {
	ID           uuid.UUID `db:"id"`
	PageID       uuid.UUID `db:"page_id"`
	WidgetTypeID uuid.UUID `db:"widget_type_id"`
	Props        []byte    `db:"props"`
	CreatedAt    time.Time `db:"created_at"`
}

type LayoutRepositoryAdapter struct {
	db *sqlx.DB
}

func NewLayoutRepositoryAdapter(db *sqlx.DB) *LayoutRepositoryAdapter {
	return &LayoutRepositoryAdapter{db: db}
}

func (r *LayoutRepositoryAdapter) Upsert(ctx context.Context, l *entity.PageLayout) error {
	query := `INSERT INTO page_layouts (id, page_id, layout, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (page_id) DO UPDATE SET layout = EXCLUDED.layout, updated_at = EXCLUDED.updated_at
		RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, l.ID, l.PageID, l.Layout, l.UpdatedAt).Scan(&l.ID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to save layout")
	}
	return nil
}

func (r *LayoutRepositoryAdapter) Delete(ctx context.Context, pageID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM page_layouts WHERE page_id = $1`, pageID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete layout")
	}
	return nil
}

func (r *LayoutRepositoryAdapter) FindByPage(ctx context.Context, pageID uuid.UUID) (*entity.PageLayout, error) {
	var row struct {
		ID        uuid.UUID     `db:"id"`
		PageID    uuid.UUID     `db:"page_id"`
		Layout    entity.Layout `db:"layout"`
		UpdatedAt time.Time     `db:"updated_at"`
	}
	query := `SELECT id, page_id, layout, updated_at FROM page_layouts WHERE page_id = $1`
	if err := r.db.GetContext(ctx, &row, query, pageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to get layout")
	}
	return &entity.PageLayout{ID: row.ID, PageID: row.PageID, Layout: row.Layout, UpdatedAt: row.UpdatedAt}, nil
}
