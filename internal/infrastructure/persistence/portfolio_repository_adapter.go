package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"

	slugConstraint          = "portfolios_slug_idx"
	userCommunityConstraint = "portfolios_user_community_idx"
	themeFKConstraint       = "portfolios_theme_id_fkey"
	communityFKConstraint   = "portfolios_community_id_fkey"
)

// uniqueConstraint возвращает имя нарушенного уникального ограничения.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// missingReference переводит нарушение внешнего ключа на тему или сообщество в ошибку 400.
func missingReference(err error) *apperror.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != foreignKeyViolation {
		return nil
	}
	switch pqErr.Constraint {
	case themeFKConstraint:
		return apperror.New(apperror.ErrCodeValidation, "Theme not found")
	case communityFKConstraint:
		return apperror.New(apperror.ErrCodeValidation, "Community not found")
	}
	return nil
}

type PortfolioRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPortfolioRepositoryAdapter(db *sqlx.DB) *PortfolioRepositoryAdapter {
	return &PortfolioRepositoryAdapter{db: db}
}

const portfolioColumns = `id, user_id, community_id, name, slug, description, theme_id, is_public, is_demo, created_at, updated_at`

func (r *PortfolioRepositoryAdapter) Create(ctx context.Context, p *entity.Portfolio) error {
	query := `INSERT INTO portfolios (id, user_id, community_id, name, slug, description, theme_id, is_public, is_demo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.UserID, p.CommunityID, p.Name, p.Slug, p.Description, p.ThemeID, p.IsPublic, p.IsDemo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			switch constraint {
			case slugConstraint:
				return repository.ErrSlugTaken
			case userCommunityConstraint:
				return repository.ErrPortfolioExists
			}
		}
		if appErr := missingReference(err); appErr != nil {
			return appErr
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create portfolio")
	}
	return nil
}

func (r *PortfolioRepositoryAdapter) Update(ctx context.Context, p *entity.Portfolio) error {
	query := `UPDATE portfolios SET name = $2, description = $3, theme_id = $4, is_public = $5, community_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Description, p.ThemeID, p.IsPublic, p.CommunityID, p.UpdatedAt)
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == userCommunityConstraint {
			return apperror.New(apperror.ErrCodeConflict, "You already have a portfolio in this community")
		}
		if appErr := missingReference(err); appErr != nil {
			return appErr
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to update portfolio")
	}
	return nil
}

// Delete удаляет портфолио; страницы, блоки и раскладки удаляются каскадом.
func (r *PortfolioRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete portfolio")
	}
	return nil
}

func (r *PortfolioRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Portfolio, error) {
	var row portfolioRow
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to get portfolio")
	}
	return row.toEntity(), nil
}

func (r *PortfolioRepositoryAdapter) FindExisting(ctx context.Context, userID uuid.UUID, communityID *uuid.UUID) (*entity.Portfolio, error) {
	var row portfolioRow
	query := `SELECT ` + portfolioColumns + ` FROM portfolios
		WHERE user_id = $1 AND community_id IS NOT DISTINCT FROM $2
		ORDER BY created_at LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, userID, communityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to check existing portfolio")
	}
	return row.toEntity(), nil
}

func (r *PortfolioRepositoryAdapter) FindAnyByUser(ctx context.Context, userID uuid.UUID) (*entity.Portfolio, error) {
	var row portfolioRow
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY created_at LIMIT 1`
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to get portfolio")
	}
	return row.toEntity(), nil
}

func (r *PortfolioRepositoryAdapter) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Portfolio, error) {
	var rows []portfolioRow
	query := `SELECT ` + portfolioColumns + ` FROM portfolios WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to list portfolios")
	}
	result := make([]*entity.Portfolio, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type portfolioRow struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	CommunityID *uuid.UUID `db:"community_id"`
	Name        string     `db:"name"`
	Slug        string     `db:"slug"`
	Description *string    `db:"description"`
	ThemeID     *uuid.UUID `db:"theme_id"`
	IsPublic    bool       `db:"is_public"`
	IsDemo      bool       `db:"is_demo"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (p *portfolioRow) toEntity() *entity.Portfolio {
	return &entity.Portfolio{
		ID:          p.ID,
		UserID:      p.UserID,
		CommunityID: p.CommunityID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ThemeID:     p.ThemeID,
		IsPublic:    p.IsPublic,
		IsDemo:      p.IsDemo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type PageRepositoryAdapter struct {
	db *sqlx.DB
}

func NewPageRepositoryAdapter(db *sqlx.DB) *PageRepositoryAdapter {
	return &PageRepositoryAdapter{db: db}
}

func (r *PageRepositoryAdapter) Create(ctx context.Context, page *entity.Page) error {
	query := `INSERT INTO pages (id, portfolio_id, key, title, route, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, page.ID, page.PortfolioID, page.Key, page.Title, page.Route, page.CreatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to create page")
	}
	return nil
}

func (r *PageRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete page")
	}
	return nil
}

func (r *PageRepositoryAdapter) FindMain(ctx context.Context, portfolioID uuid.UUID) (*entity.Page, error) {
	var row pageRow
	query := `SELECT id, portfolio_id, key, title, route, created_at FROM pages WHERE portfolio_id = $1 AND key = $2`
	if err := r.db.GetContext(ctx, &row, query, portfolioID, entity.MainPageKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to get page")
	}
	return &entity.Page{
		ID:          row.ID,
		PortfolioID: row.PortfolioID,
		Key:         row.Key,
		Title:       row.Title,
		Route:       row.Route,
		CreatedAt:   row.CreatedAt,
	}, nil
}

type pageRow struct {
	ID          uuid.UUID `db:"id"`
	PortfolioID uuid.UUID `db:"portfolio_id"`
	Key         string    `db:"key"`
	Title       string    `db:"title"`
	Route       string    `db:"route"`
	CreatedAt   time.Time `db:"created_at"`
}
