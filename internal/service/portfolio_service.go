package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/repository"
)

// PortfolioReader описывает чтение опубликованных портфолио.
type PortfolioReader interface {
	ListPublic(ctx context.Context) ([]models.PublicPortfolio, error)
	GetPublicBySlug(ctx context.Context, slug string) (*models.PortfolioRecord, error)
	GetTheme(ctx context.Context, id uuid.UUID) (*models.Theme, error)
	ListPages(ctx context.Context, portfolioID uuid.UUID) ([]models.PageRecord, error)
}

// PortfolioService отдаёт публичные портфолио.
type PortfolioService struct {
	repo PortfolioReader
}

// NewPortfolioService создаёт новый сервис портфолио.
func NewPortfolioService(repo PortfolioReader) *PortfolioService {
	return &PortfolioService{repo: repo}
}

// ListPublic возвращает все опубликованные портфолио.
func (s *PortfolioService) ListPublic(ctx context.Context) ([]models.PublicPortfolio, error) {
	items, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch portfolios")
	}
	return items, nil
}

// GetBySlug возвращает портфолио с темой и страницами.
// Тема и страницы читаются параллельно.
func (s *PortfolioService) GetBySlug(ctx context.Context, slug string) (*models.PublicPortfolioDetail, error) {
	record, err := s.repo.GetPublicBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrPortfolioNotFound) {
			return nil, apperror.ErrPortfolioNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch portfolio")
	}

	detail := &models.PublicPortfolioDetail{PortfolioRecord: *record}

	g, gctx := errgroup.WithContext(ctx)
	if record.ThemeID != nil {
		themeID := *record.ThemeID
		g.Go(func() error {
			theme, err := s.repo.GetTheme(gctx, themeID)
			if err != nil {
				return err
			}
			detail.Theme = theme
			return nil
		})
	}
	g.Go(func() error {
		pages, err := s.repo.ListPages(gctx, record.ID)
		if err != nil {
			return err
		}
		detail.Pages = pages
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to fetch portfolio")
	}
	return detail, nil
}
