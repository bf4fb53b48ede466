package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

// UpdatePortfolioInput - частичное обновление. nil означает «не менять».
type UpdatePortfolioInput struct {
	UserID      uuid.UUID
	PortfolioID uuid.UUID
	Name        *string
	Description *string
	ThemeID     *uuid.UUID
	IsPublic    *bool
	CommunityID *uuid.UUID
}

type UpdatePortfolioUseCase struct {
	portfolios repository.PortfolioRepository
}

func NewUpdatePortfolioUseCase(portfolios repository.PortfolioRepository) *UpdatePortfolioUseCase {
	return &UpdatePortfolioUseCase{portfolios: portfolios}
}

func (uc *UpdatePortfolioUseCase) Execute(ctx context.Context, input UpdatePortfolioInput) (*entity.Portfolio, error) {
	p, err := uc.portfolios.FindByID(ctx, input.PortfolioID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(input.UserID) {
		return nil, apperror.ErrPortfolioNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.New(apperror.ErrCodeValidation, "Portfolio name is required")
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.ThemeID != nil {
		p.ThemeID = input.ThemeID
	}
	if input.IsPublic != nil {
		p.IsPublic = *input.IsPublic
	}
	if input.CommunityID != nil {
		p.CommunityID = input.CommunityID
	}
	p.UpdatedAt = time.Now()

	if err := uc.portfolios.Update(ctx, p); err != nil {
		if apperror.IsValidation(err) || apperror.IsConflict(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to update portfolio")
	}
	return p, nil
}

type DeletePortfolioUseCase struct {
	portfolios repository.PortfolioRepository
}

func NewDeletePortfolioUseCase(portfolios repository.PortfolioRepository) *DeletePortfolioUseCase {
	return &DeletePortfolioUseCase{portfolios: portfolios}
}

func (uc *DeletePortfolioUseCase) Execute(ctx context.Context, portfolioID, userID uuid.UUID) error {
	p, err := uc.portfolios.FindByID(ctx, portfolioID)
	if err != nil {
		return err
	}
	if !p.IsOwnedBy(userID) {
		return apperror.ErrPortfolioNotFound
	}
	if err := uc.portfolios.Delete(ctx, portfolioID); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to delete portfolio")
	}
	return nil
}

type ListMyPortfoliosUseCase struct {
	portfolios repository.PortfolioRepository
}

func NewListMyPortfoliosUseCase(portfolios repository.PortfolioRepository) *ListMyPortfoliosUseCase {
	return &ListMyPortfoliosUseCase{portfolios: portfolios}
}

func (uc *ListMyPortfoliosUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Portfolio, error) {
	list, err := uc.portfolios.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to load portfolios")
	}
	return list, nil
}
