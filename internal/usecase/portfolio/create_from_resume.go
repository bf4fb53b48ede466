package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
)

type CreateFromResumeInput struct {
	UserID uuid.UUID
	Resume *entity.ParsedResume
}

type CreateFromResumeOutput struct {
	PortfolioID uuid.UUID
	// Existing означает, что у пользователя уже было портфолио и новое не создавалось.
	Existing bool
	Widgets  *WidgetReport
}

type CreateFromResumeUseCase struct {
	portfolios repository.PortfolioRepository
	create     *CreatePortfolioUseCase
	now        func() time.Time
}

func NewCreateFromResumeUseCase(portfolios repository.PortfolioRepository, create *CreatePortfolioUseCase) *CreateFromResumeUseCase {
	return &CreateFromResumeUseCase{portfolios: portfolios, create: create, now: time.Now}
}

func (uc *CreateFromResumeUseCase) Execute(ctx context.Context, input CreateFromResumeInput) (*CreateFromResumeOutput, error) {
	if input.Resume == nil || input.UserID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "Missing required data")
	}

	existing, err := uc.portfolios.FindAnyByUser(ctx, input.UserID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "Failed to check existing portfolios")
	}
	if existing != nil {
		return &CreateFromResumeOutput{PortfolioID: existing.ID, Existing: true}, nil
	}

	description := input.Resume.PortfolioDescription()
	out, err := uc.create.Execute(ctx, CreatePortfolioInput{
		UserID:      input.UserID,
		Name:        input.Resume.PortfolioName(),
		Description: &description,
		Composition: input.Resume.Composition(uc.now()),
	})
	if err != nil {
		return nil, err
	}

	return &CreateFromResumeOutput{PortfolioID: out.Portfolio.ID, Widgets: &out.Widgets}, nil
}
