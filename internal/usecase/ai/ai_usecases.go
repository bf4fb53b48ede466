package ai

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	"github.com/pathwai/pathwai-backend/internal/logger"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/validation"
)

// maxChatHistory - сколько последних реплик уходит в модель.
const maxChatHistory = 20

var errAIUnavailable = apperror.New(apperror.ErrCodeBadRequest, "AI service is not configured")

type ParseResumeUseCase struct {
	aiService repository.AIService
}

func NewParseResumeUseCase(aiService repository.AIService) *ParseResumeUseCase {
	return &ParseResumeUseCase{aiService: aiService}
}

func (uc *ParseResumeUseCase) Execute(ctx context.Context, text string) (*entity.ParsedResume, error) {
	if uc.aiService == nil {
		return nil, errAIUnavailable
	}
	if err := validation.ValidateResumeText(text); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "Resume text is too short. Please provide more information.")
	}

	resume, err := uc.aiService.ParseResume(ctx, text)
	switch {
	case err == nil:
		return resume, nil
	case errors.Is(err, repository.ErrResumeNameMissing):
		return nil, apperror.New(apperror.ErrCodeValidation,
			"Could not extract name from resume. Please ensure your resume includes your name prominently.")
	case errors.Is(err, repository.ErrResumeUnreadable):
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to parse resume data. Please try again.")
	default:
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to parse resume")
	}
}

// CompositionLoader загружает композицию портфолио владельца.
type CompositionLoader interface {
	Execute(ctx context.Context, portfolioID, userID uuid.UUID) (*entity.Composition, error)
}

// CommunityNames возвращает название сообщества по id.
type CommunityNames interface {
	CommunityName(ctx context.Context, id uuid.UUID) (string, error)
}

type PortfolioChatInput struct {
	UserID        uuid.UUID
	PortfolioID   *uuid.UUID
	CommunityName string
	Messages      []entity.ChatMessage
}

// PortfolioChatUseCase отвечает на вопросы о портфолио потоком текста.
type PortfolioChatUseCase struct {
	aiService    repository.AIService
	portfolios   repository.PortfolioRepository
	compositions CompositionLoader
	communities  CommunityNames
}

func NewPortfolioChatUseCase(
	aiService repository.AIService,
	portfolios repository.PortfolioRepository,
	compositions CompositionLoader,
	communities CommunityNames,
) *PortfolioChatUseCase {
	return &PortfolioChatUseCase{
		aiService:    aiService,
		portfolios:   portfolios,
		compositions: compositions,
		communities:  communities,
	}
}

// Prepare проверяет запрос и собирает контекст до начала потока,
// чтобы ошибки ушли обычным JSON ответом.
func (uc *PortfolioChatUseCase) Prepare(ctx context.Context, input PortfolioChatInput) (entity.AdviceContext, []entity.ChatMessage, error) {
	if uc.aiService == nil {
		return entity.AdviceContext{}, nil, errAIUnavailable
	}

	history, err := checkHistory(input.Messages)
	if err != nil {
		return entity.AdviceContext{}, nil, err
	}

	if input.PortfolioID == nil {
		return entity.NewAdviceContext(nil, input.CommunityName), history, nil
	}

	comp, err := uc.compositions.Execute(ctx, *input.PortfolioID, input.UserID)
	if err != nil {
		return entity.AdviceContext{}, nil, err
	}

	community := input.CommunityName
	if community == "" {
		community = uc.communityOf(ctx, *input.PortfolioID)
	}
	return entity.NewAdviceContext(comp, community), history, nil
}

func (uc *PortfolioChatUseCase) ExecuteStream(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error {
	if uc.aiService == nil {
		return errAIUnavailable
	}
	return uc.aiService.StreamPortfolioAdvice(ctx, advice, history, onDelta)
}

// communityOf возвращает название сообщества портфолио. Ошибки не прерывают чат.
func (uc *PortfolioChatUseCase) communityOf(ctx context.Context, portfolioID uuid.UUID) string {
	if uc.communities == nil || uc.portfolios == nil {
		return ""
	}
	p, err := uc.portfolios.FindByID(ctx, portfolioID)
	if err != nil || p.CommunityID == nil {
		return ""
	}
	name, err := uc.communities.CommunityName(ctx, *p.CommunityID)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"portfolio_id": portfolioID,
			"community_id": *p.CommunityID,
		}).WithError(err).Warn("community lookup failed, chatting without it")
		return ""
	}
	return name
}

func checkHistory(messages []entity.ChatMessage) ([]entity.ChatMessage, error) {
	if len(messages) == 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "messages are required")
	}
	for _, m := range messages {
		if m.Role != entity.ChatRoleUser && m.Role != entity.ChatRoleAssistant {
			return nil, apperror.New(apperror.ErrCodeValidation, "unsupported message role: "+m.Role)
		}
	}

	last := messages[len(messages)-1]
	if last.Role != entity.ChatRoleUser {
		return nil, apperror.New(apperror.ErrCodeValidation, "last message must come from the user")
	}
	if err := validation.ValidateChatMessage(last.Content); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if len(messages) > maxChatHistory {
		messages = messages[len(messages)-maxChatHistory:]
	}
	return messages, nil
}
