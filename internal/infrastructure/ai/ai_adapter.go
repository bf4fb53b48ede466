package ai

import (
	"context"
	"errors"

	llm "github.com/pathwai/pathwai-backend/internal/ai"
	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
)

// AIServiceAdapter переводит ошибки клиента модели в доменные.
type AIServiceAdapter struct {
	client *llm.Client
}

func NewAIServiceAdapter(client *llm.Client) *AIServiceAdapter {
	if client == nil {
		return nil
	}
	return &AIServiceAdapter{client: client}
}

func (a *AIServiceAdapter) ParseResume(ctx context.Context, text string) (*entity.ParsedResume, error) {
	resume, err := a.client.ParseResume(ctx, text)
	switch {
	case errors.Is(err, llm.ErrResumeWithoutName):
		return nil, repository.ErrResumeNameMissing
	case errors.Is(err, llm.ErrMalformedResume):
		return nil, errors.Join(repository.ErrResumeUnreadable, err)
	}
	return resume, err
}

func (a *AIServiceAdapter) StreamPortfolioAdvice(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error {
	return a.client.StreamPortfolioAdvice(ctx, advice, history, onDelta)
}
