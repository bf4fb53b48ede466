package repository

import (
	"context"
	"errors"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

var (
	// ErrResumeUnreadable - модель не смогла вернуть структуру резюме.
	ErrResumeUnreadable = errors.New("resume could not be parsed")
	// ErrResumeNameMissing - в резюме не найдено имя.
	ErrResumeNameMissing = errors.New("resume has no name")
)

// AIService - языковая модель для разбора резюме и советов по портфолио.
type AIService interface {
	ParseResume(ctx context.Context, text string) (*entity.ParsedResume, error)
	StreamPortfolioAdvice(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error
}
