package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/http/middleware"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	aiuc "github.com/pathwai/pathwai-backend/internal/usecase/ai"
)

type parserFunc func(ctx context.Context, text string) (*entity.ParsedResume, error)

func (f parserFunc) Execute(ctx context.Context, text string) (*entity.ParsedResume, error) {
	return f(ctx, text)
}

type fakeAdvisor struct {
	prepareErr error
	chunks     []string
	streamErr  error
	input      aiuc.PortfolioChatInput
}

func (f *fakeAdvisor) Prepare(ctx context.Context, input aiuc.PortfolioChatInput) (entity.AdviceContext, []entity.ChatMessage, error) {
	f.input = input
	if f.prepareErr != nil {
		return entity.AdviceContext{}, nil, f.prepareErr
	}
	return entity.AdviceContext{Name: "Alex"}, input.Messages, nil
}

func (f *fakeAdvisor) ExecuteStream(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error {
	for _, c := range f.chunks {
		if err := onDelta(c); err != nil {
			return err
		}
	}
	return f.streamErr
}

func aiRouter(h *AIHandler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/ai/parse-resume", h.ParseResume)
	r.POST("/api/ai/portfolio-chat", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}, h.PortfolioChat)
	return r
}

func TestParseResume_Success(t *testing.T) {
	h := NewAIHandler(parserFunc(func(ctx context.Context, text string) (*entity.ParsedResume, error) {
		return &entity.ParsedResume{PersonalInfo: entity.ResumePersonalInfo{Name: "Alex"}}, nil
	}), &fakeAdvisor{})

	w := doJSON(aiRouter(h, uuid.New()), http.MethodPost, "/api/ai/parse-resume", map[string]any{"text": "resume"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Alex", data["personalInfo"].(map[string]any)["name"])
}

func TestParseResume_ErrorEnvelope(t *testing.T) {
	h := NewAIHandler(parserFunc(func(ctx context.Context, text string) (*entity.ParsedResume, error) {
		return nil, apperror.New(apperror.ErrCodeValidation, "Resume text is too short. Please provide more information.")
	}), &fakeAdvisor{})

	w := doJSON(aiRouter(h, uuid.New()), http.MethodPost, "/api/ai/parse-resume", map[string]any{"text": "x"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Resume text is too short. Please provide more information.", decode(t, w)["error"])
}

func TestPortfolioChat_StreamsChunks(t *testing.T) {
	advisor := &fakeAdvisor{chunks: []string{"Add a ", "bio\nplease"}}
	h := NewAIHandler(nil, advisor)
	portfolioID := uuid.New()

	w := doJSON(aiRouter(h, uuid.New()), http.MethodPost, "/api/ai/portfolio-chat", map[string]any{
		"portfolioId": portfolioID.String(),
		"messages":    []map[string]string{{"role": "user", "content": "help"}},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream; charset=utf-8", w.Header().Get("Content-Type"))
	out := w.Body.String()
	assert.Contains(t, out, `data: {"delta":"Add a "}`)
	assert.Contains(t, out, `data: {"delta":"bio\nplease"}`)
	assert.True(t, strings.HasSuffix(out, "event: done\ndata: {}\n\n"))
	require.NotNil(t, advisor.input.PortfolioID)
	assert.Equal(t, portfolioID, *advisor.input.PortfolioID)
}

func TestPortfolioChat_PrepareErrorIsJSON(t *testing.T) {
	advisor := &fakeAdvisor{prepareErr: apperror.New(apperror.ErrCodeBadRequest, "AI service is not configured")}
	h := NewAIHandler(nil, advisor)

	w := doJSON(aiRouter(h, uuid.New()), http.MethodPost, "/api/ai/portfolio-chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "help"}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "AI service is not configured", decode(t, w)["error"])
}

func TestPortfolioChat_StreamFailureSendsErrorEvent(t *testing.T) {
	advisor := &fakeAdvisor{chunks: []string{"partial"}, streamErr: errors.New("upstream closed")}
	h := NewAIHandler(nil, advisor)

	w := doJSON(aiRouter(h, uuid.New()), http.MethodPost, "/api/ai/portfolio-chat", map[string]any{
		"messages": []map[string]string{{"role": "user", "content": "help"}},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "event: error\n")
	assert.NotContains(t, w.Body.String(), "event: done")
}
