package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/interface/http/dto"
	"github.com/pathwai/pathwai-backend/internal/interface/http/response"
	"github.com/pathwai/pathwai-backend/internal/logger"
	aiuc "github.com/pathwai/pathwai-backend/internal/usecase/ai"
)

type resumeParser interface {
	Execute(ctx context.Context, text string) (*entity.ParsedResume, error)
}

type portfolioAdvisor interface {
	Prepare(ctx context.Context, input aiuc.PortfolioChatInput) (entity.AdviceContext, []entity.ChatMessage, error)
	ExecuteStream(ctx context.Context, advice entity.AdviceContext, history []entity.ChatMessage, onDelta func(chunk string) error) error
}

type AIHandler struct {
	parser  resumeParser
	advisor portfolioAdvisor
}

func NewAIHandler(parser resumeParser, advisor portfolioAdvisor) *AIHandler {
	return &AIHandler{parser: parser, advisor: advisor}
}

// ParseResume POST /api/ai/parse-resume
func (h *AIHandler) ParseResume(c *gin.Context) {
	var req dto.ParseResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	parsed, err := h.parser.Execute(c.Request.Context(), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ParseResumeResponse{Success: true, Data: parsed})
}

// PortfolioChat POST /api/ai/portfolio-chat
// Ответ - SSE поток: data: {"delta": "..."} на каждый фрагмент и event: done в конце.
func (h *AIHandler) PortfolioChat(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.PortfolioChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	var portfolioID *uuid.UUID
	if req.PortfolioID != nil {
		portfolioID, err = dto.ParseOptionalUUID(req.PortfolioID)
		if err != nil {
			response.BadRequest(c, "Invalid portfolioId")
			return
		}
	}

	advice, history, err := h.advisor.Prepare(c.Request.Context(), aiuc.PortfolioChatInput{
		UserID:        userID,
		PortfolioID:   portfolioID,
		CommunityName: req.CommunityName,
		Messages:      req.Messages,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	err = h.advisor.ExecuteStream(c.Request.Context(), advice, history, func(chunk string) error {
		if err := writeSSEChunk(c.Writer, chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		logger.WithFields(logrus.Fields{
			"component": "portfolio_chat",
			"user_id":   userID,
			"error":     err.Error(),
		}).Warn("advice stream interrupted")
		_ = writeSSEEvent(c.Writer, "error", gin.H{"error": "Failed to generate advice"})
		c.Writer.Flush()
		return
	}

	_ = writeSSEEvent(c.Writer, "done", gin.H{})
	c.Writer.Flush()
}

// writeSSEChunk кодирует фрагмент в JSON, поэтому переводы строк не ломают кадр.
func writeSSEChunk(w io.Writer, chunk string) error {
	payload, err := json.Marshal(gin.H{"delta": chunk})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "data: "+string(payload)+"\n\n")
	return err
}

func writeSSEEvent(w io.Writer, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "event: "+event+"\ndata: "+string(payload)+"\n\n")
	return err
}
