package dto

import "github.com/pathwai/pathwai-backend/internal/domain/entity"

type ParseResumeRequest struct {
	Text string `json:"text"`
}

type ParseResumeResponse struct {
	Success bool                 `json:"success"`
	Data    *entity.ParsedResume `json:"data"`
}

type PortfolioChatRequest struct {
	PortfolioID   *string              `json:"portfolioId"`
	CommunityName string               `json:"communityName"`
	Messages      []entity.ChatMessage `json:"messages"`
}
