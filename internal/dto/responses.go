package dto

import (
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/service"
)

// AuthResponse - ответ регистрации и входа.
type AuthResponse struct {
	User   *models.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

// MessageResponse - ответ без данных.
type MessageResponse struct {
	Message string `json:"message"`
}

// URLResponse - ответ загрузки файла.
type URLResponse struct {
	URL string `json:"url"`
}
