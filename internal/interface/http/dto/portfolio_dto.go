package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/usecase/portfolio"
)

type CreatePortfolioRequest struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	ThemeID     *string             `json:"theme_id"`
	CommunityID *string             `json:"community_id"`
	TemplateID  string              `json:"templateId"`
	Composition *entity.Composition `json:"composition"`
}

type UpdatePortfolioRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ThemeID     *string `json:"theme_id"`
	IsPublic    *bool   `json:"is_public"`
	CommunityID *string `json:"community_id"`
}

type CreateFromResumeRequest struct {
	ParsedData *entity.ParsedResume `json:"parsedData"`
	UserID     string               `json:"userId"`
}

type SaveCompositionRequest struct {
	Composition *entity.Composition `json:"composition"`
}

type AddWidgetRequest struct {
	Type   string `json:"type"`
	Column string `json:"column"`
}

type MoveWidgetRequest struct {
	Column string `json:"column"`
}

type WidgetContentRequest struct {
	Content json.RawMessage `json:"content"`
}

type ThemeRequest struct {
	SelectedColor *int `json:"selectedColor"`
}

// CompositionResponse - композиция после правки и итог сохранения блоков.
type CompositionResponse struct {
	Composition *entity.Composition    `json:"composition"`
	Widgets     portfolio.WidgetReport `json:"widgets"`
	WidgetID    string                 `json:"widgetId,omitempty"`
}

type PortfolioResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	CommunityID *uuid.UUID `json:"community_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	ThemeID     *uuid.UUID `json:"theme_id"`
	IsPublic    bool       `json:"is_public"`
	IsDemo      bool       `json:"is_demo"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CreatePortfolioResponse struct {
	Portfolio PortfolioResponse      `json:"portfolio"`
	PageID    uuid.UUID              `json:"pageId"`
	Layout    entity.Layout          `json:"layout"`
	Widgets   portfolio.WidgetReport `json:"widgets"`
}

type CreateFromResumeResponse struct {
	Success     bool                    `json:"success"`
	PortfolioID uuid.UUID               `json:"portfolioId"`
	Existing    bool                    `json:"existing,omitempty"`
	Widgets     *portfolio.WidgetReport `json:"widgets,omitempty"`
}

type SaveCompositionResponse struct {
	Layout  entity.Layout          `json:"layout"`
	Widgets portfolio.WidgetReport `json:"widgets"`
}

func ToPortfolioResponse(p *entity.Portfolio) PortfolioResponse {
	return PortfolioResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		CommunityID: p.CommunityID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		ThemeID:     p.ThemeID,
		IsPublic:    p.IsPublic,
		IsDemo:      p.IsDemo,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToPortfolioList(items []*entity.Portfolio) []PortfolioResponse {
	out := make([]PortfolioResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToPortfolioResponse(p))
	}
	return out
}

func ToCreatePortfolioResponse(out *portfolio.CreatePortfolioOutput) CreatePortfolioResponse {
	return CreatePortfolioResponse{
		Portfolio: ToPortfolioResponse(out.Portfolio),
		PageID:    out.Page.ID,
		Layout:    out.Layout,
		Widgets:   out.Widgets,
	}
}

// ParseOptionalUUID разбирает необязательный идентификатор. Пустая строка - nil.
func ParseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}
