package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Theme представляет тему оформления портфолио.
type Theme struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Tokens    json.RawMessage `db:"tokens" json:"tokens"`
	IsActive  bool            `db:"is_active" json:"is_active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// WidgetType представляет зарегистрированный тип блока.
type WidgetType struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Key        string          `db:"key" json:"key"`
	Name       string          `db:"name" json:"name"`
	Category   string          `db:"category" json:"category"`
	Schema     json.RawMessage `db:"schema" json:"schema,omitempty"`
	RenderHint *string         `db:"render_hint" json:"render_hint,omitempty"`
	IsActive   bool            `db:"is_active" json:"is_active"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

// PortfolioTemplate - шаблон, сохранённый в базе. Без community_id шаблон системный.
type PortfolioTemplate struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	CommunityID     *uuid.UUID      `db:"community_id" json:"community_id"`
	Name            string          `db:"name" json:"name"`
	Description     *string         `db:"description" json:"description"`
	Layout          json.RawMessage `db:"layout" json:"layout"`
	WidgetConfigs   json.RawMessage `db:"widget_configs" json:"widget_configs"`
	PreviewImageURL *string         `db:"preview_image_url" json:"preview_image_url"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	IsMandatory     bool            `db:"is_mandatory" json:"is_mandatory"`
	CreatedBy       *uuid.UUID      `db:"created_by" json:"created_by"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// WidgetConfig - блок шаблона вместе с его props.
type WidgetConfig struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	Props json.RawMessage `json:"props"`
}

// Community представляет сообщество с кодом приглашения.
type Community struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CommunityMember - участие пользователя в сообществе.
type CommunityMember struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CommunityID uuid.UUID `db:"community_id" json:"community_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
}

// MemberProfile - анкета участника, заполняемая при вступлении.
type MemberProfile struct {
	Industry string   `json:"industry,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	Goals    string   `json:"goals,omitempty"`
}

func (p MemberProfile) IsEmpty() bool {
	return p.Industry == "" && len(p.Skills) == 0 && p.Goals == ""
}

// Роли в сообществе.
const (
	CommunityAdminRole = "community_admin"
	ModeratorRole      = "moderator"
	ContentManagerRole = "content_manager"
)

// RoleScopeCommunity - единственная поддерживаемая область выдачи ролей.
const RoleScopeCommunity = "community"

// IsCommunityRole сообщает, известна ли роль.
func IsCommunityRole(role string) bool {
	switch role {
	case CommunityAdminRole, ModeratorRole, ContentManagerRole:
		return true
	}
	return false
}

// CommunityRole - выданная пользователю роль. Роль с истёкшим ExpiresAt не действует.
type CommunityRole struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CommunityID uuid.UUID  `db:"community_id" json:"community_id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Role        string     `db:"role" json:"role"`
	Notes       *string    `db:"notes" json:"notes,omitempty"`
	AssignedBy  *uuid.UUID `db:"assigned_by" json:"assigned_by"`
	AssignedAt  time.Time  `db:"assigned_at" json:"assigned_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at"`
}
