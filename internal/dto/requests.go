package dto

import (
	"encoding/json"
	"time"
)

// RegisterRequest - тело POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// LoginRequest - тело POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest используется для refresh и logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// JoinCommunityRequest - тело POST /api/communities/join. Поля анкеты необязательны.
type JoinCommunityRequest struct {
	CommunityCode string   `json:"communityCode"`
	Industry      string   `json:"industry"`
	Skills        []string `json:"skills"`
	Goals         string   `json:"goals"`
}

// AssignRoleRequest - тело POST /api/admin/roles.
type AssignRoleRequest struct {
	TargetUserID string     `json:"targetUserId"`
	Role         string     `json:"role"`
	Scope        string     `json:"scope"`
	ScopeID      string     `json:"scopeId"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// RevokeRoleRequest - тело DELETE /api/admin/roles.
type RevokeRoleRequest struct {
	RoleID string `json:"roleId"`
	Scope  string `json:"scope"`
}

// TemplateRequest - создание и изменение шаблона сообщества.
type TemplateRequest struct {
	CommunityID     *string         `json:"communityId"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Layout          json.RawMessage `json:"layout"`
	WidgetConfigs   json.RawMessage `json:"widgetConfigs"`
	PreviewImageURL *string         `json:"previewImageUrl"`
	IsMandatory     bool            `json:"isMandatory"`
}
