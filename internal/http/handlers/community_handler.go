package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/dto"
	"github.com/pathwai/pathwai-backend/internal/http/handlers/common"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/service"
)

// CommunityHandler обслуживает вступление в сообщества и роли участников.
type CommunityHandler struct {
	communities *service.CommunityService
}

func NewCommunityHandler(communities *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{communities: communities}
}

// Join POST /api/communities/join
func (h *CommunityHandler) Join(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.JoinCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "Community code is required")
		return
	}

	res, err := h.communities.Join(c.Request.Context(), userID, req.CommunityCode, models.MemberProfile{
		Industry: req.Industry,
		Skills:   req.Skills,
		Goals:    req.Goals,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListMine GET /api/communities/my
func (h *CommunityHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	items, err := h.communities.ListMine(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if items == nil {
		items = []models.Community{}
	}
	c.JSON(http.StatusOK, gin.H{"communities": items})
}

// AssignRole POST /api/admin/roles
func (h *CommunityHandler) AssignRole(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "Invalid request body")
		return
	}
	if req.TargetUserID == "" || req.Role == "" || req.Scope == "" || req.ScopeID == "" {
		common.RespondBadRequest(c, "Missing required fields")
		return
	}
	targetID, err := uuid.Parse(req.TargetUserID)
	if err != nil {
		common.RespondBadRequest(c, "Invalid targetUserId")
		return
	}
	scopeID, err := uuid.Parse(req.ScopeID)
	if err != nil {
		common.RespondBadRequest(c, "Invalid scopeId")
		return
	}

	role, err := h.communities.AssignRole(c.Request.Context(), actorID, service.AssignRoleInput{
		TargetUserID: targetID,
		Role:         req.Role,
		Scope:        req.Scope,
		CommunityID:  scopeID,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": role})
}

// RevokeRole DELETE /api/admin/roles
func (h *CommunityHandler) RevokeRole(c *gin.Context) {
	actorID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}

	var req dto.RevokeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "Invalid request body")
		return
	}
	if req.RoleID == "" || req.Scope == "" {
		common.RespondBadRequest(c, "Missing roleId or scope")
		return
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		common.RespondBadRequest(c, "Invalid roleId")
		return
	}

	if err := h.communities.RevokeRole(c.Request.Context(), actorID, roleID, req.Scope); err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
