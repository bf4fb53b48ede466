package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pathwai/pathwai-backend/internal/dto"
	"github.com/pathwai/pathwai-backend/internal/http/handlers/common"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/service"
)

// TemplateHandler обслуживает шаблоны сообществ из базы.
type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List GET /api/templates[?communityId=]
func (h *TemplateHandler) List(c *gin.Context) {
	communityID, err := common.ParseUUIDQuery(c, "communityId")
	if err != nil {
		common.RespondBadRequest(c, "Invalid communityId")
		return
	}

	items, err := h.templates.ListAvailable(c.Request.Context(), communityID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if items == nil {
		items = []models.PortfolioTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": items})
}

// Mandatory GET /api/templates/mandatory?communityId=
func (h *TemplateHandler) Mandatory(c *gin.Context) {
	communityID, err := common.ParseUUIDQuery(c, "communityId")
	if err != nil || communityID == nil {
		common.RespondBadRequest(c, "communityId is required")
		return
	}

	t, err := h.templates.GetMandatory(c.Request.Context(), *communityID)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

// Create POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	t, err := h.templates.Create(c.Request.Context(), in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": t})
}

// Update PATCH /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "Invalid template id")
		return
	}
	in, ok := h.bindInput(c)
	if !ok {
		return
	}

	t, err := h.templates.Update(c.Request.Context(), id, in)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}

// Delete DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return
	}
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, "Invalid template id")
		return
	}

	if err := h.templates.Delete(c.Request.Context(), id, userID); err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *TemplateHandler) bindInput(c *gin.Context) (service.TemplateInput, bool) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c)
		return service.TemplateInput{}, false
	}

	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "Invalid request body")
		return service.TemplateInput{}, false
	}
	communityID, err := parseOptionalUUID(req.CommunityID)
	if err != nil {
		common.RespondBadRequest(c, "Invalid communityId")
		return service.TemplateInput{}, false
	}

	return service.TemplateInput{
		UserID:          userID,
		CommunityID:     communityID,
		Name:            req.Name,
		Description:     req.Description,
		Layout:          req.Layout,
		WidgetConfigs:   req.WidgetConfigs,
		PreviewImageURL: req.PreviewImageURL,
		IsMandatory:     req.IsMandatory,
	}, true
}
