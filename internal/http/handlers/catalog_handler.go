package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pathwai/pathwai-backend/internal/catalog"
	"github.com/pathwai/pathwai-backend/internal/http/handlers/common"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/service"
)

// CatalogHandler отдаёт справочники: темы, типы блоков и встроенные шаблоны.
type CatalogHandler struct {
	catalog   *service.CatalogService
	templates *catalog.Catalog
}

func NewCatalogHandler(svc *service.CatalogService, templates *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: svc, templates: templates}
}

// ListThemes GET /api/themes
func (h *CatalogHandler) ListThemes(c *gin.Context) {
	themes, err := h.catalog.ListThemes(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if themes == nil {
		themes = []models.Theme{}
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

// ListWidgetTypes GET /api/widget-types
func (h *CatalogHandler) ListWidgetTypes(c *gin.Context) {
	types, err := h.catalog.ListWidgetTypes(c.Request.Context())
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if types == nil {
		types = []models.WidgetType{}
	}
	c.JSON(http.StatusOK, gin.H{"widgetTypes": types})
}

// ListCatalogTemplates GET /api/templates/catalog[?profession=]
func (h *CatalogHandler) ListCatalogTemplates(c *gin.Context) {
	if profession := strings.TrimSpace(c.Query("profession")); profession != "" {
		c.JSON(http.StatusOK, gin.H{"templates": h.templates.GetTemplatesByProfession(profession)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"templates":   h.templates.All(),
		"professions": h.templates.Professions(),
	})
}

// GetCatalogTemplate GET /api/templates/catalog/:id
func (h *CatalogHandler) GetCatalogTemplate(c *gin.Context) {
	t, ok := h.templates.GetTemplateByID(c.Param("id"))
	if !ok {
		common.RespondError(c, apperror.ErrTemplateNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": t})
}
