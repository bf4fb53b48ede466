package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/domain/valueobject"
	"github.com/pathwai/pathwai-backend/internal/interface/http/dto"
	"github.com/pathwai/pathwai-backend/internal/interface/http/response"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/usecase/portfolio"
)

type (
	portfolioCreator interface {
		Execute(ctx context.Context, input portfolio.CreatePortfolioInput) (*portfolio.CreatePortfolioOutput, error)
	}
	portfolioUpdater interface {
		Execute(ctx context.Context, input portfolio.UpdatePortfolioInput) (*entity.Portfolio, error)
	}
	portfolioDeleter interface {
		Execute(ctx context.Context, portfolioID, userID uuid.UUID) error
	}
	portfolioLister interface {
		Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Portfolio, error)
	}
	resumeImporter interface {
		Execute(ctx context.Context, input portfolio.CreateFromResumeInput) (*portfolio.CreateFromResumeOutput, error)
	}
	compositionSaver interface {
		Execute(ctx context.Context, input portfolio.SaveCompositionInput) (*portfolio.SaveCompositionOutput, error)
	}
	compositionLoader interface {
		Execute(ctx context.Context, portfolioID, userID uuid.UUID) (*entity.Composition, error)
	}
	compositionEditor interface {
		Execute(ctx context.Context, input portfolio.EditCompositionInput) (*portfolio.EditCompositionOutput, error)
	}
)

// PublicPortfolios - чтение опубликованных портфолио.
type PublicPortfolios interface {
	ListPublic(ctx context.Context) ([]models.PublicPortfolio, error)
	GetBySlug(ctx context.Context, slug string) (*models.PublicPortfolioDetail, error)
}

// PortfolioEvents уведомляет открытые сессии владельца.
type PortfolioEvents interface {
	PortfolioCreated(userID uuid.UUID, data any)
	PortfolioUpdated(userID uuid.UUID, data any)
	PortfolioDeleted(userID, portfolioID uuid.UUID)
	CompositionSaved(userID uuid.UUID, data any)
}

// PortfolioUseCases собирает сценарии, которые обслуживает PortfolioHandler.
type PortfolioUseCases struct {
	Create           portfolioCreator
	Update           portfolioUpdater
	Delete           portfolioDeleter
	ListMine         portfolioLister
	CreateFromResume resumeImporter
	SaveComposition  compositionSaver
	GetComposition   compositionLoader
	EditComposition  compositionEditor
}

type PortfolioHandler struct {
	uc     PortfolioUseCases
	public PublicPortfolios
	events PortfolioEvents
}

func NewPortfolioHandler(uc PortfolioUseCases, public PublicPortfolios, events PortfolioEvents) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, public: public, events: events}
}

// CreatePortfolio POST /api/portfolios
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	themeID, err := dto.ParseOptionalUUID(req.ThemeID)
	if err != nil {
		response.BadRequest(c, "Invalid theme_id")
		return
	}
	communityID, err := dto.ParseOptionalUUID(req.CommunityID)
	if err != nil {
		response.BadRequest(c, "Invalid community_id")
		return
	}

	out, err := h.uc.Create.Execute(c.Request.Context(), portfolio.CreatePortfolioInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		ThemeID:     themeID,
		CommunityID: communityID,
		TemplateID:  req.TemplateID,
		Composition: req.Composition,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ToCreatePortfolioResponse(out)
	h.notify().PortfolioCreated(userID, resp.Portfolio)
	response.Success(c, resp)
}

// ListPublic GET /api/portfolios
func (h *PortfolioHandler) ListPublic(c *gin.Context) {
	items, err := h.public.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if items == nil {
		items = []models.PublicPortfolio{}
	}
	response.Success(c, items)
}

// GetBySlug GET /api/portfolios/:id, где :id - slug публичного портфолио.
// Имя параметра общее с остальными маршрутами /api/portfolios/:id.
func (h *PortfolioHandler) GetBySlug(c *gin.Context) {
	detail, err := h.public.GetBySlug(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, detail)
}

// ListMine GET /api/portfolios/my
func (h *PortfolioHandler) ListMine(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	items, err := h.uc.ListMine.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToPortfolioList(items))
}

// UpdatePortfolio PATCH /api/portfolios/:id
func (h *PortfolioHandler) UpdatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	portfolioID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid portfolio id")
		return
	}

	var req dto.UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	themeID, err := dto.ParseOptionalUUID(req.ThemeID)
	if err != nil {
		response.BadRequest(c, "Invalid theme_id")
		return
	}
	communityID, err := dto.ParseOptionalUUID(req.CommunityID)
	if err != nil {
		response.BadRequest(c, "Invalid community_id")
		return
	}

	p, err := h.uc.Update.Execute(c.Request.Context(), portfolio.UpdatePortfolioInput{
		UserID:      userID,
		PortfolioID: portfolioID,
		Name:        req.Name,
		Description: req.Description,
		ThemeID:     themeID,
		IsPublic:    req.IsPublic,
		CommunityID: communityID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.ToPortfolioResponse(p)
	h.notify().PortfolioUpdated(userID, resp)
	response.Success(c, gin.H{"portfolio": resp})
}

// DeletePortfolio DELETE /api/portfolios/:id
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	portfolioID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid portfolio id")
		return
	}

	if err := h.uc.Delete.Execute(c.Request.Context(), portfolioID, userID); err != nil {
		response.Error(c, err)
		return
	}

	h.notify().PortfolioDeleted(userID, portfolioID)
	response.Success(c, gin.H{"success": true})
}

// CreateFromResume POST /api/create-portfolio-from-resume
func (h *PortfolioHandler) CreateFromResume(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.CreateFromResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.ParsedData == nil || req.UserID == "" {
		response.BadRequest(c, "Missing required data")
		return
	}
	if req.UserID != userID.String() {
		response.Forbidden(c, "Cannot create a portfolio for another user")
		return
	}

	out, err := h.uc.CreateFromResume.Execute(c.Request.Context(), portfolio.CreateFromResumeInput{
		UserID: userID,
		Resume: req.ParsedData,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if !out.Existing {
		h.notify().PortfolioCreated(userID, gin.H{"id": out.PortfolioID})
	}
	response.Success(c, dto.CreateFromResumeResponse{
		Success:     true,
		PortfolioID: out.PortfolioID,
		Existing:    out.Existing,
		Widgets:     out.Widgets,
	})
}

// GetComposition GET /api/portfolios/:id/composition
func (h *PortfolioHandler) GetComposition(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	portfolioID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid portfolio id")
		return
	}

	comp, err := h.uc.GetComposition.Execute(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"composition": comp})
}

// SaveComposition PUT /api/portfolios/:id/composition
func (h *PortfolioHandler) SaveComposition(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return
	}
	portfolioID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid portfolio id")
		return
	}

	var req dto.SaveCompositionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Composition == nil {
		response.BadRequest(c, "Composition is required")
		return
	}

	out, err := h.uc.SaveComposition.Execute(c.Request.Context(), portfolio.SaveCompositionInput{
		UserID:      userID,
		PortfolioID: portfolioID,
		Composition: req.Composition,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SaveCompositionResponse{Layout: out.Layout, Widgets: out.Widgets}
	h.notify().CompositionSaved(userID, gin.H{"portfolioId": portfolioID, "layout": out.Layout})
	response.Success(c, resp)
}

// ExportComposition GET /api/portfolios/:id/composition/export
func (h *PortfolioHandler) ExportComposition(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	comp, err := h.uc.GetComposition.Execute(c.Request.Context(), portfolioID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="portfolio-%s.json"`, portfolioID))
	response.Success(c, comp.Export(time.Now()))
}

// AddCompositionWidget POST /api/portfolios/:id/composition/widgets
func (h *PortfolioHandler) AddCompositionWidget(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	var req dto.AddWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Type == "" {
		response.BadRequest(c, "Widget type is required")
		return
	}
	kind, err := valueobject.NewWidgetKind(req.Type)
	if err != nil {
		response.Error(c, err)
		return
	}
	column, err := valueobject.NewColumn(req.Column)
	if err != nil {
		response.Error(c, err)
		return
	}

	var localID string
	out, ok := h.applyEdit(c, userID, portfolioID, portfolio.AddWidget(kind, column, &localID))
	if !ok {
		return
	}
	resp := dto.CompositionResponse{Composition: out.Composition, Widgets: out.Widgets}
	for _, created := range out.Widgets.Created {
		if created.LocalID == localID {
			resp.WidgetID = created.ID
		}
	}
	response.Created(c, resp)
}

// RemoveCompositionWidget DELETE /api/portfolios/:id/composition/widgets/:widgetId
func (h *PortfolioHandler) RemoveCompositionWidget(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}
	h.respondEdit(c, userID, portfolioID, portfolio.RemoveWidget(c.Param("widgetId")))
}

// MoveCompositionWidget PATCH /api/portfolios/:id/composition/widgets/:widgetId
func (h *PortfolioHandler) MoveCompositionWidget(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	var req dto.MoveWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	column, err := valueobject.NewColumn(req.Column)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respondEdit(c, userID, portfolioID, portfolio.MoveWidget(c.Param("widgetId"), column))
}

// UpdateCompositionWidgetContent PUT /api/portfolios/:id/composition/widgets/:widgetId/content
func (h *PortfolioHandler) UpdateCompositionWidgetContent(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	var req dto.WidgetContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Content) == 0 {
		response.BadRequest(c, "Content is required")
		return
	}
	h.respondEdit(c, userID, portfolioID, portfolio.UpdateWidgetContent(c.Param("widgetId"), req.Content))
}

// UpdateCompositionIdentity PATCH /api/portfolios/:id/composition/identity
func (h *PortfolioHandler) UpdateCompositionIdentity(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	var patch entity.IdentityPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	h.respondEdit(c, userID, portfolioID, portfolio.UpdateIdentity(patch))
}

// SetCompositionTheme PUT /api/portfolios/:id/composition/theme
func (h *PortfolioHandler) SetCompositionTheme(c *gin.Context) {
	userID, portfolioID, ok := h.compositionTarget(c)
	if !ok {
		return
	}

	var req dto.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SelectedColor == nil {
		response.BadRequest(c, "selectedColor is required")
		return
	}
	h.respondEdit(c, userID, portfolioID, portfolio.SetTheme(*req.SelectedColor))
}

// compositionTarget достаёт пользователя и id портфолио. При ошибке ответ уже отправлен.
func (h *PortfolioHandler) compositionTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		response.Unauthorized(c, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}
	portfolioID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid portfolio id")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, portfolioID, true
}

func (h *PortfolioHandler) applyEdit(c *gin.Context, userID, portfolioID uuid.UUID, edit portfolio.CompositionEdit) (*portfolio.EditCompositionOutput, bool) {
	out, err := h.uc.EditComposition.Execute(c.Request.Context(), portfolio.EditCompositionInput{
		UserID:      userID,
		PortfolioID: portfolioID,
		Edit:        edit,
	})
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	h.notify().CompositionSaved(userID, gin.H{"portfolioId": portfolioID, "layout": out.Composition.Layout()})
	return out, true
}

func (h *PortfolioHandler) respondEdit(c *gin.Context, userID, portfolioID uuid.UUID, edit portfolio.CompositionEdit) {
	out, ok := h.applyEdit(c, userID, portfolioID, edit)
	if !ok {
		return
	}
	response.Success(c, dto.CompositionResponse{Composition: out.Composition, Widgets: out.Widgets})
}

func (h *PortfolioHandler) notify() PortfolioEvents {
	if h.events == nil {
		return noEvents{}
	}
	return h.events
}

type noEvents struct{}

func (noEvents) PortfolioCreated(uuid.UUID, any)       {}
func (noEvents) PortfolioUpdated(uuid.UUID, any)       {}
func (noEvents) PortfolioDeleted(uuid.UUID, uuid.UUID) {}
func (noEvents) CompositionSaved(uuid.UUID, any)       {}
