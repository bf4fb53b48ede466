package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
	"github.com/pathwai/pathwai-backend/internal/http/middleware"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/pkg/apperror"
	"github.com/pathwai/pathwai-backend/internal/usecase/portfolio"
)

type createFunc func(ctx context.Context, in portfolio.CreatePortfolioInput) (*portfolio.CreatePortfolioOutput, error)

func (f createFunc) Execute(ctx context.Context, in portfolio.CreatePortfolioInput) (*portfolio.CreatePortfolioOutput, error) {
	return f(ctx, in)
}

type resumeFunc func(ctx context.Context, in portfolio.CreateFromResumeInput) (*portfolio.CreateFromResumeOutput, error)

func (f resumeFunc) Execute(ctx context.Context, in portfolio.CreateFromResumeInput) (*portfolio.CreateFromResumeOutput, error) {
	return f(ctx, in)
}

type deleteFunc func(ctx context.Context, portfolioID, userID uuid.UUID) error

func (f deleteFunc) Execute(ctx context.Context, portfolioID, userID uuid.UUID) error {
	return f(ctx, portfolioID, userID)
}

type fakePublic struct {
	items  []models.PublicPortfolio
	detail *models.PublicPortfolioDetail
	err    error
}

func (f *fakePublic) ListPublic(ctx context.Context) ([]models.PublicPortfolio, error) {
	return f.items, f.err
}

func (f *fakePublic) GetBySlug(ctx context.Context, slug string) (*models.PublicPortfolioDetail, error) {
	if f.detail == nil {
		return nil, apperror.ErrPortfolioNotFound
	}
	return f.detail, f.err
}

type recordedEvents struct {
	created []uuid.UUID
	deleted []uuid.UUID
}

func (r *recordedEvents) PortfolioCreated(userID uuid.UUID, data any) {
	r.created = append(r.created, userID)
}
func (r *recordedEvents) PortfolioUpdated(uuid.UUID, any) {}
func (r *recordedEvents) PortfolioDeleted(userID, portfolioID uuid.UUID) {
	r.deleted = append(r.deleted, portfolioID)
}
func (r *recordedEvents) CompositionSaved(uuid.UUID, any) {}

func newTestRouter(userID uuid.UUID, h *PortfolioHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	}
	r.GET("/api/portfolios", h.ListPublic)
	r.GET("/api/portfolios/:id", h.GetBySlug)
	r.POST("/api/portfolios", auth, h.CreatePortfolio)
	r.DELETE("/api/portfolios/:id", auth, h.DeletePortfolio)
	r.POST("/api/create-portfolio-from-resume", auth, h.CreateFromResume)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreatePortfolio_Success(t *testing.T) {
	userID := uuid.New()
	events := &recordedEvents{}
	var got portfolio.CreatePortfolioInput
	h := NewPortfolioHandler(PortfolioUseCases{
		Create: createFunc(func(ctx context.Context, in portfolio.CreatePortfolioInput) (*portfolio.CreatePortfolioOutput, error) {
			got = in
			p, err := entity.NewPortfolio(in.UserID, in.Name, nil, nil, in.CommunityID)
			require.NoError(t, err)
			p.Slug = "alex"
			return &portfolio.CreatePortfolioOutput{Portfolio: p, Page: entity.NewMainPage(p.ID)}, nil
		}),
	}, &fakePublic{}, events)
	communityID := uuid.New()

	w := doJSON(newTestRouter(userID, h), http.MethodPost, "/api/portfolios", map[string]any{
		"name":         "Alex",
		"community_id": communityID.String(),
		"templateId":   "developer",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	p := body["portfolio"].(map[string]any)
	assert.Equal(t, "alex", p["slug"])
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "developer", got.TemplateID)
	require.NotNil(t, got.CommunityID)
	assert.Equal(t, communityID, *got.CommunityID)
	assert.Equal(t, []uuid.UUID{userID}, events.created)
}

func TestCreatePortfolio_Unauthorized(t *testing.T) {
	h := NewPortfolioHandler(PortfolioUseCases{}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.Nil, h), http.MethodPost, "/api/portfolios", map[string]any{"name": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode(t, w)["error"])
}

func TestCreatePortfolio_InvalidCommunityID(t *testing.T) {
	h := NewPortfolioHandler(PortfolioUseCases{}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.New(), h), http.MethodPost, "/api/portfolios", map[string]any{
		"name":         "x",
		"community_id": "not-a-uuid",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePortfolio_ConflictCarriesExisting(t *testing.T) {
	existingID := uuid.New()
	h := NewPortfolioHandler(PortfolioUseCases{
		Create: createFunc(func(ctx context.Context, in portfolio.CreatePortfolioInput) (*portfolio.CreatePortfolioOutput, error) {
			return nil, apperror.New(apperror.ErrCodeConflict, "You already have a portfolio in this community").
				WithDetails("existingPortfolio", map[string]any{"id": existingID, "name": "First"})
		}),
	}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.New(), h), http.MethodPost, "/api/portfolios", map[string]any{"name": "Second"})

	require.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	existing := body["existingPortfolio"].(map[string]any)
	assert.Equal(t, existingID.String(), existing["id"])
	assert.Equal(t, "First", existing["name"])
	assert.Equal(t, "CONFLICT", body["code"])
}

func TestListPublic_EmptyIsArray(t *testing.T) {
	h := NewPortfolioHandler(PortfolioUseCases{}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.Nil, h), http.MethodGet, "/api/portfolios", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetBySlug_NotFound(t *testing.T) {
	h := NewPortfolioHandler(PortfolioUseCases{}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.Nil, h), http.MethodGet, "/api/portfolios/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Portfolio not found", decode(t, w)["error"])
}

func TestCreateFromResume_RejectsOtherUser(t *testing.T) {
	called := false
	h := NewPortfolioHandler(PortfolioUseCases{
		CreateFromResume: resumeFunc(func(ctx context.Context, in portfolio.CreateFromResumeInput) (*portfolio.CreateFromResumeOutput, error) {
			called = true
			return nil, nil
		}),
	}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.New(), h), http.MethodPost, "/api/create-portfolio-from-resume", map[string]any{
		"parsedData": map[string]any{"personalInfo": map[string]any{"name": "Alex"}},
		"userId":     uuid.New().String(),
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)
}

func TestCreateFromResume_ExistingPortfolio(t *testing.T) {
	userID := uuid.New()
	existingID := uuid.New()
	events := &recordedEvents{}
	h := NewPortfolioHandler(PortfolioUseCases{
		CreateFromResume: resumeFunc(func(ctx context.Context, in portfolio.CreateFromResumeInput) (*portfolio.CreateFromResumeOutput, error) {
			assert.Equal(t, "Alex", in.Resume.PersonalInfo.Name)
			return &portfolio.CreateFromResumeOutput{PortfolioID: existingID, Existing: true}, nil
		}),
	}, &fakePublic{}, events)

	w := doJSON(newTestRouter(userID, h), http.MethodPost, "/api/create-portfolio-from-resume", map[string]any{
		"parsedData": map[string]any{"personalInfo": map[string]any{"name": "Alex"}},
		"userId":     userID.String(),
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, existingID.String(), body["portfolioId"])
	assert.Empty(t, events.created)
}

func TestDeletePortfolio_PublishesEvent(t *testing.T) {
	userID := uuid.New()
	portfolioID := uuid.New()
	events := &recordedEvents{}
	h := NewPortfolioHandler(PortfolioUseCases{
		Delete: deleteFunc(func(ctx context.Context, pid, uid uuid.UUID) error {
			assert.Equal(t, portfolioID, pid)
			assert.Equal(t, userID, uid)
			return nil
		}),
	}, &fakePublic{}, events)

	w := doJSON(newTestRouter(userID, h), http.MethodDelete, "/api/portfolios/"+portfolioID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{portfolioID}, events.deleted)
}

func TestDeletePortfolio_InvalidID(t *testing.T) {
	h := NewPortfolioHandler(PortfolioUseCases{}, &fakePublic{}, nil)

	w := doJSON(newTestRouter(uuid.New(), h), http.MethodDelete, "/api/portfolios/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type editFunc func(ctx context.Context, in portfolio.EditCompositionInput) (*portfolio.EditCompositionOutput, error)

func (f editFunc) Execute(ctx context.Context, in portfolio.EditCompositionInput) (*portfolio.EditCompositionOutput, error) {
	return f(ctx, in)
}

type loadFunc func(ctx context.Context, portfolioID, userID uuid.UUID) (*entity.Composition, error)

func (f loadFunc) Execute(ctx context.Context, portfolioID, userID uuid.UUID) (*entity.Composition, error) {
	return f(ctx, portfolioID, userID)
}

// applyingEditor применяет правку к сохранённой в памяти композиции.
func applyingEditor(comp *entity.Composition) editFunc {
	return func(ctx context.Context, in portfolio.EditCompositionInput) (*portfolio.EditCompositionOutput, error) {
		if err := in.Edit(comp); err != nil {
			return nil, err
		}
		report := portfolio.WidgetReport{Created: []portfolio.CreatedWidget{}, Failed: []portfolio.FailedWidget{}}
		for _, w := range comp.AllWidgets() {
			report.Created = append(report.Created, portfolio.CreatedWidget{LocalID: w.ID, ID: w.ID, Kind: w.Kind})
		}
		return &portfolio.EditCompositionOutput{Composition: comp, Widgets: report}, nil
	}
}

func newCompositionRouter(userID uuid.UUID, h *PortfolioHandler) *gin.Engine {
	r := newTestRouter(userID, h)
	auth := func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
	g := r.Group("/api/portfolios/:id/composition", auth)
	g.GET("/export", h.ExportComposition)
	g.PATCH("/identity", h.UpdateCompositionIdentity)
	g.PUT("/theme", h.SetCompositionTheme)
	g.POST("/widgets", h.AddCompositionWidget)
	g.PATCH("/widgets/:widgetId", h.MoveCompositionWidget)
	g.DELETE("/widgets/:widgetId", h.RemoveCompositionWidget)
	g.PUT("/widgets/:widgetId/content", h.UpdateCompositionWidgetContent)
	return r
}

func TestAddCompositionWidget(t *testing.T) {
	comp := entity.NewComposition()
	h := NewPortfolioHandler(PortfolioUseCases{EditComposition: applyingEditor(comp)}, &fakePublic{}, nil)
	base := "/api/portfolios/" + uuid.New().String() + "/composition"
	r := newCompositionRouter(uuid.New(), h)

	w := doJSON(r, http.MethodPost, base+"/widgets", map[string]any{"type": "gallery", "column": "left"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	widgetID, _ := body["widgetId"].(string)
	require.NotEmpty(t, widgetID)
	assert.Equal(t, widgetID, comp.Left[len(comp.Left)-1].ID)

	w = doJSON(r, http.MethodPost, base+"/widgets", map[string]any{"type": "banner", "column": "left"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, base+"/widgets", map[string]any{"type": "gallery", "column": "middle"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompositionWidgetEdits(t *testing.T) {
	comp := entity.NewComposition()
	h := NewPortfolioHandler(PortfolioUseCases{EditComposition: applyingEditor(comp)}, &fakePublic{}, nil)
	base := "/api/portfolios/" + uuid.New().String() + "/composition"
	r := newCompositionRouter(uuid.New(), h)

	w := doJSON(r, http.MethodDelete, base+"/widgets/"+entity.IdentityWidgetID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPatch, base+"/widgets/"+entity.IdentityWidgetID, map[string]any{"column": "right"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPatch, base+"/widgets/projects", map[string]any{"column": "left"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, column, ok := comp.Find("projects")
	require.True(t, ok)
	assert.Equal(t, "left", string(column))

	w = doJSON(r, http.MethodPut, base+"/widgets/projects/content", map[string]any{"content": map[string]any{"title": "Work"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"title":"Work"}`, string(comp.Content["projects"]))

	w = doJSON(r, http.MethodDelete, base+"/widgets/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, _, ok = comp.Find("projects")
	assert.False(t, ok)

	w = doJSON(r, http.MethodDelete, base+"/widgets/projects", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCompositionIdentityAndTheme(t *testing.T) {
	comp := entity.NewComposition()
	h := NewPortfolioHandler(PortfolioUseCases{EditComposition: applyingEditor(comp)}, &fakePublic{}, nil)
	base := "/api/portfolios/" + uuid.New().String() + "/composition"
	r := newCompositionRouter(uuid.New(), h)

	w := doJSON(r, http.MethodPatch, base+"/identity", map[string]any{"name": "Ada", "title": "Engineer"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Ada", comp.Identity.Name)
	assert.Equal(t, "Engineer", comp.Identity.Title)

	w = doJSON(r, http.MethodPut, base+"/theme", map[string]any{"selectedColor": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, comp.Identity.SelectedColor)

	w = doJSON(r, http.MethodPut, base+"/theme", map[string]any{"selectedColor": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPut, base+"/theme", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportComposition(t *testing.T) {
	userID := uuid.New()
	portfolioID := uuid.New()
	comp := entity.NewComposition()
	comp.Identity.Name = "Ada"
	h := NewPortfolioHandler(PortfolioUseCases{
		GetComposition: loadFunc(func(ctx context.Context, pid, uid uuid.UUID) (*entity.Composition, error) {
			assert.Equal(t, portfolioID, pid)
			assert.Equal(t, userID, uid)
			return comp, nil
		}),
	}, &fakePublic{}, nil)

	w := doJSON(newCompositionRouter(userID, h), http.MethodGet, "/api/portfolios/"+portfolioID.String()+"/composition/export", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	body := decode(t, w)
	assert.Equal(t, "Ada", body["identity"].(map[string]any)["name"])
	assert.Len(t, body["leftWidgets"], 2)
	assert.Len(t, body["rightWidgets"], 3)
	assert.Equal(t, entity.ExportVersion, body["metadata"].(map[string]any)["version"])
}
