package handlers

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

	"github.com/pathwai/pathwai-backend/internal/catalog"
	"github.com/pathwai/pathwai-backend/internal/http/middleware"
	"github.com/pathwai/pathwai-backend/internal/models"
	"github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/repository/common"
	"github.com/pathwai/pathwai-backend/internal/service"
)

type fakeCommunities struct {
	byCode   map[string]*models.Community
	members  map[uuid.UUID]map[uuid.UUID]bool
	profiles map[uuid.UUID]models.MemberProfile
	roles    map[uuid.UUID]*models.CommunityRole
}

func newFakeCommunities(list ...*models.Community) *fakeCommunities {
	f := &fakeCommunities{
		byCode:   map[string]*models.Community{},
		members:  map[uuid.UUID]map[uuid.UUID]bool{},
		profiles: map[uuid.UUID]models.MemberProfile{},
		roles:    map[uuid.UUID]*models.CommunityRole{},
	}
	for _, c := range list {
		f.byCode[c.Code] = c
	}
	return f
}

func (f *fakeCommunities) GetByCode(ctx context.Context, code string) (*models.Community, error) {
	c, ok := f.byCode[code]
	if !ok {
		return nil, repository.ErrCommunityNotFound
	}
	return c, nil
}

func (f *fakeCommunities) GetByID(ctx context.Context, id uuid.UUID) (*models.Community, error) {
	for _, c := range f.byCode {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrCommunityNotFound
}

func (f *fakeCommunities) Join(ctx context.Context, communityID, userID uuid.UUID, profile models.MemberProfile) (repository.JoinResult, error) {
	m := f.members[communityID]
	if m == nil {
		m = map[uuid.UUID]bool{}
		f.members[communityID] = m
	}
	if m[userID] {
		if !profile.IsEmpty() {
			f.profiles[userID] = profile
		}
		return repository.JoinResult{AlreadyMember: true}, nil
	}
	m[userID] = true
	f.profiles[userID] = profile
	first := len(m) == 1
	if first {
		_ = f.AssignRole(ctx, &models.CommunityRole{CommunityID: communityID, UserID: userID, Role: models.CommunityAdminRole})
	}
	return repository.JoinResult{IsFirstMember: first}, nil
}

func (f *fakeCommunities) HasRole(ctx context.Context, communityID, userID uuid.UUID, role string) (bool, error) {
	for _, r := range f.roles {
		if r.CommunityID == communityID && r.UserID == userID && r.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCommunities) AssignRole(ctx context.Context, role *models.CommunityRole) error {
	if ok, _ := f.HasRole(ctx, role.CommunityID, role.UserID, role.Role); ok {
		return common.ErrAlreadyExists
	}
	role.ID = uuid.New()
	f.roles[role.ID] = role
	return nil
}

func (f *fakeCommunities) GetRole(ctx context.Context, id uuid.UUID) (*models.CommunityRole, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, repository.ErrRoleNotFound
	}
	return r, nil
}

func (f *fakeCommunities) DeleteRole(ctx context.Context, id uuid.UUID) error {
	delete(f.roles, id)
	return nil
}

func (f *fakeCommunities) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Community, error) {
	var out []models.Community
	for _, c := range f.byCode {
		if f.members[c.ID][userID] {
			out = append(out, *c)
		}
	}
	return out, nil
}

func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func perform(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
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

func bodyOf(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCommunityJoin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	community := &models.Community{ID: uuid.New(), Name: "DMZ", Code: "DMZ2024"}
	h := NewCommunityHandler(service.NewCommunityService(newFakeCommunities(community)))
	first, second := uuid.New(), uuid.New()

	route := func(userID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.POST("/api/communities/join", withUser(userID), h.Join)
		return r
	}

	w := perform(route(first), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := bodyOf(t, w)
	assert.Equal(t, "Successfully joined community", body["message"])
	assert.Equal(t, true, body["isFirstMember"])

	w = perform(route(second), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})
	assert.Equal(t, false, bodyOf(t, w)["isFirstMember"])

	w = perform(route(first), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})
	assert.Equal(t, "Already a member", bodyOf(t, w)["message"])

	w = perform(route(first), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "NOPE123"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(route(first), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommunityJoin_StoresProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	community := &models.Community{ID: uuid.New(), Name: "DMZ", Code: "DMZ2024"}
	store := newFakeCommunities(community)
	h := NewCommunityHandler(service.NewCommunityService(store))
	userID := uuid.New()
	r := gin.New()
	r.POST("/api/communities/join", withUser(userID), h.Join)

	w := perform(r, http.MethodPost, "/api/communities/join", map[string]any{
		"communityCode": "DMZ2024",
		"industry":      " Fintech ",
		"skills":        []string{"Go", " ", "SQL"},
		"goals":         "Find a cofounder",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.MemberProfile{Industry: "Fintech", Skills: []string{"Go", "SQL"}, Goals: "Find a cofounder"}, store.profiles[userID])

	w = perform(r, http.MethodPost, "/api/communities/join", map[string]any{"communityCode": "DMZ2024", "industry": "Health"})
	assert.Equal(t, "Already a member", bodyOf(t, w)["message"])
	assert.Equal(t, "Health", store.profiles[userID].Industry)
}

func TestCommunityRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	community := &models.Community{ID: uuid.New(), Name: "DMZ", Code: "DMZ2024"}
	store := newFakeCommunities(community)
	h := NewCommunityHandler(service.NewCommunityService(store))
	admin, member := uuid.New(), uuid.New()

	route := func(userID uuid.UUID) *gin.Engine {
		r := gin.New()
		r.POST("/api/communities/join", withUser(userID), h.Join)
		r.POST("/api/admin/roles", withUser(userID), h.AssignRole)
		r.DELETE("/api/admin/roles", withUser(userID), h.RevokeRole)
		return r
	}
	perform(route(admin), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})
	perform(route(member), http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})

	assign := map[string]any{
		"targetUserId": member.String(),
		"role":         models.ModeratorRole,
		"scope":        "community",
		"scopeId":      community.ID.String(),
	}

	w := perform(route(member), http.MethodPost, "/api/admin/roles", assign)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(route(admin), http.MethodPost, "/api/admin/roles", map[string]any{"role": "moderator"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields", bodyOf(t, w)["error"])

	cohort := map[string]any{"targetUserId": member.String(), "role": "moderator", "scope": "cohort", "scopeId": uuid.New().String()}
	w = perform(route(admin), http.MethodPost, "/api/admin/roles", cohort)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid scope", bodyOf(t, w)["error"])

	w = perform(route(admin), http.MethodPost, "/api/admin/roles", assign)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := bodyOf(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, admin.String(), data["assigned_by"])
	roleID := data["id"].(string)

	w = perform(route(admin), http.MethodPost, "/api/admin/roles", assign)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = perform(route(member), http.MethodDelete, "/api/admin/roles", map[string]string{"roleId": roleID, "scope": "community"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(route(admin), http.MethodDelete, "/api/admin/roles", map[string]string{"roleId": roleID, "scope": "community"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ok, _ := store.HasRole(context.Background(), community.ID, member, models.ModeratorRole)
	assert.False(t, ok)

	w = perform(route(admin), http.MethodDelete, "/api/admin/roles", map[string]string{"roleId": roleID, "scope": "community"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Role not found", bodyOf(t, w)["error"])
}

func TestCommunityJoin_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCommunityHandler(service.NewCommunityService(newFakeCommunities()))
	r := gin.New()
	r.POST("/api/communities/join", h.Join)

	w := perform(r, http.MethodPost, "/api/communities/join", map[string]string{"communityCode": "DMZ2024"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil, catalog.Default())
	r := gin.New()
	r.GET("/api/templates/catalog", h.ListCatalogTemplates)
	r.GET("/api/templates/catalog/:id", h.GetCatalogTemplate)

	w := perform(r, http.MethodGet, "/api/templates/catalog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := bodyOf(t, w)
	all := body["templates"].([]any)
	assert.Len(t, all, len(catalog.Default().All()))
	assert.NotEmpty(t, body["professions"])

	first := catalog.Default().All()[0]
	w = perform(r, http.MethodGet, "/api/templates/catalog/"+first.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first.ID, bodyOf(t, w)["template"].(map[string]any)["id"])

	w = perform(r, http.MethodGet, "/api/templates/catalog/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogTemplates_ByProfession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil, catalog.Default())
	r := gin.New()
	r.GET("/api/templates/catalog", h.ListCatalogTemplates)
	profession := catalog.Default().Professions()[0]

	w := perform(r, http.MethodGet, "/api/templates/catalog?profession="+profession, nil)

	require.Equal(t, http.StatusOK, w.Code)
	for _, raw := range bodyOf(t, w)["templates"].([]any) {
		assert.Equal(t, profession, raw.(map[string]any)["profession"])
	}
}

type fakeThemes struct {
	themes []models.Theme
	types  []models.WidgetType
}

func (f *fakeThemes) ListWidgetTypes(ctx context.Context) ([]models.WidgetType, error) {
	return f.types, nil
}

func (f *fakeThemes) ListThemes(ctx context.Context) ([]models.Theme, error) {
	return f.themes, nil
}

func (f *fakeThemes) UpsertWidgetType(ctx context.Context, wt *models.WidgetType) (bool, error) {
	return true, nil
}

func TestCatalogThemesAndWidgetTypes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store := &fakeThemes{
		themes: []models.Theme{{ID: uuid.New(), Name: "Teal"}},
		types:  []models.WidgetType{{ID: uuid.New(), Key: "projects", Name: "Projects"}},
	}
	cache := service.NewCacheService(ctx)
	resolver := service.NewWidgetTypeResolver(store, cache, nil, 0)
	h := NewCatalogHandler(service.NewCatalogService(store, cache, resolver), catalog.Default())
	r := gin.New()
	r.GET("/api/themes", h.ListThemes)
	r.GET("/api/widget-types", h.ListWidgetTypes)

	w := perform(r, http.MethodGet, "/api/themes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, bodyOf(t, w)["themes"], 1)

	w = perform(r, http.MethodGet, "/api/widget-types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	types := bodyOf(t, w)["widgetTypes"].([]any)
	require.Len(t, types, 1)
	assert.Equal(t, "projects", types[0].(map[string]any)["key"])
}
