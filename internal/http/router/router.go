package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/pathwai/pathwai-backend/internal/config"
	"github.com/pathwai/pathwai-backend/internal/http/handlers"
	"github.com/pathwai/pathwai-backend/internal/http/middleware"
	apiHandler "github.com/pathwai/pathwai-backend/internal/interface/http/handler"
)

// Handlers - всё, что монтируется в роутер.
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Catalog   *handlers.CatalogHandler
	Templates *handlers.TemplateHandler
	Community *handlers.CommunityHandler
	Media     *handlers.MediaHandler
	WS        *handlers.WSHandler
	Portfolio *apiHandler.PortfolioHandler
	AI        *apiHandler.AIHandler
}

func SetupRouter(
	cfg *config.Config,
	h Handlers,
	tokens middleware.AccessTokenParser,
	limitStore limiter.Store,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(tokens)

	// Лимит на вход и регистрацию строже общего.
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(limitStore, "auth", 5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(auth)
	{
		protectedAuth.GET("/me", h.Auth.Me)
		protectedAuth.GET("/sessions", h.Auth.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), h.Auth.DeleteSession)
	}

	// Публичные справочники и портфолио.
	api.GET("/themes", h.Catalog.ListThemes)
	api.GET("/widget-types", h.Catalog.ListWidgetTypes)
	api.GET("/templates", h.Templates.List)
	api.GET("/templates/mandatory", h.Templates.Mandatory)
	api.GET("/templates/catalog", h.Catalog.ListCatalogTemplates)
	api.GET("/templates/catalog/:id", h.Catalog.GetCatalogTemplate)
	api.GET("/portfolios", h.Portfolio.ListPublic)
	api.GET("/portfolios/:id", h.Portfolio.GetBySlug)

	api.GET("/ws", h.WS.Handle)

	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.GET("/portfolios/my", h.Portfolio.ListMine)
		protected.POST("/portfolios", h.Portfolio.CreatePortfolio)
		protected.PATCH("/portfolios/:id", h.Portfolio.UpdatePortfolio)
		protected.DELETE("/portfolios/:id", h.Portfolio.DeletePortfolio)
		protected.GET("/portfolios/:id/composition", h.Portfolio.GetComposition)
		protected.PUT("/portfolios/:id/composition", h.Portfolio.SaveComposition)
		protected.GET("/portfolios/:id/composition/export", h.Portfolio.ExportComposition)
		protected.PATCH("/portfolios/:id/composition/identity", h.Portfolio.UpdateCompositionIdentity)
		protected.PUT("/portfolios/:id/composition/theme", h.Portfolio.SetCompositionTheme)
		protected.POST("/portfolios/:id/composition/widgets", h.Portfolio.AddCompositionWidget)
		protected.PATCH("/portfolios/:id/composition/widgets/:widgetId", h.Portfolio.MoveCompositionWidget)
		protected.DELETE("/portfolios/:id/composition/widgets/:widgetId", h.Portfolio.RemoveCompositionWidget)
		protected.PUT("/portfolios/:id/composition/widgets/:widgetId/content", h.Portfolio.UpdateCompositionWidgetContent)
		protected.POST("/create-portfolio-from-resume", h.Portfolio.CreateFromResume)

		protected.POST("/templates", h.Templates.Create)
		protected.PATCH("/templates/:id", h.Templates.Update)
		protected.DELETE("/templates/:id", h.Templates.Delete)

		protected.POST("/communities/join", h.Community.Join)
		protected.GET("/communities/my", h.Community.ListMine)
		protected.POST("/admin/roles", h.Community.AssignRole)
		protected.DELETE("/admin/roles", h.Community.RevokeRole)

		protected.POST("/media/avatar", h.Media.UploadAvatar)
		protected.POST("/media/photos", h.Media.UploadPhoto)
		protected.DELETE("/media/:id", h.Media.DeleteMedia)
	}

	aiGroup := api.Group("/ai")
	aiGroup.Use(auth, middleware.RateLimitMiddleware(limitStore, "ai", cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		aiGroup.POST("/parse-resume", h.AI.ParseResume)
		aiGroup.POST("/portfolio-chat", h.AI.PortfolioChat)
	}

	return r
}
