package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pathwai/pathwai-backend/internal/ai"
	"github.com/pathwai/pathwai-backend/internal/catalog"
	"github.com/pathwai/pathwai-backend/internal/config"
	"github.com/pathwai/pathwai-backend/internal/db"
	"github.com/pathwai/pathwai-backend/internal/goroutine"
	"github.com/pathwai/pathwai-backend/internal/domain/repository"
	httpHandlers "github.com/pathwai/pathwai-backend/internal/http/handlers"
	"github.com/pathwai/pathwai-backend/internal/http/middleware"
	httpRouter "github.com/pathwai/pathwai-backend/internal/http/router"
	aiInfra "github.com/pathwai/pathwai-backend/internal/infrastructure/ai"
	"github.com/pathwai/pathwai-backend/internal/infrastructure/persistence"
	apiHandler "github.com/pathwai/pathwai-backend/internal/interface/http/handler"
	"github.com/pathwai/pathwai-backend/internal/logger"
	repo "github.com/pathwai/pathwai-backend/internal/repository"
	"github.com/pathwai/pathwai-backend/internal/service"
	"github.com/pathwai/pathwai-backend/internal/storage"
	aiuc "github.com/pathwai/pathwai-backend/internal/usecase/ai"
	portfoliouc "github.com/pathwai/pathwai-backend/internal/usecase/portfolio"
	"github.com/pathwai/pathwai-backend/internal/ws"
	"github.com/pathwai/pathwai-backend/migrations"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}
	log := logger.WithComponent("main")

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer safeClose(dbConn)

	applied, err := db.RunMigrations(ctx, dbConn, migrations.FS)
	if err != nil {
		log.WithError(err).Fatal("migrations failed")
	}
	if len(applied) > 0 {
		log.WithField("migrations", applied).Info("migrations applied")
	}

	// Кэши. Redis необязателен.
	memCache := service.NewCacheService(ctx)
	var redisCache *service.RedisCache
	if cfg.RedisURL != "" {
		redisCache, err = service.NewRedisCache(ctx, cfg.RedisURL, "pathwai:")
		if err != nil {
			log.WithError(err).Warn("redis unavailable, falling back to in-memory cache")
			redisCache = nil
		} else {
			defer func() { _ = redisCache.Close() }()
		}
	}
	var redisClient *redis.Client
	if redisCache != nil {
		redisClient = redisCache.Client()
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MediaBaseURL, cfg.MaxUploadSizeMB)
	if err != nil {
		log.WithError(err).Fatal("media storage init failed")
	}

	// Репозитории.
	userRepo := repo.NewUserRepository(dbConn)
	mediaRepo := repo.NewMediaRepository(dbConn)
	catalogRepo := repo.NewCatalogRepository(dbConn)
	templateRepo := repo.NewTemplateRepository(dbConn)
	communityRepo := repo.NewCommunityRepository(dbConn)
	publicRepo := repo.NewPortfolioRepository(dbConn)

	portfolios := persistence.NewPortfolioRepositoryAdapter(dbConn)
	pages := persistence.NewPageRepositoryAdapter(dbConn)
	widgets := persistence.NewWidgetInstanceRepositoryAdapter(dbConn)
	layouts := persistence.NewLayoutRepositoryAdapter(dbConn)

	// Сервисы.
	resolver := service.NewWidgetTypeResolver(catalogRepo, memCache, redisCache, cfg.WidgetTypeCacheTTL)
	authService := service.NewAuthService(userRepo, tokenManager)
	catalogService := service.NewCatalogService(catalogRepo, memCache, resolver)
	templateService := service.NewTemplateService(templateRepo, communityRepo, memCache)
	communityService := service.NewCommunityService(communityRepo)
	mediaService := service.NewMediaService(mediaRepo, userRepo, photoStorage)
	publicService := service.NewPortfolioService(publicRepo)

	// Сценарии портфолио.
	createUC := portfoliouc.NewCreatePortfolioUseCase(portfolios, pages, widgets, layouts, resolver, catalog.Default())
	createUC.SetStoredTemplates(templateService)
	createUC.SetSlugAttempts(cfg.SlugAttempts)
	getCompositionUC := portfoliouc.NewGetCompositionUseCase(portfolios, pages, widgets, layouts, resolver)
	saveCompositionUC := portfoliouc.NewSaveCompositionUseCase(portfolios, pages, widgets, layouts, resolver)

	// AI подключается, только если задан ключ.
	var aiService repository.AIService
	if cfg.AIAPIKey != "" {
		aiService = aiInfra.NewAIServiceAdapter(ai.NewClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel))
	} else {
		log.Warn("AI_API_KEY is not set, AI endpoints are disabled")
	}

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	goroutine.SafeGo("ws.hub", hub.Run)

	handlers := httpRouter.Handlers{
		Health:    httpHandlers.NewHealthHandler(dbConn, redisClient),
		Auth:      httpHandlers.NewAuthHandler(authService),
		Catalog:   httpHandlers.NewCatalogHandler(catalogService, catalog.Default()),
		Templates: httpHandlers.NewTemplateHandler(templateService),
		Community: httpHandlers.NewCommunityHandler(communityService),
		Media:     httpHandlers.NewMediaHandler(mediaService),
		WS:        httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
		Portfolio: apiHandler.NewPortfolioHandler(apiHandler.PortfolioUseCases{
			Create:           createUC,
			Update:           portfoliouc.NewUpdatePortfolioUseCase(portfolios),
			Delete:           portfoliouc.NewDeletePortfolioUseCase(portfolios),
			ListMine:         portfoliouc.NewListMyPortfoliosUseCase(portfolios),
			CreateFromResume: portfoliouc.NewCreateFromResumeUseCase(portfolios, createUC),
			SaveComposition:  saveCompositionUC,
			GetComposition:   getCompositionUC,
			EditComposition:  portfoliouc.NewEditCompositionUseCase(getCompositionUC, saveCompositionUC),
		}, publicService, ws.NewPortfolioNotifier(hub)),
		AI: apiHandler.NewAIHandler(
			aiuc.NewParseResumeUseCase(aiService),
			aiuc.NewPortfolioChatUseCase(aiService, portfolios, getCompositionUC, communityService),
		),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, tokenManager, middleware.NewLimiterStore(redisClient))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("http server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{"port": cfg.HTTPPort, "env": cfg.Env}).Info("http server started")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("http server failed")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		logger.WithComponent("main").WithError(err).Error("database close failed")
	}
}
