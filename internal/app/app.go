package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"jobh_backend/database"
	"jobh_backend/internal/auth"
	"jobh_backend/internal/cache"
	"jobh_backend/internal/config"
	"jobh_backend/internal/email"
	"jobh_backend/internal/handlers"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/middleware"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/routes"
	"jobh_backend/internal/services"
	"jobh_backend/internal/storage"
	"jobh_backend/internal/validator"
	"jobh_backend/internal/workers"
	"jobh_backend/pkg/apperrors"
	"jobh_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// App держит собранные зависимости и управляет их жизненным циклом
type App struct {
	cfg      *config.Config
	db       *gorm.DB
	redis    *redis.Client
	storage  storage.Storage
	mailer   email.Provider
	metrics  *metrics.Collector
	hub      *ws.Hub
	bridge   *ws.RedisBridge
	services *services.ServiceContainer
	reporter *workers.PremiumReporter
	router   *gin.Engine
}

// New подключается к базе и (если включен) Redis и собирает приложение
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, metrics: metrics.NewCollector()}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	a.db = db
	logger.Info("database connected")

	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		logger.Info("redis connected")
	} else {
		logger.Warn("redis disabled: search cache, rate limiting and cross-instance push are off")
	}

	a.storage, err = storage.NewStorage(storage.ConfigFrom(cfg))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("storage initialized", "type", cfg.Storage.Type)

	a.mailer = newMailer(cfg)
	if err := a.mailer.Validate(); err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid email provider config: %w", err)
	}

	a.router, err = a.SetupRouter()
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func newMailer(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("email disabled, messages are written to the log")
		return email.NewLogProvider()
	}
	return email.NewSMTPProvider(email.ConfigFrom(cfg))
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func (a *App) SetupRouter() (*gin.Engine, error) {
	a.hub = ws.NewHub()
	var pusher services.Pusher = a.hub
	if a.redis != nil {
		a.bridge = ws.NewRedisBridge(a.hub, a.redis)
		pusher = a.bridge
	}

	container, err := a.initializeServices(pusher)
	if err != nil {
		return nil, err
	}
	a.services = container
	a.reporter = workers.NewPremiumReporter(container.PremiumService, a.metrics, a.cfg.Workers.PremiumReportSpec)

	appHandlers := a.initializeHandlers(container)

	tokens := auth.NewTokenManager(a.cfg.JWT.Secret, a.cfg.JWT.TTL)
	mw := routes.Middlewares{
		Auth:   middleware.AuthMiddleware(tokens, false),
		WSAuth: middleware.AuthMiddleware(tokens, true),
		ApplyLimit: middleware.RateLimitByUser(
			middleware.NewRedisLimiter(a.redis), "apply", a.cfg.RateLimit.ApplyPerMinute, time.Minute,
		),
	}

	router := a.initializeGinRouter()
	if local, ok := a.storage.(*storage.LocalStorage); ok {
		router.Static(local.BaseURL(), local.BasePath())
	}
	routes.RegisterRoutes(router, a.cfg.Server.APIPrefix, appHandlers, mw, a.metrics.Handler())
	return router, nil
}

func (a *App) initializeServices(pusher services.Pusher) (*services.ServiceContainer, error) {
	var searchCache services.SearchCache = cache.NoopSearchCache{}
	if a.redis != nil {
		searchCache = cache.NewRedisSearchCache(a.redis, a.cfg.Redis.CacheTTL)
	}

	templates, err := email.NewDefaultTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	if dir := a.cfg.Email.TemplatesDir; dir != "" {
		if err := templates.LoadTemplates(dir); err != nil {
			return nil, fmt.Errorf("failed to load email templates from %s: %w", dir, err)
		}
	}

	// --- Репозитории ---
	tx := repositories.NewTransactor(a.db)
	userRepo := repositories.NewUserRepository(a.db)
	companyRepo := repositories.NewCompanyRepository(a.db)
	vacancyRepo := repositories.NewVacancyRepository(a.db)
	applicationRepo := repositories.NewApplicationRepository(a.db)
	savedRepo := repositories.NewSavedVacancyRepository(a.db)
	logRepo := repositories.NewModerationLogRepository(a.db)
	resumeRepo := repositories.NewResumeRepository(a.db)

	clock := services.SystemClock{}
	notificationService := services.NewNotificationService(pusher, a.mailer, templates, userRepo, a.metrics)

	return &services.ServiceContainer{
		CompanyService: services.NewCompanyService(tx, companyRepo, logRepo, a.storage, searchCache, a.metrics, clock),
		VacancyService: services.NewVacancyService(tx, vacancyRepo, companyRepo, savedRepo, logRepo, searchCache, a.metrics, clock),
		PremiumService: services.NewPremiumService(tx, vacancyRepo, logRepo, searchCache, a.metrics, clock),
		ApplicationService: services.NewApplicationService(
			tx, applicationRepo, vacancyRepo, companyRepo, logRepo,
			notificationService, a.cfg.Notify.Timeout, a.metrics, clock,
		),
		SearchService:       services.NewSearchService(vacancyRepo, searchCache, a.metrics, clock),
		AdminService:        services.NewAdminService(companyRepo, vacancyRepo, applicationRepo, logRepo, clock),
		ResumeService:       services.NewResumeService(tx, resumeRepo, a.storage),
		NotificationService: notificationService,
	}, nil
}

func (a *App) initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())
	logo := handlers.UploadPolicy{
		MaxSize:      a.cfg.Upload.MaxLogoSize,
		AllowedTypes: a.cfg.Upload.AllowedTypes,
	}

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		}
	}

	return &handlers.AppHandlers{
		CompanyHandler:     handlers.NewCompanyHandler(baseHandler, container.CompanyService, a.storage, logo),
		VacancyHandler:     handlers.NewVacancyHandler(baseHandler, container.VacancyService, container.PremiumService, container.SearchService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		AdminHandler:       handlers.NewAdminHandler(baseHandler, container.AdminService),
		ResumeHandler:      handlers.NewResumeHandler(baseHandler, container.ResumeService, a.storage, a.cfg.Upload.MaxCVSize),
		WSHandler:          handlers.NewWSHandler(baseHandler, ws.NewWebSocketHandler(a.hub, a.cfg.Server.CORSOrigins)),
		HealthHandler:      handlers.NewHealthHandler(checks),
	}
}

func (a *App) initializeGinRouter() *gin.Engine {
	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(a.cfg.IsDevelopment())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(a.metrics))
	router.Use(middleware.CORSMiddleware(a.cfg.Server.CORSOrigins))
	return router
}

// Router нужен тестам и внешним раннерам
func (a *App) Router() *gin.Engine {
	return a.router
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливается:
// перестает принимать запросы, дожидается уведомлений и фоновых задач.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var background sync.WaitGroup
	background.Add(1)
	go func() {
		defer background.Done()
		a.hub.Run(ctx)
	}()
	if a.bridge != nil {
		background.Add(1)
		go func() {
			defer background.Done()
			if err := a.bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("redis bridge stopped", "error", err)
			}
		}()
	}

	if err := a.reporter.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := a.services.ApplicationService.Wait(shutdownCtx); err != nil {
		logger.Warn("pending notifications were not delivered before shutdown", "error", err)
	}
	a.reporter.Stop()
	cancel()
	background.Wait()

	a.Close()
	logger.Info("server stopped")
	return runErr
}

// Close освобождает соединения; повторный вызов безопасен
func (a *App) Close() {
	if a.mailer != nil {
		if err := a.mailer.Close(); err != nil {
			logger.Warn("failed to close email provider", "error", err)
		}
		a.mailer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("failed to close redis", "error", err)
		}
		a.redis = nil
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		a.db = nil
	}
}
