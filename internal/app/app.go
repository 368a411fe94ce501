package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"proconnect_backend/database"
	"proconnect_backend/internal/config"
	"proconnect_backend/internal/docstore"
	"proconnect_backend/internal/email"
	"proconnect_backend/internal/handlers"
	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/imageprocessor"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/metrics"
	"proconnect_backend/internal/middleware"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/routes"
	"proconnect_backend/internal/services"
	"proconnect_backend/internal/storage"
	"proconnect_backend/internal/validator"
	"proconnect_backend/internal/workers"
)

// Dependencies - внешние ресурсы, из которых собирается приложение
type Dependencies struct {
	DB       *gorm.DB
	Verifier identity.Verifier
	Intents  docstore.IntentStore
	Storage  storage.Storage
	Email    email.Provider
	Redis    *redis.Client
	Metrics  *metrics.Metrics
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env, logger.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, cleanup := connect(ctx, cfg)
	defer cleanup()

	if err := seedFirstAdmin(deps.DB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, container := SetupRouter(cfg, deps)

	worker := workers.NewRegistrationWorker(
		deps.DB,
		container.RegistrationService,
		time.Duration(cfg.Registration.ReconcileInterval)*time.Second,
		time.Duration(cfg.Registration.ReconcileAfter)*time.Second,
		cfg.Registration.ReconcileBatch,
		deps.Metrics,
	)
	worker.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// connect открывает все внешние соединения. Без БД и проверки токенов сервер не стартует.
func connect(ctx context.Context, cfg *config.Config) (*Dependencies, func()) {
	deps := &Dependencies{}
	var closers []func()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	closers = append(closers, func() { _ = sqlDB.Close() })
	logger.Info("Database connected")

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("Auto migration failed", "error", err)
		}
		logger.Info("Database schema migrated")
	}
	deps.DB = db

	deps.Verifier, err = identity.NewVerifier(identity.Config{
		Provider:   cfg.Auth.Provider,
		ProjectID:  cfg.Auth.ProjectID,
		CertsURL:   cfg.Auth.CertsURL,
		HMACSecret: cfg.Auth.HMACSecret,
		HMACIssuer: cfg.Auth.HMACIssuer,
	})
	if err != nil {
		logger.Fatal("Failed to configure token verification", "error", err)
	}
	logger.Info("Token verification configured", "provider", cfg.Auth.Provider)

	if cfg.DocStore.MongoURI != "" {
		store, err := docstore.NewMongoStore(cfg.DocStore.MongoURI, cfg.DocStore.Database)
		if err != nil {
			logger.Fatal("Failed to connect to document store", "error", err)
		}
		closers = append(closers, func() { _ = store.Close(context.Background()) })
		deps.Intents = store
		logger.Info("Document store connected", "database", cfg.DocStore.Database)
	} else {
		logger.Warn("MONGO_URI is not set, registration intents are kept in memory")
		deps.Intents = docstore.NewMemoryStore()
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, rate limit requests will pass through", "error", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		deps.Redis = rdb
	}

	deps.Storage, err = storage.NewStorage(ctx, storage.Config{
		Type:            cfg.Storage.Type,
		BasePath:        cfg.Storage.BasePath,
		BaseURL:         cfg.Storage.BaseURL,
		Bucket:          cfg.Storage.Bucket,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKey:       cfg.Storage.AccessKey,
		SecretKey:       cfg.Storage.SecretKey,
		UseSSL:          cfg.Storage.UseSSL,
		CredentialsFile: cfg.Storage.CredentialsFile,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	deps.Email = newEmailProvider(cfg)
	closers = append(closers, func() { _ = deps.Email.Close() })

	deps.Metrics = metrics.New(prometheus.DefaultRegisterer, "proconnect")

	return deps, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func newEmailProvider(cfg *config.Config) email.Provider {
	templates := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := templates.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			logger.Warn("Failed to load email templates, using defaults", "dir", cfg.Email.TemplatesDir, "error", err)
		}
	}

	if !cfg.Email.Enabled {
		logger.Warn("Email delivery disabled, notifications are logged")
		return NewLogEmailProvider(templates)
	}

	provider := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, templates)
	if err := provider.Validate(); err != nil {
		logger.Warn("Invalid SMTP configuration, notifications are logged", "error", err)
		return NewLogEmailProvider(templates)
	}
	return provider
}

// SetupRouter собирает сервисы, хэндлеры и маршруты
func SetupRouter(cfg *config.Config, deps *Dependencies) (*gin.Engine, *services.ServiceContainer) {
	v := validator.New()

	container := initializeServices(cfg, deps, v)
	appHandlers := initializeHandlers(container, v, deps.Metrics)

	roleRepo := repositories.NewRoleRepository()
	rateLimit := middleware.RateLimit(deps.Redis, cfg.RateLimit.Max, cfg.RateLimitWindow(), middleware.KeyByIPAndPath())
	guards := handlers.NewGuards(deps.Verifier, roleRepo, rateLimit)

	ginRouter := initializeGinRouter(cfg, deps)

	opts := routes.Options{DB: deps.DB, Metrics: deps.Metrics}
	if local, ok := deps.Storage.(*storage.LocalStorage); ok {
		opts.UploadsURL = cfg.Storage.BaseURL
		opts.UploadsDir = local.BasePath()
	}
	routes.RegisterRoutes(ginRouter, appHandlers, guards, opts)

	return ginRouter, container
}

func initializeServices(cfg *config.Config, deps *Dependencies, v *validator.Validator) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	roleRepo := repositories.NewRoleRepository()
	opportunityRepo := repositories.NewOpportunityRepository()
	applicationRepo := repositories.NewApplicationRepository()
	talentRepo := repositories.NewTalentRepository()
	contentRepo := repositories.NewContentRepository()
	geoRepo := repositories.NewGeoRepository()
	membershipRepo := repositories.NewMembershipRepository()

	notificationService := services.NewNotificationService(deps.Email)
	policy := services.NewPostingPolicy(cfg.Postings.AutoApprove, cfg.Postings.AutoApproveTypes)
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality)

	return &services.ServiceContainer{
		RegistrationService: services.NewRegistrationService(userRepo, profileRepo, roleRepo, deps.Intents, v, cfg.Registration.AutoApproveAccounts),
		UserService:         services.NewUserService(userRepo, profileRepo, roleRepo),
		OpportunityService:  services.NewOpportunityService(opportunityRepo, roleRepo, userRepo, notificationService, v),
		ApplicationService:  services.NewApplicationService(applicationRepo, opportunityRepo, roleRepo),
		AdminService:        services.NewAdminService(userRepo, profileRepo, roleRepo, notificationService),
		TalentService:       services.NewTalentService(talentRepo, profileRepo, roleRepo),
		ContentService: services.NewContentService(contentRepo, deps.Storage, processor, services.UploadLimits{
			MaxSize:      cfg.Upload.MaxSize,
			AllowedTypes: cfg.Upload.AllowedTypes,
		}),
		GeoService:          services.NewGeoService(geoRepo),
		MembershipService:   services.NewMembershipService(membershipRepo, userRepo, notificationService),
		NotificationService: notificationService,
		PostingPolicy:       policy,
	}
}

func initializeHandlers(container *services.ServiceContainer, v *validator.Validator, m *metrics.Metrics) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(v)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, container.RegistrationService, m),
		UserHandler:        handlers.NewUserHandler(baseHandler, container.UserService),
		OpportunityHandler: handlers.NewOpportunityHandler(baseHandler, container.OpportunityService, container.PostingPolicy),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		TalentHandler:      handlers.NewTalentHandler(baseHandler, container.TalentService),
		AdminHandler:       handlers.NewAdminHandler(baseHandler, container.AdminService, container.OpportunityService),
		ContentHandler:     handlers.NewContentHandler(baseHandler, container.ContentService),
		GeoHandler:         handlers.NewGeoHandler(baseHandler, container.GeoService),
		MembershipHandler:  handlers.NewMembershipHandler(baseHandler, container.MembershipService),
	}
}

func initializeGinRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(middleware.DBMiddleware(deps.DB))
	return router
}
