package app

import (
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"intake_backend/internal/config"
	"intake_backend/internal/email"
	"intake_backend/internal/handlers"
	"intake_backend/internal/logger"
	"intake_backend/internal/middleware"
	"intake_backend/internal/models"
	"intake_backend/internal/repositories"
	"intake_backend/internal/resume"
	"intake_backend/internal/routes"
	"intake_backend/internal/services"
	"intake_backend/internal/storage"
	"intake_backend/internal/transcode"
	"intake_backend/internal/validator"
)

func Run() {
	// .env не обязателен: в контейнере все приходит из окружения
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := gormDB.AutoMigrate(&models.Candidate{}, &models.Question{}); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter собирает полностью сконфигурированный gin.Engine.
// Вынесен отдельно, чтобы интеграционные тесты могли поднять
// приложение поверх тестовой БД.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	// 1. Инициализируем сервисы
	serviceContainer := initializeServices(cfg, storageInstance)

	// 2. Инициализируем хэндлеры
	appHandlers := initializeHandlers(serviceContainer, storageInstance, cfg)

	// 3. Инициализируем Gin
	ginRouter := initializeGinRouter(gormDB)

	// 4. Делегируем регистрацию маршрутов пакету 'routes'
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	emailService := email.NewProvider(cfg)
	if err := emailService.Validate(); err != nil {
		logger.Warn("Email provider not fully configured, confirmations may not be sent", "error", err)
	}

	// --- Инициализация репозиториев ---
	candidateRepo := repositories.NewCandidateRepository()
	questionRepo := repositories.NewQuestionRepository()

	// --- Инициализация сервисов ---
	extractor := resume.NewExtractor()
	candidateService := services.NewCandidateService(candidateRepo, storageInstance, extractor, emailService)
	questionService := services.NewQuestionService(questionRepo, cfg)
	adminService := services.NewAdminService(cfg)

	return &services.ServiceContainer{
		CandidateService: candidateService,
		QuestionService:  questionService,
		AdminService:     adminService,
		EmailService:     emailService,
	}
}

func initializeHandlers(serviceContainer *services.ServiceContainer, storageInstance storage.Storage, cfg *config.Config) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	transcoder := transcode.New(cfg.Transcode.BinPath, cfg.Transcode.TempDir)

	return &handlers.AppHandlers{
		CandidateHandler: handlers.NewCandidateHandler(baseHandler, serviceContainer.CandidateService, cfg),
		VideoHandler:     handlers.NewVideoHandler(baseHandler, serviceContainer.CandidateService, transcoder, cfg),
		QuestionHandler:  handlers.NewQuestionHandler(baseHandler, serviceContainer.QuestionService),
		AdminHandler:     handlers.NewAdminHandler(baseHandler, serviceContainer.AdminService, serviceContainer.CandidateService),
		FileHandler:      handlers.NewFileHandler(baseHandler, storageInstance),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
