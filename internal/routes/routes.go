package routes

import (
	"github.com/gin-gonic/gin"

	"intake_backend/internal/handlers"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers, // <-- Принимаем ГОТОВЫЕ хэндлеры
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.CandidateHandler.RegisterRoutes(api)
		appHandlers.VideoHandler.RegisterRoutes(api)
		appHandlers.QuestionHandler.RegisterRoutes(api)
		appHandlers.AdminHandler.RegisterRoutes(api)
		appHandlers.FileHandler.RegisterRoutes(api)
	}
}
