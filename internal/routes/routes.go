package routes

import (
	"net/http"

	"jobh_backend/internal/handlers"
	"jobh_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Middlewares - цепочки, которые собирает приложение
type Middlewares struct {
	Auth       gin.HandlerFunc // bearer-токен
	WSAuth     gin.HandlerFunc // bearer или ?token=
	ApplyLimit gin.HandlerFunc // ограничение частоты откликов
}

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты
func RegisterRoutes(
	ginRouter *gin.Engine,
	apiPrefix string,
	appHandlers *handlers.AppHandlers,
	mw Middlewares,
	metricsHandler http.Handler,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	if metricsHandler != nil {
		ginRouter.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := ginRouter.Group(apiPrefix)
	{
		SetupPublicRoutes(api, appHandlers)
		SetupEmployerRoutes(api, appHandlers, mw)
		SetupCandidateRoutes(api, appHandlers, mw)
		SetupAdminRoutes(api, appHandlers, mw)
	}

	SetupWebSocketRoutes(ginRouter, appHandlers.WSHandler, mw)
	logger.Info("routes registered", "prefix", apiPrefix)
}
