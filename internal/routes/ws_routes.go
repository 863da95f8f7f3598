package routes

import (
	"jobh_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes - браузер не умеет слать заголовки при апгрейде,
// поэтому здесь токен принимается и из query
func SetupWebSocketRoutes(r *gin.Engine, wsHandler *handlers.WSHandler, mw Middlewares) {
	r.GET("/ws", mw.WSAuth, wsHandler.Connect)
}
