package handlers

import (
	"jobh_backend/ws"

	"github.com/gin-gonic/gin"
)

// WSHandler поднимает websocket для текущего principal
type WSHandler struct {
	*BaseHandler
	socket *ws.WebSocketHandler
}

func NewWSHandler(base *BaseHandler, socket *ws.WebSocketHandler) *WSHandler {
	return &WSHandler{
		BaseHandler: base,
		socket:      socket,
	}
}

func (h *WSHandler) Connect(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	h.socket.ServeWS(c, p.ID)
}
