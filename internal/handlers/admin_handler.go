package handlers

import (
	"net/http"

	"jobh_backend/internal/services"
	"jobh_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.adminService.Stats(c.Request.Context(), p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ModerationLog(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.ModerationLogQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.adminService.ListModerationLog(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
