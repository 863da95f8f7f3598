package routes

import (
	"jobh_backend/internal/handlers"
	"jobh_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupAdminRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, mw Middlewares) {
	admin := api.Group("/admin", mw.Auth, middleware.RequireModerator())
	{
		admin.GET("/statistics", h.AdminHandler.Statistics)
		admin.GET("/moderation-log", h.AdminHandler.ModerationLog)

		admin.GET("/companies", h.CompanyHandler.ListAdmin)
		admin.PATCH("/companies/:id/approve", h.CompanyHandler.Approve)
		admin.PATCH("/companies/:id/reject", h.CompanyHandler.Reject)
		admin.PATCH("/companies/:id/verify", h.CompanyHandler.Verify)
		admin.PATCH("/companies/:id/toggle-active", h.CompanyHandler.ToggleActive)

		admin.GET("/vacancies", h.VacancyHandler.ListAdmin)
		admin.PATCH("/vacancies/:id/approve", h.VacancyHandler.Approve)
		admin.PATCH("/vacancies/:id/reject", h.VacancyHandler.Reject)
		admin.PATCH("/vacancies/:id/premium", h.VacancyHandler.AdminSetPremium)
		admin.PATCH("/vacancies/:id/toggle-active", h.VacancyHandler.ToggleActive)

		admin.GET("/resumes", h.ResumeHandler.ListAdmin)
	}
}
