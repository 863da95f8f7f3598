package routes

import (
	"jobh_backend/internal/handlers"
	"jobh_backend/internal/middleware"
	"jobh_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupEmployerRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, mw Middlewares) {
	employer := middleware.RequireRoles(models.UserRoleEmployer)
	// премиум и статусы откликов доступны и модераторам
	employerOrModerator := middleware.RequireRoles(models.UserRoleEmployer, models.UserRoleAdmin, models.UserRoleSuperAdmin)

	companies := api.Group("/companies", mw.Auth)
	{
		companies.POST("", employer, h.CompanyHandler.Submit)
		companies.GET("/me", employer, h.CompanyHandler.GetMine)
		companies.PATCH("/me", employer, h.CompanyHandler.EditMine)
		companies.POST("/me/logo", employer, h.CompanyHandler.UploadLogo)
		companies.PATCH("/:id", employer, h.CompanyHandler.Edit)
	}

	vacancies := api.Group("/vacancies", mw.Auth)
	{
		vacancies.POST("", employer, h.VacancyHandler.Create)
		vacancies.GET("/my", employer, h.VacancyHandler.ListMine)
		vacancies.PATCH("/:id", employer, h.VacancyHandler.Update)
		vacancies.PATCH("/:id/submit", employer, h.VacancyHandler.Submit)
		vacancies.DELETE("/:id", employer, h.VacancyHandler.Remove)
		vacancies.PATCH("/:id/premium", employerOrModerator, h.VacancyHandler.BuyPremium)
	}

	applications := api.Group("/applications", mw.Auth)
	{
		applications.GET("/employer", employerOrModerator, h.ApplicationHandler.ListForEmployer)
		applications.PATCH("/:id/status", employerOrModerator, h.ApplicationHandler.UpdateStatus)
	}
}
