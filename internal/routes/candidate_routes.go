package routes

import (
	"jobh_backend/internal/handlers"
	"jobh_backend/internal/middleware"
	"jobh_backend/internal/models"

	"github.com/gin-gonic/gin"
)

func SetupCandidateRoutes(api *gin.RouterGroup, h *handlers.AppHandlers, mw Middlewares) {
	candidate := middleware.RequireRoles(models.UserRoleCandidate)

	applications := api.Group("/applications", mw.Auth)
	{
		apply := []gin.HandlerFunc{candidate}
		if mw.ApplyLimit != nil {
			apply = append(apply, mw.ApplyLimit)
		}
		applications.POST("", append(apply, h.ApplicationHandler.Apply)...)
		applications.GET("/my", candidate, h.ApplicationHandler.ListMine)
	}

	resumes := api.Group("/resumes", mw.Auth, candidate)
	{
		resumes.POST("", h.ResumeHandler.Create)
		resumes.GET("/me", h.ResumeHandler.GetMine)
		resumes.PATCH("/me", h.ResumeHandler.UpdateMine)
		resumes.POST("/me/cv", h.ResumeHandler.UploadCV)
	}

	vacancies := api.Group("/vacancies", mw.Auth)
	{
		vacancies.GET("/saved", candidate, h.VacancyHandler.ListSaved)
		vacancies.POST("/:id/save", candidate, h.VacancyHandler.Save)
		vacancies.DELETE("/:id/save", candidate, h.VacancyHandler.Unsave)
	}
}
