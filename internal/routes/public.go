package routes

import (
	"jobh_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

func SetupPublicRoutes(api *gin.RouterGroup, h *handlers.AppHandlers) {
	vacancies := api.Group("/vacancies")
	{
		vacancies.GET("", h.VacancyHandler.Search)
		vacancies.GET("/autocomplete", h.VacancyHandler.Autocomplete)
		vacancies.GET("/autocomplete/city", h.VacancyHandler.AutocompleteCity)
		vacancies.GET("/:id", h.VacancyHandler.GetPublic)
	}

	companies := api.Group("/companies")
	{
		companies.GET("", h.CompanyHandler.ListPublic)
		companies.GET("/:id", h.CompanyHandler.GetPublic)
	}
}
