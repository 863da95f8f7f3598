package handlers

import (
	"context"
	"net/http"

	"jobh_backend/internal/models"
	"jobh_backend/internal/services"
	"jobh_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type VacancyHandler struct {
	*BaseHandler
	vacancyService services.VacancyService
	premiumService services.PremiumService
	searchService  services.SearchService
}

func NewVacancyHandler(
	base *BaseHandler,
	vacancyService services.VacancyService,
	premiumService services.PremiumService,
	searchService services.SearchService,
) *VacancyHandler {
	return &VacancyHandler{
		BaseHandler:    base,
		vacancyService: vacancyService,
		premiumService: premiumService,
		searchService:  searchService,
	}
}

// --- Public ---

func (h *VacancyHandler) Search(c *gin.Context) {
	var q dto.VacancySearchQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.searchService.Search(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VacancyHandler) Autocomplete(c *gin.Context) {
	h.autocomplete(c, h.searchService.Autocomplete)
}

func (h *VacancyHandler) AutocompleteCity(c *gin.Context) {
	h.autocomplete(c, h.searchService.AutocompleteCity)
}

func (h *VacancyHandler) autocomplete(c *gin.Context, suggest func(ctx context.Context, q string) ([]string, error)) {
	var q dto.AutocompleteQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	values, err := suggest(c.Request.Context(), q.Q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, values)
}

func (h *VacancyHandler) GetPublic(c *gin.Context) {
	vacancy, err := h.vacancyService.GetPublic(c.Request.Context(), c.Param("id"))
	h.respond(c, http.StatusOK, vacancy, err)
}

// --- Employer ---

func (h *VacancyHandler) Create(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateVacancyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vacancy, err := h.vacancyService.Create(c.Request.Context(), p, &req)
	h.respond(c, http.StatusCreated, vacancy, err)
}

func (h *VacancyHandler) ListMine(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.MyVacancyQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.vacancyService.ListMine(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VacancyHandler) Update(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateVacancyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vacancy, err := h.vacancyService.Update(c.Request.Context(), p, c.Param("id"), &req)
	h.respond(c, http.StatusOK, vacancy, err)
}

func (h *VacancyHandler) Submit(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	vacancy, err := h.vacancyService.SubmitForModeration(c.Request.Context(), p, c.Param("id"))
	h.respond(c, http.StatusOK, vacancy, err)
}

func (h *VacancyHandler) Remove(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	if err := h.vacancyService.Remove(c.Request.Context(), p, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BuyPremium - PATCH /vacancies/:id/premium, владелец или модератор
func (h *VacancyHandler) BuyPremium(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.PremiumRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vacancy, err := h.premiumService.BuyPremium(c.Request.Context(), p, c.Param("id"), req.Days)
	h.respond(c, http.StatusOK, vacancy, err)
}

// --- Candidate ---

func (h *VacancyHandler) Save(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	if err := h.vacancyService.Save(c.Request.Context(), p, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VacancyHandler) Unsave(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	if err := h.vacancyService.Unsave(c.Request.Context(), p, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VacancyHandler) ListSaved(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.vacancyService.ListSaved(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// --- Moderator ---

func (h *VacancyHandler) ListAdmin(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.AdminVacancyListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.vacancyService.ListAdmin(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *VacancyHandler) Approve(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	vacancy, err := h.vacancyService.Approve(c.Request.Context(), p, c.Param("id"))
	h.respond(c, http.StatusOK, vacancy, err)
}

func (h *VacancyHandler) Reject(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vacancy, err := h.vacancyService.Reject(c.Request.Context(), p, c.Param("id"), req.Reason)
	h.respond(c, http.StatusOK, vacancy, err)
}

func (h *VacancyHandler) ToggleActive(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	vacancy, err := h.vacancyService.ToggleActive(c.Request.Context(), p, c.Param("id"))
	h.respond(c, http.StatusOK, vacancy, err)
}

// AdminSetPremium требует опубликованную вакансию
func (h *VacancyHandler) AdminSetPremium(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.PremiumRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	vacancy, err := h.premiumService.AdminSetPremium(c.Request.Context(), p, c.Param("id"), req.Days)
	h.respond(c, http.StatusOK, vacancy, err)
}

func (h *VacancyHandler) respond(c *gin.Context, status int, vacancy *models.Vacancy, err error) {
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(status, vacancy)
}
