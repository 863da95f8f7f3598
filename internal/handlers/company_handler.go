package handlers

import (
	"net/http"

	"jobh_backend/internal/models"
	"jobh_backend/internal/services"
	"jobh_backend/internal/services/dto"
	"jobh_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const logoFormField = "logo"

var defaultLogoTypes = []string{"image/jpeg", "image/png", "image/webp"}

type CompanyHandler struct {
	*BaseHandler
	companyService services.CompanyService
	storage        storage.Storage
	logo           UploadPolicy
}

func NewCompanyHandler(base *BaseHandler, companyService services.CompanyService, store storage.Storage, logo UploadPolicy) *CompanyHandler {
	if len(logo.AllowedTypes) == 0 {
		logo.AllowedTypes = defaultLogoTypes
	}
	return &CompanyHandler{
		BaseHandler:    base,
		companyService: companyService,
		storage:        store,
		logo:           logo,
	}
}

// CompanyResponse - компания с публичной ссылкой на логотип
type CompanyResponse struct {
	*models.Company
	LogoURL *string `json:"logoUrl,omitempty"`
}

// --- Employer ---

func (h *CompanyHandler) Submit(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, created, err := h.companyService.Submit(c.Request.Context(), p, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, h.present(company))
}

func (h *CompanyHandler) GetMine(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetMine(c.Request.Context(), p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(company))
}

// EditMine - PATCH /companies/me
func (h *CompanyHandler) EditMine(c *gin.Context) {
	h.edit(c, "")
}

// Edit - PATCH /companies/:id
func (h *CompanyHandler) Edit(c *gin.Context) {
	h.edit(c, c.Param("id"))
}

func (h *CompanyHandler) edit(c *gin.Context, companyID string) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, err := h.companyService.Edit(c.Request.Context(), p, companyID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(company))
}

func (h *CompanyHandler) UploadLogo(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	upload, err := readUpload(c, logoFormField, "Logo file", h.logo)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	company, err := h.companyService.UpdateLogo(c.Request.Context(), p, upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(company))
}

// --- Public ---

func (h *CompanyHandler) GetPublic(c *gin.Context) {
	company, err := h.companyService.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(company))
}

func (h *CompanyHandler) ListPublic(c *gin.Context) {
	var q dto.CompanyListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.companyService.ListPublic(c.Request.Context(), &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presentPage(page))
}

// --- Moderator ---

func (h *CompanyHandler) ListAdmin(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.AdminCompanyListQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.companyService.ListAdmin(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presentPage(page))
}

func (h *CompanyHandler) Approve(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companyService.Approve(c.Request.Context(), p, c.Param("id"))
	h.respond(c, company, err)
}

func (h *CompanyHandler) Reject(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if c.Request.ContentLength != 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, err := h.companyService.Reject(c.Request.Context(), p, c.Param("id"), req.Reason)
	h.respond(c, company, err)
}

func (h *CompanyHandler) Verify(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.VerifyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	company, err := h.companyService.SetVerified(c.Request.Context(), p, c.Param("id"), *req.Value)
	h.respond(c, company, err)
}

func (h *CompanyHandler) ToggleActive(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}
	company, err := h.companyService.ToggleActive(c.Request.Context(), p, c.Param("id"))
	h.respond(c, company, err)
}

func (h *CompanyHandler) respond(c *gin.Context, company *models.Company, err error) {
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(company))
}

func (h *CompanyHandler) present(company *models.Company) CompanyResponse {
	resp := CompanyResponse{Company: company}
	if company != nil && company.Logo != nil && *company.Logo != "" && h.storage != nil {
		url := h.storage.URL(*company.Logo)
		resp.LogoURL = &url
	}
	return resp
}

func (h *CompanyHandler) presentPage(page dto.PageResponse[models.Company]) dto.PageResponse[CompanyResponse] {
	items := make([]CompanyResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, h.present(&page.Items[i]))
	}
	return dto.NewPageResponse(items, page.Total, page.Page, page.Limit)
}
