package handlers

import (
	"net/http"

	"jobh_backend/internal/models"
	"jobh_backend/internal/services"
	"jobh_backend/internal/services/dto"
	"jobh_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	cvFormField      = "cv"
	defaultMaxCVSize = 10 * 1024 * 1024
)

type ResumeHandler struct {
	*BaseHandler
	resumeService services.ResumeService
	storage       storage.Storage
	cv            UploadPolicy
}

// NewResumeHandler: CV принимается только в PDF
func NewResumeHandler(base *BaseHandler, resumeService services.ResumeService, store storage.Storage, maxCVSize int64) *ResumeHandler {
	if maxCVSize <= 0 {
		maxCVSize = defaultMaxCVSize
	}
	return &ResumeHandler{
		BaseHandler:   base,
		resumeService: resumeService,
		storage:       store,
		cv: UploadPolicy{
			MaxSize:      maxCVSize,
			AllowedTypes: []string{"application/pdf"},
		},
	}
}

// ResumeResponse - резюме с публичной ссылкой на CV
type ResumeResponse struct {
	*models.Resume
	CVURL *string `json:"cvUrl,omitempty"`
}

func (h *ResumeHandler) Create(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.CreateResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resume, err := h.resumeService.Create(c.Request.Context(), p, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.present(resume))
}

func (h *ResumeHandler) GetMine(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	resume, err := h.resumeService.GetMine(c.Request.Context(), p)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(resume))
}

func (h *ResumeHandler) UpdateMine(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var req dto.UpdateResumeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resume, err := h.resumeService.UpdateMine(c.Request.Context(), p, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(resume))
}

func (h *ResumeHandler) UploadCV(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	upload, err := readUpload(c, cvFormField, "CV file", h.cv)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resume, err := h.resumeService.UpdateCV(c.Request.Context(), p, upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.present(resume))
}

// --- Admin ---

func (h *ResumeHandler) ListAdmin(c *gin.Context) {
	p, ok := h.GetPrincipal(c)
	if !ok {
		return
	}

	var q dto.PageQuery
	if !h.BindAndValidate_Query(c, &q) {
		return
	}

	page, err := h.resumeService.ListAdmin(c.Request.Context(), p, &q)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	items := make([]ResumeResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, h.present(&page.Items[i]))
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(items, page.Total, page.Page, page.Limit))
}

func (h *ResumeHandler) present(resume *models.Resume) ResumeResponse {
	resp := ResumeResponse{Resume: resume}
	if resume != nil && resume.CVFile != nil && *resume.CVFile != "" && h.storage != nil {
		url := h.storage.URL(*resume.CVFile)
		resp.CVURL = &url
	}
	return resp
}
