package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"jobh_backend/internal/services/dto"
	"jobh_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
)

// UploadPolicy - ограничения на загружаемый файл
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

func (p UploadPolicy) allows(contentType string) bool {
	if len(p.AllowedTypes) == 0 {
		return true
	}
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, contentType) {
			return true
		}
	}
	return false
}

// readUpload проверяет размер и реальный тип содержимого, а не заголовок клиента
func readUpload(c *gin.Context, field, label string, policy UploadPolicy) (*dto.FileUpload, error) {
	if policy.MaxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, policy.MaxSize+1<<20)
	}

	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.NewBadRequestError(label + " is too large")
		}
		return nil, apperrors.NewBadRequestError("Multipart field '" + field + "' is required")
	}
	if policy.MaxSize > 0 && fh.Size > policy.MaxSize {
		return nil, apperrors.NewBadRequestError(label + " is too large")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewBadRequestError(label + " is empty")
	}

	contentType := mimetype.Detect(data).String()
	if !policy.allows(contentType) {
		return nil, apperrors.ValidationError(map[string]string{
			field: "Unsupported file type " + contentType,
		})
	}

	return &dto.FileUpload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
