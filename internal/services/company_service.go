package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"
	"jobh_backend/internal/storage"
	"jobh_backend/pkg/apperrors"

	"github.com/google/uuid"
)

// CompanyService - машина одобрения компаний
type CompanyService interface {
	Submit(ctx context.Context, p auth.Principal, req *dto.CreateCompanyRequest) (*models.Company, bool, error)
	GetMine(ctx context.Context, p auth.Principal) (*models.Company, error)
	Edit(ctx context.Context, p auth.Principal, companyID string, req *dto.UpdateCompanyRequest) (*models.Company, error)
	UpdateLogo(ctx context.Context, p auth.Principal, file *dto.FileUpload) (*models.Company, error)

	Approve(ctx context.Context, p auth.Principal, id string) (*models.Company, error)
	Reject(ctx context.Context, p auth.Principal, id string, reason *string) (*models.Company, error)
	SetVerified(ctx context.Context, p auth.Principal, id string, value bool) (*models.Company, error)
	ToggleActive(ctx context.Context, p auth.Principal, id string) (*models.Company, error)

	GetPublic(ctx context.Context, id string) (*models.Company, error)
	ListPublic(ctx context.Context, q *dto.CompanyListQuery) (dto.PageResponse[models.Company], error)
	ListAdmin(ctx context.Context, p auth.Principal, q *dto.AdminCompanyListQuery) (dto.PageResponse[models.Company], error)
}

type CompanyServiceImpl struct {
	tx        repositories.Transactor
	companies repositories.CompanyRepository
	audit     auditor
	storage   storage.Storage
	cache     SearchInvalidator
	metrics   *metrics.Collector
	clock     Clock
}

func NewCompanyService(
	tx repositories.Transactor,
	companies repositories.CompanyRepository,
	logs repositories.ModerationLogRepository,
	store storage.Storage,
	cache SearchInvalidator,
	collector *metrics.Collector,
	clock Clock,
) CompanyService {
	return &CompanyServiceImpl{
		tx:        tx,
		companies: companies,
		audit:     auditor{logs: logs},
		storage:   store,
		cache:     cache,
		metrics:   collector,
		clock:     clock,
	}
}

// Submit создает компанию в PENDING. Повторный вызов возвращает существующую.
// Второй результат - была ли компания создана этим вызовом.
func (s *CompanyServiceImpl) Submit(ctx context.Context, p auth.Principal, req *dto.CreateCompanyRequest) (company *models.Company, created bool, err error) {
	defer func() { s.metrics.RecordTransition("company", "submit", transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionCompanySubmit) {
		return nil, false, apperrors.ErrInsufficientPermissions
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		existing, err := s.companies.FindByOwner(ctx, p.ID)
		if err == nil {
			company = existing
			return nil
		}
		if !errors.Is(err, repositories.ErrCompanyNotFound) {
			return err
		}

		company = &models.Company{
			OwnerID:     p.ID,
			Name:        strings.TrimSpace(req.Name),
			Description: req.Description,
			Website:     req.Website,
			Location:    req.Location,
			Status:      models.CompanyStatusPending,
			IsActive:    true,
		}
		if err := s.companies.Create(ctx, company); err != nil {
			return err
		}
		created = true

		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityCompany,
			id:     company.ID,
			action: "submit",
			to:     string(models.CompanyStatusPending),
		})
	})

	// Параллельный Submit успел первым: уникальный индекс отбил вставку
	if errors.Is(err, repositories.ErrCompanyAlreadyExists) {
		created = false
		company, err = s.companies.FindByOwner(ctx, p.ID)
	}
	if err != nil {
		return nil, false, handleRepoError(err)
	}
	return company, created, nil
}

func (s *CompanyServiceImpl) GetMine(ctx context.Context, p auth.Principal) (*models.Company, error) {
	if !auth.CanTransition(p, "", auth.ActionCompanySubmit) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	company, err := s.companies.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return company, nil
}

// Edit: пустой companyID означает "моя компания".
// Любая правка возвращает компанию на модерацию.
func (s *CompanyServiceImpl) Edit(ctx context.Context, p auth.Principal, companyID string, req *dto.UpdateCompanyRequest) (company *models.Company, err error) {
	defer func() { s.metrics.RecordTransition("company", "edit", transitionResult(err)) }()

	if companyID == "" && !auth.CanTransition(p, "", auth.ActionCompanySubmit) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		company, err = s.lockTarget(ctx, p, companyID)
		if err != nil {
			return err
		}
		if !auth.CanTransition(p, company.OwnerID, auth.ActionCompanyEdit) {
			return apperrors.ErrNotCompanyOwner
		}

		from := company.Status
		applyCompanyUpdate(company, req)
		company.ResetForReview()

		if err := s.companies.Save(ctx, company); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityCompany,
			id:     company.ID,
			action: "edit",
			from:   string(from),
			to:     string(company.Status),
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	invalidateSearch(ctx, s.cache)
	return company, nil
}

func (s *CompanyServiceImpl) lockTarget(ctx context.Context, p auth.Principal, companyID string) (*models.Company, error) {
	if companyID == "" {
		return s.companies.FindByOwnerForUpdate(ctx, p.ID)
	}
	return s.companies.FindByIDForUpdate(ctx, companyID)
}

func applyCompanyUpdate(c *models.Company, req *dto.UpdateCompanyRequest) {
	if req == nil {
		return
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.Website != nil {
		c.Website = req.Website
	}
	if req.Location != nil {
		c.Location = req.Location
	}
}

// UpdateLogo сохраняет файл, подменяет ссылку и возвращает компанию на модерацию.
// Старый файл удаляется после коммита, ошибки удаления только логируются.
func (s *CompanyServiceImpl) UpdateLogo(ctx context.Context, p auth.Principal, file *dto.FileUpload) (company *models.Company, err error) {
	defer func() { s.metrics.RecordTransition("company", "update_logo", transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionCompanySubmit) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	current, err := s.companies.FindByOwner(ctx, p.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !auth.CanTransition(p, current.OwnerID, auth.ActionCompanyEdit) {
		return nil, apperrors.ErrNotCompanyOwner
	}

	key := fmt.Sprintf("logos/%s/%s%s", current.ID, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	if err := s.storage.Save(ctx, key, bytes.NewReader(file.Data), file.ContentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to store logo: %w", err))
	}

	var previous *string
	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		company, err = s.companies.FindByIDForUpdate(ctx, current.ID)
		if err != nil {
			return err
		}

		from := company.Status
		previous = company.Logo
		company.Logo = strPtr(key)
		company.ResetForReview()

		if err := s.companies.Save(ctx, company); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityCompany,
			id:     company.ID,
			action: "update_logo",
			from:   string(from),
			to:     string(company.Status),
			meta:   map[string]interface{}{"logo": key},
		})
	})
	if err != nil {
		s.removeFile(ctx, key)
		return nil, handleRepoError(err)
	}

	if previous != nil && *previous != "" {
		s.removeFile(ctx, *previous)
	}
	invalidateSearch(ctx, s.cache)
	return company, nil
}

func (s *CompanyServiceImpl) removeFile(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "failed to remove stored file", "key", key, "error", err)
	}
}

// Approve допустим из любого статуса
func (s *CompanyServiceImpl) Approve(ctx context.Context, p auth.Principal, id string) (*models.Company, error) {
	return s.moderate(ctx, p, id, "approve", func(c *models.Company) map[string]interface{} {
		c.Approve(s.clock.Now())
		return nil
	})
}

func (s *CompanyServiceImpl) Reject(ctx context.Context, p auth.Principal, id string, reason *string) (*models.Company, error) {
	return s.moderate(ctx, p, id, "reject", func(c *models.Company) map[string]interface{} {
		r := rejectReason(reason)
		c.Reject(r)
		return map[string]interface{}{"reason": r}
	})
}

func (s *CompanyServiceImpl) SetVerified(ctx context.Context, p auth.Principal, id string, value bool) (*models.Company, error) {
	return s.moderate(ctx, p, id, "verify", func(c *models.Company) map[string]interface{} {
		c.SetVerified(value, s.clock.Now())
		return map[string]interface{}{"isVerified": value}
	})
}

func (s *CompanyServiceImpl) ToggleActive(ctx context.Context, p auth.Principal, id string) (*models.Company, error) {
	return s.moderate(ctx, p, id, "toggle_active", func(c *models.Company) map[string]interface{} {
		c.IsActive = !c.IsActive
		return map[string]interface{}{"isActive": c.IsActive}
	})
}

// moderate - общий каркас действий модератора над компанией
func (s *CompanyServiceImpl) moderate(
	ctx context.Context,
	p auth.Principal,
	id, action string,
	apply func(c *models.Company) map[string]interface{},
) (company *models.Company, err error) {
	defer func() { s.metrics.RecordTransition("company", action, transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionCompanyModerate) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		company, err = s.companies.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := company.Status
		meta := apply(company)

		if err := s.companies.Save(ctx, company); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityCompany,
			id:     company.ID,
			action: action,
			from:   string(from),
			to:     string(company.Status),
			meta:   meta,
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	invalidateSearch(ctx, s.cache)
	return company, nil
}

func (s *CompanyServiceImpl) GetPublic(ctx context.Context, id string) (*models.Company, error) {
	company, err := s.companies.FindPublicByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return company, nil
}

func (s *CompanyServiceImpl) ListPublic(ctx context.Context, q *dto.CompanyListQuery) (dto.PageResponse[models.Company], error) {
	page := pageOf(q.Page, q.Limit)
	items, total, err := s.companies.ListPublic(ctx, repositories.CompanyFilter{
		Query: normalizeQuery(q.Q),
		City:  normalizeQuery(q.City),
		Page:  page,
	})
	if err != nil {
		return dto.PageResponse[models.Company]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

func (s *CompanyServiceImpl) ListAdmin(ctx context.Context, p auth.Principal, q *dto.AdminCompanyListQuery) (dto.PageResponse[models.Company], error) {
	if !auth.CanTransition(p, "", auth.ActionCompanyModerate) {
		return dto.PageResponse[models.Company]{}, apperrors.ErrInsufficientPermissions
	}

	var status *models.CompanyStatus
	if q.Status != "" {
		st := models.CompanyStatus(q.Status)
		status = &st
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.companies.ListAdmin(ctx, status, page)
	if err != nil {
		return dto.PageResponse[models.Company]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}
