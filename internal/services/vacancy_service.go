package services

import (
	"context"
	"errors"
	"strings"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"
	"jobh_backend/pkg/apperrors"
)

// VacancyService - жизненный цикл вакансии от создания до публикации
type VacancyService interface {
	Create(ctx context.Context, p auth.Principal, req *dto.CreateVacancyRequest) (*models.Vacancy, error)
	Update(ctx context.Context, p auth.Principal, id string, req *dto.UpdateVacancyRequest) (*models.Vacancy, error)
	SubmitForModeration(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error)
	Remove(ctx context.Context, p auth.Principal, id string) error

	Approve(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error)
	Reject(ctx context.Context, p auth.Principal, id string, reason *string) (*models.Vacancy, error)
	ToggleActive(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error)

	GetPublic(ctx context.Context, id string) (*models.Vacancy, error)
	ListMine(ctx context.Context, p auth.Principal, q *dto.MyVacancyQuery) (dto.PageResponse[models.Vacancy], error)
	ListAdmin(ctx context.Context, p auth.Principal, q *dto.AdminVacancyListQuery) (dto.PageResponse[models.Vacancy], error)

	Save(ctx context.Context, p auth.Principal, id string) error
	Unsave(ctx context.Context, p auth.Principal, id string) error
	ListSaved(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Vacancy], error)
}

type VacancyServiceImpl struct {
	tx        repositories.Transactor
	vacancies repositories.VacancyRepository
	companies repositories.CompanyRepository
	saved     repositories.SavedVacancyRepository
	audit     auditor
	cache     SearchInvalidator
	metrics   *metrics.Collector
	clock     Clock
}

func NewVacancyService(
	tx repositories.Transactor,
	vacancies repositories.VacancyRepository,
	companies repositories.CompanyRepository,
	saved repositories.SavedVacancyRepository,
	logs repositories.ModerationLogRepository,
	cache SearchInvalidator,
	collector *metrics.Collector,
	clock Clock,
) VacancyService {
	return &VacancyServiceImpl{
		tx:        tx,
		vacancies: vacancies,
		companies: companies,
		saved:     saved,
		audit:     auditor{logs: logs},
		cache:     cache,
		metrics:   collector,
		clock:     clock,
	}
}

// vacancyOwner - владелец компании, которой принадлежит вакансия
func vacancyOwner(v *models.Vacancy) string {
	if v == nil || v.Company == nil {
		return ""
	}
	return v.Company.OwnerID
}

func validateSalaryRange(from, to *int64) error {
	if from != nil && to != nil && *from > *to {
		return apperrors.ValidationError(map[string]string{
			"salaryTo": "salaryTo must be greater than or equal to salaryFrom",
		})
	}
	return nil
}

func (s *VacancyServiceImpl) Create(ctx context.Context, p auth.Principal, req *dto.CreateVacancyRequest) (vacancy *models.Vacancy, err error) {
	defer func() { s.metrics.RecordTransition("vacancy", "create", transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionVacancyCreate) {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := validateSalaryRange(req.SalaryFrom, req.SalaryTo); err != nil {
		return nil, err
	}

	employmentType := models.EmploymentType(req.EmploymentType)
	if employmentType == "" {
		employmentType = models.EmploymentFullTime
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		company, err := s.companies.FindByOwner(ctx, p.ID)
		if errors.Is(err, repositories.ErrCompanyNotFound) {
			return apperrors.ErrCreateCompanyFirst
		}
		if err != nil {
			return err
		}

		vacancy = &models.Vacancy{
			CompanyID:      company.ID,
			Title:          strings.TrimSpace(req.Title),
			Description:    req.Description,
			City:           req.City,
			SalaryFrom:     req.SalaryFrom,
			SalaryTo:       req.SalaryTo,
			EmploymentType: employmentType,
			Status:         models.VacancyStatusPending,
			IsActive:       true,
		}
		if err := s.vacancies.Create(ctx, vacancy); err != nil {
			return err
		}
		vacancy.Company = company

		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityVacancy,
			id:     vacancy.ID,
			action: "create",
			to:     string(vacancy.Status),
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}
	return vacancy, nil
}

// Update: правка опубликованной вакансии снимает её с публикации до повторной модерации
func (s *VacancyServiceImpl) Update(ctx context.Context, p auth.Principal, id string, req *dto.UpdateVacancyRequest) (*models.Vacancy, error) {
	return s.ownerTransition(ctx, p, id, "edit", auth.ActionVacancyEdit, func(v *models.Vacancy) (bool, error) {
		if err := applyVacancyUpdate(v, req); err != nil {
			return false, err
		}
		if v.Status == models.VacancyStatusPublished {
			v.DemoteForReview()
		}
		return true, nil
	})
}

func applyVacancyUpdate(v *models.Vacancy, req *dto.UpdateVacancyRequest) error {
	if req == nil {
		return nil
	}
	if req.Title != nil {
		v.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.City != nil {
		v.City = req.City
	}
	if req.SalaryFrom != nil {
		v.SalaryFrom = req.SalaryFrom
	}
	if req.SalaryTo != nil {
		v.SalaryTo = req.SalaryTo
	}
	if req.EmploymentType != nil {
		v.EmploymentType = models.EmploymentType(*req.EmploymentType)
	}
	return validateSalaryRange(v.SalaryFrom, v.SalaryTo)
}

// SubmitForModeration: компания должна быть одобрена; для PUBLISHED ничего не меняет
func (s *VacancyServiceImpl) SubmitForModeration(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error) {
	return s.ownerTransition(ctx, p, id, "submit", auth.ActionVacancySubmit, func(v *models.Vacancy) (bool, error) {
		if v.Company == nil || v.Company.IsDeleted || v.Company.Status != models.CompanyStatusApproved {
			return false, apperrors.ErrCompanyNotApproved
		}
		switch {
		case v.Status == models.VacancyStatusPublished:
			return false, nil
		case v.Status.Terminal():
			return false, apperrors.ErrIllegalTransition("vacancy", v.Status, "submit for moderation")
		}
		v.Status = models.VacancyStatusPending
		v.RejectedReason = nil
		return true, nil
	})
}

// Remove - мягкое удаление, статус не меняется
func (s *VacancyServiceImpl) Remove(ctx context.Context, p auth.Principal, id string) error {
	_, err := s.ownerTransition(ctx, p, id, "remove", auth.ActionVacancyRemove, func(v *models.Vacancy) (bool, error) {
		v.IsDeleted = true
		return true, nil
	})
	return err
}

// ownerTransition - каркас действий работодателя: блокировка строки, проверка владельца,
// изменение, запись и аудит в одной транзакции. mutate возвращает false, если менять нечего.
func (s *VacancyServiceImpl) ownerTransition(
	ctx context.Context,
	p auth.Principal,
	id, action string,
	permission auth.Action,
	mutate func(v *models.Vacancy) (bool, error),
) (vacancy *models.Vacancy, err error) {
	defer func() { s.metrics.RecordTransition("vacancy", action, transitionResult(err)) }()

	changed := false
	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		vacancy, err = s.vacancies.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !auth.CanTransition(p, vacancyOwner(vacancy), permission) {
			return apperrors.ErrNotVacancyOwner
		}

		from := vacancy.Status
		changed, err = mutate(vacancy)
		if err != nil || !changed {
			return err
		}

		if err := s.vacancies.Save(ctx, vacancy); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityVacancy,
			id:     vacancy.ID,
			action: action,
			from:   string(from),
			to:     string(vacancy.Status),
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	if changed {
		invalidateSearch(ctx, s.cache)
	}
	return vacancy, nil
}

// Approve допустим только из PENDING
func (s *VacancyServiceImpl) Approve(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error) {
	return s.moderate(ctx, p, id, "approve", func(v *models.Vacancy) (map[string]interface{}, error) {
		if v.Status != models.VacancyStatusPending {
			return nil, apperrors.ErrIllegalTransition("vacancy", v.Status, "approve")
		}
		v.Publish(s.clock.Now())
		return nil, nil
	})
}

// Reject допустим из любого нетерминального статуса
func (s *VacancyServiceImpl) Reject(ctx context.Context, p auth.Principal, id string, reason *string) (*models.Vacancy, error) {
	return s.moderate(ctx, p, id, "reject", func(v *models.Vacancy) (map[string]interface{}, error) {
		if v.Status.Terminal() {
			return nil, apperrors.ErrIllegalTransition("vacancy", v.Status, "reject")
		}
		r := rejectReason(reason)
		v.Reject(r)
		return map[string]interface{}{"reason": r}, nil
	})
}

func (s *VacancyServiceImpl) ToggleActive(ctx context.Context, p auth.Principal, id string) (*models.Vacancy, error) {
	return s.moderate(ctx, p, id, "toggle_active", func(v *models.Vacancy) (map[string]interface{}, error) {
		v.IsActive = !v.IsActive
		return map[string]interface{}{"isActive": v.IsActive}, nil
	})
}

func (s *VacancyServiceImpl) moderate(
	ctx context.Context,
	p auth.Principal,
	id, action string,
	apply func(v *models.Vacancy) (map[string]interface{}, error),
) (vacancy *models.Vacancy, err error) {
	defer func() { s.metrics.RecordTransition("vacancy", action, transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionVacancyModerate) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		vacancy, err = s.vacancies.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := vacancy.Status
		meta, err := apply(vacancy)
		if err != nil {
			return err
		}

		if err := s.vacancies.Save(ctx, vacancy); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityVacancy,
			id:     vacancy.ID,
			action: action,
			from:   string(from),
			to:     string(vacancy.Status),
			meta:   meta,
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	invalidateSearch(ctx, s.cache)
	return vacancy, nil
}

func (s *VacancyServiceImpl) GetPublic(ctx context.Context, id string) (*models.Vacancy, error) {
	vacancy, err := s.vacancies.FindPublicByID(ctx, id)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return vacancy, nil
}

func (s *VacancyServiceImpl) ListMine(ctx context.Context, p auth.Principal, q *dto.MyVacancyQuery) (dto.PageResponse[models.Vacancy], error) {
	if !auth.CanTransition(p, "", auth.ActionVacancyCreate) {
		return dto.PageResponse[models.Vacancy]{}, apperrors.ErrInsufficientPermissions
	}

	company, err := s.companies.FindByOwner(ctx, p.ID)
	if err != nil {
		return dto.PageResponse[models.Vacancy]{}, handleRepoError(err)
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.vacancies.ListByCompany(ctx, repositories.VacancyListFilter{
		CompanyID:      company.ID,
		Query:          normalizeQuery(q.Q),
		City:           normalizeQuery(q.City),
		EmploymentType: models.EmploymentType(q.EmploymentType),
		Page:           page,
	})
	if err != nil {
		return dto.PageResponse[models.Vacancy]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

func (s *VacancyServiceImpl) ListAdmin(ctx context.Context, p auth.Principal, q *dto.AdminVacancyListQuery) (dto.PageResponse[models.Vacancy], error) {
	if !auth.CanTransition(p, "", auth.ActionVacancyModerate) {
		return dto.PageResponse[models.Vacancy]{}, apperrors.ErrInsufficientPermissions
	}

	var status *models.VacancyStatus
	if q.Status != "" {
		st := models.VacancyStatus(q.Status)
		status = &st
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.vacancies.ListAdmin(ctx, status, page)
	if err != nil {
		return dto.PageResponse[models.Vacancy]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

// Save: в избранное можно добавить только видимую вакансию; повтор ничего не меняет
func (s *VacancyServiceImpl) Save(ctx context.Context, p auth.Principal, id string) error {
	if !auth.CanTransition(p, "", auth.ActionVacancySave) {
		return apperrors.ErrInsufficientPermissions
	}
	if _, err := s.vacancies.FindPublicByID(ctx, id); err != nil {
		return handleRepoError(err)
	}
	return handleRepoError(s.saved.Save(ctx, p.ID, id))
}

func (s *VacancyServiceImpl) Unsave(ctx context.Context, p auth.Principal, id string) error {
	if !auth.CanTransition(p, "", auth.ActionVacancySave) {
		return apperrors.ErrInsufficientPermissions
	}
	return handleRepoError(s.saved.Delete(ctx, p.ID, id))
}

func (s *VacancyServiceImpl) ListSaved(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Vacancy], error) {
	if !auth.CanTransition(p, "", auth.ActionVacancySave) {
		return dto.PageResponse[models.Vacancy]{}, apperrors.ErrInsufficientPermissions
	}

	page := pageOf(q.Page, q.Limit)
	rows, total, err := s.saved.ListByUser(ctx, p.ID, page)
	if err != nil {
		return dto.PageResponse[models.Vacancy]{}, handleRepoError(err)
	}

	items := make([]models.Vacancy, 0, len(rows))
	for _, row := range rows {
		if row.Vacancy != nil {
			items = append(items, *row.Vacancy)
		}
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}
