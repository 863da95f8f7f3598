package services

import (
	"context"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"
	"jobh_backend/pkg/apperrors"
)

// AdminService - сводная статистика и журнал модерации
type AdminService interface {
	Stats(ctx context.Context, p auth.Principal) (*dto.DashboardStats, error)
	ListModerationLog(ctx context.Context, p auth.Principal, q *dto.ModerationLogQuery) (dto.PageResponse[models.ModerationLog], error)
}

type AdminServiceImpl struct {
	companies    repositories.CompanyRepository
	vacancies    repositories.VacancyRepository
	applications repositories.ApplicationRepository
	logs         repositories.ModerationLogRepository
	clock        Clock
}

func NewAdminService(
	companies repositories.CompanyRepository,
	vacancies repositories.VacancyRepository,
	applications repositories.ApplicationRepository,
	logs repositories.ModerationLogRepository,
	clock Clock,
) AdminService {
	return &AdminServiceImpl{
		companies:    companies,
		vacancies:    vacancies,
		applications: applications,
		logs:         logs,
		clock:        clock,
	}
}

func (s *AdminServiceImpl) Stats(ctx context.Context, p auth.Principal) (*dto.DashboardStats, error) {
	if !auth.CanTransition(p, "", auth.ActionAdminView) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	companies, err := s.companies.CountByStatus(ctx)
	if err != nil {
		return nil, handleRepoError(err)
	}
	vacancies, err := s.vacancies.CountByStatus(ctx)
	if err != nil {
		return nil, handleRepoError(err)
	}
	applications, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, handleRepoError(err)
	}
	premium, err := s.vacancies.CountActivePremium(ctx, s.clock.Now())
	if err != nil {
		return nil, handleRepoError(err)
	}

	stats := &dto.DashboardStats{
		Companies:     companies,
		Vacancies:     vacancies,
		Applications:  applications,
		PremiumActive: premium,
	}
	for _, n := range companies {
		stats.TotalCompanies += n
	}
	for _, n := range vacancies {
		stats.TotalVacancies += n
	}
	return stats, nil
}

func (s *AdminServiceImpl) ListModerationLog(ctx context.Context, p auth.Principal, q *dto.ModerationLogQuery) (dto.PageResponse[models.ModerationLog], error) {
	if !auth.CanTransition(p, "", auth.ActionAdminView) {
		return dto.PageResponse[models.ModerationLog]{}, apperrors.ErrInsufficientPermissions
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.logs.List(ctx, repositories.ModerationLogFilter{
		EntityType: models.AuditEntity(q.EntityType),
		EntityID:   q.EntityID,
		Page:       page,
	})
	if err != nil {
		return dto.PageResponse[models.ModerationLog]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}
