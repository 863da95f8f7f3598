package services

import (
	"context"
	"time"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/pkg/apperrors"
)

const (
	MinPremiumDays = 1
	MaxPremiumDays = 365
)

// ExtendPremiumWindow продлевает окно премиума.
// Отсчет идет от текущего окончания, если оно в будущем, иначе от now.
func ExtendPremiumWindow(current *time.Time, now time.Time, days int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.Add(time.Duration(days) * 24 * time.Hour)
}

// PremiumService - временное продвижение вакансий в выдаче
type PremiumService interface {
	BuyPremium(ctx context.Context, p auth.Principal, vacancyID string, days int) (*models.Vacancy, error)
	AdminSetPremium(ctx context.Context, p auth.Principal, vacancyID string, days int) (*models.Vacancy, error)
	CountActive(ctx context.Context) (int64, error)
}

type PremiumServiceImpl struct {
	tx        repositories.Transactor
	vacancies repositories.VacancyRepository
	audit     auditor
	cache     SearchInvalidator
	metrics   *metrics.Collector
	clock     Clock
}

func NewPremiumService(
	tx repositories.Transactor,
	vacancies repositories.VacancyRepository,
	logs repositories.ModerationLogRepository,
	cache SearchInvalidator,
	collector *metrics.Collector,
	clock Clock,
) PremiumService {
	return &PremiumServiceImpl{
		tx:        tx,
		vacancies: vacancies,
		audit:     auditor{logs: logs},
		cache:     cache,
		metrics:   collector,
		clock:     clock,
	}
}

// BuyPremium: владелец вакансии или модератор, статус не проверяется
func (s *PremiumServiceImpl) BuyPremium(ctx context.Context, p auth.Principal, vacancyID string, days int) (*models.Vacancy, error) {
	return s.extend(ctx, p, vacancyID, days, "buy_premium", func(v *models.Vacancy) error {
		if !auth.CanTransition(p, vacancyOwner(v), auth.ActionPremiumBuy) {
			return apperrors.ErrNotVacancyOwner
		}
		return nil
	})
}

// AdminSetPremium: только модератор и только для опубликованной вакансии
func (s *PremiumServiceImpl) AdminSetPremium(ctx context.Context, p auth.Principal, vacancyID string, days int) (*models.Vacancy, error) {
	if !auth.CanTransition(p, "", auth.ActionPremiumGrant) {
		s.metrics.RecordTransition("vacancy", "grant_premium", metrics.ResultRejected)
		return nil, apperrors.ErrInsufficientPermissions
	}
	return s.extend(ctx, p, vacancyID, days, "grant_premium", func(v *models.Vacancy) error {
		if v.Status != models.VacancyStatusPublished {
			return apperrors.ErrPremiumRequiresPublished
		}
		return nil
	})
}

func (s *PremiumServiceImpl) extend(
	ctx context.Context,
	p auth.Principal,
	vacancyID string,
	days int,
	action string,
	check func(v *models.Vacancy) error,
) (vacancy *models.Vacancy, err error) {
	defer func() { s.metrics.RecordTransition("vacancy", action, transitionResult(err)) }()

	if days < MinPremiumDays || days > MaxPremiumDays {
		return nil, apperrors.ErrInvalidPremiumDays
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		vacancy, err = s.vacancies.FindByIDForUpdate(ctx, vacancyID)
		if err != nil {
			return err
		}
		if err := check(vacancy); err != nil {
			return err
		}

		now := s.clock.Now()
		previous := vacancy.PremiumUntil
		until := ExtendPremiumWindow(previous, now, days)
		vacancy.IsPremium = true
		vacancy.PremiumUntil = &until

		if err := s.vacancies.Save(ctx, vacancy); err != nil {
			return err
		}

		meta := map[string]interface{}{"days": days, "premiumUntil": until}
		if previous != nil {
			meta["previousUntil"] = *previous
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityVacancy,
			id:     vacancy.ID,
			action: action,
			from:   string(vacancy.Status),
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

// CountActive - вакансии с действующим премиумом на текущий момент
func (s *PremiumServiceImpl) CountActive(ctx context.Context) (int64, error) {
	n, err := s.vacancies.CountActivePremium(ctx, s.clock.Now())
	if err != nil {
		return 0, handleRepoError(err)
	}
	return n, nil
}
