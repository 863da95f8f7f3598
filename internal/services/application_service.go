package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/internal/services/dto"
	"jobh_backend/pkg/apperrors"
)

const DefaultNotifyTimeout = 5 * time.Second

// ApplicationStatusEvent - смена статуса отклика, уходит кандидату
type ApplicationStatusEvent struct {
	ApplicationID string                   `json:"applicationId"`
	ApplicantID   string                   `json:"-"`
	VacancyID     string                   `json:"vacancyId"`
	VacancyTitle  string                   `json:"vacancyTitle"`
	CompanyName   string                   `json:"companyName"`
	Status        models.ApplicationStatus `json:"status"`
	ChangedAt     time.Time                `json:"changedAt"`
}

// Notifier доставляет события кандидату. Ошибки доставки не влияют на переход.
type Notifier interface {
	NotifyApplicationStatus(ctx context.Context, event ApplicationStatusEvent) error
}

// ApplicationService - отклики кандидатов и их статусы
type ApplicationService interface {
	Apply(ctx context.Context, p auth.Principal, req *dto.ApplyRequest) (*models.Application, error)
	ListMine(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Application], error)
	ListForEmployer(ctx context.Context, p auth.Principal, q *dto.EmployerApplicationsQuery) (dto.PageResponse[models.Application], error)
	UpdateStatus(ctx context.Context, p auth.Principal, id string, status models.ApplicationStatus) (*models.Application, error)

	// Wait дожидается отправки уведомлений, запущенных до вызова
	Wait(ctx context.Context) error
}

type ApplicationServiceImpl struct {
	tx            repositories.Transactor
	applications  repositories.ApplicationRepository
	vacancies     repositories.VacancyRepository
	companies     repositories.CompanyRepository
	audit         auditor
	notifier      Notifier
	notifyTimeout time.Duration
	metrics       *metrics.Collector
	clock         Clock

	inflight sync.WaitGroup
}

func NewApplicationService(
	tx repositories.Transactor,
	applications repositories.ApplicationRepository,
	vacancies repositories.VacancyRepository,
	companies repositories.CompanyRepository,
	logs repositories.ModerationLogRepository,
	notifier Notifier,
	notifyTimeout time.Duration,
	collector *metrics.Collector,
	clock Clock,
) ApplicationService {
	if notifyTimeout <= 0 {
		notifyTimeout = DefaultNotifyTimeout
	}
	return &ApplicationServiceImpl{
		tx:            tx,
		applications:  applications,
		vacancies:     vacancies,
		companies:     companies,
		audit:         auditor{logs: logs},
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		metrics:       collector,
		clock:         clock,
	}
}

// Apply: только кандидат и только на видимую вакансию.
// Предварительная проверка дубликата носит рекомендательный характер,
// гарантию дает уникальный индекс.
func (s *ApplicationServiceImpl) Apply(ctx context.Context, p auth.Principal, req *dto.ApplyRequest) (application *models.Application, err error) {
	defer func() { s.metrics.RecordTransition("application", "apply", transitionResult(err)) }()

	if !auth.CanTransition(p, "", auth.ActionApplicationCreate) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	vacancy, err := s.vacancies.FindByID(ctx, req.VacancyID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if vacancy.Company == nil || vacancy.Company.IsDeleted {
		return nil, apperrors.ErrVacancyNotFound
	}
	if !vacancy.PubliclyVisible() {
		return nil, apperrors.ErrVacancyNotOpen
	}

	exists, err := s.applications.Exists(ctx, vacancy.ID, p.ID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		application = &models.Application{
			VacancyID:   vacancy.ID,
			ApplicantID: p.ID,
			CoverLetter: req.CoverLetter,
			Status:      models.ApplicationStatusNew,
		}
		if err := s.applications.Create(ctx, application); err != nil {
			return err
		}
		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityApplication,
			id:     application.ID,
			action: "apply",
			to:     string(application.Status),
			meta:   map[string]interface{}{"vacancyId": vacancy.ID},
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	application.Vacancy = vacancy
	return application, nil
}

func (s *ApplicationServiceImpl) ListMine(ctx context.Context, p auth.Principal, q *dto.PageQuery) (dto.PageResponse[models.Application], error) {
	if !auth.CanTransition(p, "", auth.ActionApplicationListOwn) {
		return dto.PageResponse[models.Application]{}, apperrors.ErrInsufficientPermissions
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.applications.ListByApplicant(ctx, p.ID, page)
	if err != nil {
		return dto.PageResponse[models.Application]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

// ListForEmployer - отклики на все вакансии компании работодателя
func (s *ApplicationServiceImpl) ListForEmployer(ctx context.Context, p auth.Principal, q *dto.EmployerApplicationsQuery) (dto.PageResponse[models.Application], error) {
	if !auth.CanTransition(p, "", auth.ActionApplicationEmployer) {
		return dto.PageResponse[models.Application]{}, apperrors.ErrInsufficientPermissions
	}

	company, err := s.companies.FindByOwner(ctx, p.ID)
	if err != nil {
		return dto.PageResponse[models.Application]{}, handleRepoError(err)
	}

	page := pageOf(q.Page, q.Limit)
	items, total, err := s.applications.ListForCompany(ctx, repositories.ApplicationFilter{
		CompanyID: company.ID,
		VacancyID: q.VacancyID,
		Status:    models.ApplicationStatus(q.Status),
		Page:      page,
	})
	if err != nil {
		return dto.PageResponse[models.Application]{}, handleRepoError(err)
	}
	return dto.NewPageResponse(items, total, page.Page, page.Limit), nil
}

// UpdateStatus пишет любой статус из перечня, без проверки графа переходов.
// После коммита кандидату уходит уведомление, в том числе при повторе того же статуса.
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, p auth.Principal, id string, status models.ApplicationStatus) (application *models.Application, err error) {
	defer func() { s.metrics.RecordTransition("application", "set_status", transitionResult(err)) }()

	if !status.Valid() {
		return nil, apperrors.ValidationError(map[string]string{"status": "must be one of NEW REVIEWED ACCEPTED REJECTED"})
	}

	var from models.ApplicationStatus
	err = s.audit.commit(ctx, s.tx, func(ctx context.Context) error {
		application, err = s.applications.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !auth.CanTransition(p, vacancyOwner(application.Vacancy), auth.ActionApplicationSetStatus) {
			return apperrors.ErrInsufficientPermissions
		}

		from = application.Status
		if err := s.applications.UpdateStatus(ctx, application.ID, status); err != nil {
			return err
		}
		application.Status = status

		return s.audit.record(ctx, p, auditRecord{
			entity: models.AuditEntityApplication,
			id:     application.ID,
			action: "set_status",
			from:   string(from),
			to:     string(status),
		})
	})
	if err != nil {
		return nil, handleRepoError(err)
	}

	s.dispatch(ctx, buildStatusEvent(application, s.clock.Now()))
	return application, nil
}

func buildStatusEvent(a *models.Application, now time.Time) ApplicationStatusEvent {
	event := ApplicationStatusEvent{
		ApplicationID: a.ID,
		ApplicantID:   a.ApplicantID,
		VacancyID:     a.VacancyID,
		Status:        a.Status,
		ChangedAt:     now,
	}
	if a.Vacancy != nil {
		event.VacancyTitle = a.Vacancy.Title
		if a.Vacancy.Company != nil {
			event.CompanyName = a.Vacancy.Company.Name
		}
	}
	return event
}

// dispatch отправляет уведомление в фоне, отвязав его от контекста запроса
func (s *ApplicationServiceImpl) dispatch(ctx context.Context, event ApplicationStatusEvent) {
	if s.notifier == nil {
		return
	}

	requestID := logger.GetRequestID(ctx)
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		nctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
		defer cancel()
		nctx = logger.WithRequestID(nctx, requestID)

		// паника нотификатора не должна ронять процесс
		defer func() {
			if r := recover(); r != nil {
				logger.CtxError(nctx, "application status notification panicked",
					"application_id", event.ApplicationID,
					"status", event.Status,
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := s.notifier.NotifyApplicationStatus(nctx, event); err != nil {
			logger.CtxWarn(nctx, "application status notification failed",
				"application_id", event.ApplicationID,
				"status", event.Status,
				"error", err,
			)
		}
	}()
}

func (s *ApplicationServiceImpl) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
