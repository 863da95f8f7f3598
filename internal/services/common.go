package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"jobh_backend/internal/auth"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
	"jobh_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Clock - источник текущего времени, подменяется в тестах
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// SearchInvalidator сбрасывает кэш публичного поиска после записи
type SearchInvalidator interface {
	Invalidate(ctx context.Context) error
}

// handleRepoError переводит ошибки репозиториев в ошибки приложения
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrCompanyNotFound):
		return apperrors.ErrCompanyNotFound
	case errors.Is(err, repositories.ErrVacancyNotFound):
		return apperrors.ErrVacancyNotFound
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrApplicationNotFound
	case errors.Is(err, repositories.ErrApplicationAlreadyExists):
		return apperrors.ErrAlreadyApplied
	case errors.Is(err, repositories.ErrResumeNotFound):
		return apperrors.ErrResumeNotFound
	case errors.Is(err, repositories.ErrResumeAlreadyExists):
		return apperrors.ErrResumeAlreadyExists
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.NewNotFoundError("user", "User not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.InternalError(err)
	default:
		return apperrors.DatabaseError(err)
	}
}

// transitionResult - метка результата для метрики переходов
func transitionResult(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < 500 {
		return metrics.ResultRejected
	}
	return metrics.ResultError
}

// auditor пишет ModerationLog в текущей транзакции.
// Строка "status transition" в лог уходит только после коммита.
type auditor struct {
	logs repositories.ModerationLogRepository
}

type journalKey struct{}

// journal копит переходы, записанные внутри одной транзакции
type journal struct {
	principal auth.Principal
	records   []auditRecord
}

// commit выполняет fn в транзакции и логирует переходы, если она закоммичена
func (a auditor) commit(ctx context.Context, tx repositories.Transactor, fn func(ctx context.Context) error) error {
	// вложенный вызов пишет в журнал внешней транзакции
	if _, ok := ctx.Value(journalKey{}).(*journal); ok {
		return tx.WithinTransaction(ctx, fn)
	}

	j := &journal{}
	if err := tx.WithinTransaction(context.WithValue(ctx, journalKey{}, j), fn); err != nil {
		return err
	}
	for _, rec := range j.records {
		logger.Transition(ctx, string(rec.entity), rec.id, rec.action, rec.from, rec.to, j.principal.ID)
	}
	return nil
}

type auditRecord struct {
	entity models.AuditEntity
	id     string
	action string
	from   string
	to     string
	meta   map[string]interface{}
}

func (a auditor) record(ctx context.Context, p auth.Principal, rec auditRecord) error {
	entry := &models.ModerationLog{
		EntityType: rec.entity,
		EntityID:   rec.id,
		ActorID:    p.ID,
		ActorRole:  p.Role,
		Action:     rec.action,
		FromStatus: rec.from,
		ToStatus:   rec.to,
	}
	if len(rec.meta) > 0 {
		raw, err := json.Marshal(rec.meta)
		if err != nil {
			return apperrors.InternalError(err)
		}
		entry.Meta = datatypes.JSON(raw)
	}

	if err := a.logs.Create(ctx, entry); err != nil {
		return handleRepoError(err)
	}
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.principal = p
		j.records = append(j.records, rec)
	}
	return nil
}

// invalidateSearch - best effort: ошибка кэша не откатывает записанное
func invalidateSearch(ctx context.Context, inv SearchInvalidator) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(ctx); err != nil {
		logger.CtxWarn(ctx, "failed to invalidate search cache", "error", err)
	}
}

func strPtr(s string) *string {
	return &s
}

func rejectReason(reason *string) string {
	if reason == nil || strings.TrimSpace(*reason) == "" {
		return models.DefaultRejectReason
	}
	return strings.TrimSpace(*reason)
}

func pageOf(page, limit int) repositories.Page {
	return repositories.Page{Page: page, Limit: limit}.Normalize()
}
