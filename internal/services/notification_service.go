package services

import (
	"context"
	"errors"
	"fmt"

	"jobh_backend/internal/email"
	"jobh_backend/internal/logger"
	"jobh_backend/internal/metrics"
	"jobh_backend/internal/models"
	"jobh_backend/internal/repositories"
)

const EventApplicationStatusChanged = "application.status_changed"

// Pusher доставляет realtime-события открытым соединениям пользователя
type Pusher interface {
	SendToUser(ctx context.Context, userID, event string, payload interface{}) error
}

// NotificationService - реализация Notifier: websocket-событие всегда,
// письмо только для ACCEPTED и REJECTED
type NotificationService struct {
	pusher    Pusher
	mailer    email.Provider
	templates email.TemplateRenderer
	users     repositories.UserRepository
	metrics   *metrics.Collector
}

func NewNotificationService(
	pusher Pusher,
	mailer email.Provider,
	templates email.TemplateRenderer,
	users repositories.UserRepository,
	collector *metrics.Collector,
) *NotificationService {
	return &NotificationService{
		pusher:    pusher,
		mailer:    mailer,
		templates: templates,
		users:     users,
		metrics:   collector,
	}
}

// NotifyApplicationStatus пробует оба канала и возвращает объединенную ошибку
func (s *NotificationService) NotifyApplicationStatus(ctx context.Context, event ApplicationStatusEvent) error {
	var errs []error

	if s.pusher != nil {
		err := s.pusher.SendToUser(ctx, event.ApplicantID, EventApplicationStatusChanged, event)
		s.metrics.RecordNotification("push", notificationResult(err))
		if err != nil {
			errs = append(errs, fmt.Errorf("push: %w", err))
		}
	}

	if s.mailer != nil && event.Status.NotifiesByEmail() {
		err := s.sendStatusEmail(ctx, event)
		s.metrics.RecordNotification("email", notificationResult(err))
		if err != nil {
			errs = append(errs, fmt.Errorf("email: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (s *NotificationService) sendStatusEmail(ctx context.Context, event ApplicationStatusEvent) error {
	user, err := s.users.FindByID(ctx, event.ApplicantID)
	if err != nil {
		return fmt.Errorf("failed to resolve applicant: %w", err)
	}
	if user.Email == "" {
		logger.CtxWarn(ctx, "applicant has no email, skipping", "user_id", user.ID)
		return nil
	}

	templateName, subject := statusEmail(event)
	body, err := s.templates.Render(templateName, email.TemplateData{
		"Name":         user.FullName,
		"VacancyTitle": event.VacancyTitle,
		"CompanyName":  event.CompanyName,
		"Status":       string(event.Status),
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, &email.Email{
		To:       []string{user.Email},
		Subject:  subject,
		HTMLBody: body,
	})
}

func statusEmail(event ApplicationStatusEvent) (templateName, subject string) {
	if event.Status == models.ApplicationStatusAccepted {
		return email.TemplateApplicationAccepted, fmt.Sprintf("Your application for %s was accepted", event.VacancyTitle)
	}
	return email.TemplateApplicationRejected, fmt.Sprintf("Update on your application for %s", event.VacancyTitle)
}

func notificationResult(err error) string {
	if err != nil {
		return metrics.ResultError
	}
	return metrics.ResultOK
}
