package services

import (
	"context"
	"testing"

	"jobh_backend/internal/email"
	"jobh_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationFixture(t *testing.T) (*NotificationService, *recordingPusher, *recordingMailer, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	env.store.users["cand-1"] = models.User{
		BaseModel: models.BaseModel{ID: "cand-1"},
		Email:     "cand@example.com",
		FullName:  "Aru",
		Role:      models.UserRoleCandidate,
	}

	templates, err := email.NewDefaultTemplateManager()
	require.NoError(t, err)

	pusher := &recordingPusher{}
	mailer := &recordingMailer{}
	return NewNotificationService(pusher, mailer, templates, env.users, nil), pusher, mailer, env
}

func statusEvent(status models.ApplicationStatus) ApplicationStatusEvent {
	return ApplicationStatusEvent{
		ApplicationID: "app-1",
		ApplicantID:   "cand-1",
		VacancyID:     "vac-1",
		VacancyTitle:  "Go developer",
		CompanyName:   "Acme",
		Status:        status,
		ChangedAt:     testNow,
	}
}

func TestNotificationService_EmailOnlyForFinalStatuses(t *testing.T) {
	tests := []struct {
		status    models.ApplicationStatus
		wantEmail bool
	}{
		{models.ApplicationStatusNew, false},
		{models.ApplicationStatusReviewed, false},
		{models.ApplicationStatusAccepted, true},
		{models.ApplicationStatusRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			svc, pusher, mailer, _ := newNotificationFixture(t)

			require.NoError(t, svc.NotifyApplicationStatus(context.Background(), statusEvent(tt.status)))
			assert.Equal(t, []string{"cand-1:" + EventApplicationStatusChanged}, pusher.events)
			if !tt.wantEmail {
				assert.Empty(t, mailer.sent)
				return
			}
			require.Len(t, mailer.sent, 1)
			assert.Equal(t, []string{"cand@example.com"}, mailer.sent[0].To)
			assert.Contains(t, mailer.sent[0].Subject, "Go developer")
			assert.Contains(t, mailer.sent[0].HTMLBody, "Aru")
			assert.Contains(t, mailer.sent[0].HTMLBody, "Acme")
		})
	}
}

func TestNotificationService_PushFailureStillSendsEmail(t *testing.T) {
	svc, pusher, mailer, _ := newNotificationFixture(t)
	pusher.err = errBoom

	err := svc.NotifyApplicationStatus(context.Background(), statusEvent(models.ApplicationStatusAccepted))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, mailer.sent, 1)
}

func TestNotificationService_UnknownApplicant(t *testing.T) {
	svc, pusher, mailer, _ := newNotificationFixture(t)

	event := statusEvent(models.ApplicationStatusRejected)
	event.ApplicantID = "ghost"
	err := svc.NotifyApplicationStatus(context.Background(), event)
	require.Error(t, err)
	assert.Len(t, pusher.events, 1)
	assert.Empty(t, mailer.sent)
}
