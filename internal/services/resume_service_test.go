package services

import (
	"context"
	"testing"

	"jobh_backend/internal/services/dto"
	"jobh_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResumeRequest() *dto.CreateResumeRequest {
	city := "Almaty"
	return &dto.CreateResumeRequest{
		FullName: "  Aidana Serik ",
		Title:    "Backend developer",
		City:     &city,
		Skills:   []string{"Go", " postgres ", "go", ""},
	}
}

func TestResumeService_CreateOnePerCandidate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()

	resume, err := svc.Create(ctx, candidate("cand-1"), newResumeRequest())
	require.NoError(t, err)
	assert.Equal(t, "cand-1", resume.OwnerID)
	assert.Equal(t, "Aidana Serik", resume.FullName)
	assert.Equal(t, []string{"Go", "postgres"}, []string(resume.Skills))
	assert.True(t, resume.IsActive)

	_, err = svc.Create(ctx, candidate("cand-1"), newResumeRequest())
	require.ErrorIs(t, err, apperrors.ErrResumeAlreadyExists)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.Create(ctx, candidate("cand-2"), newResumeRequest())
	assert.NoError(t, err)
}

func TestResumeService_CandidatesOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()

	_, err := svc.Create(ctx, employer("emp-1"), newResumeRequest())
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = svc.GetMine(ctx, moderator)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = svc.GetMine(ctx, candidate("cand-1"))
	assert.ErrorIs(t, err, apperrors.ErrResumeNotFound)
}

func TestResumeService_UpdateMine(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()
	_, err := svc.Create(ctx, candidate("cand-1"), newResumeRequest())
	require.NoError(t, err)

	title := "Senior backend developer"
	inactive := false
	updated, err := svc.UpdateMine(ctx, candidate("cand-1"), &dto.UpdateResumeRequest{
		Title:    &title,
		Skills:   []string{"Kafka"},
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Aidana Serik", updated.FullName)
	assert.Equal(t, []string{"Kafka"}, []string(updated.Skills))
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateMine(ctx, candidate("cand-2"), &dto.UpdateResumeRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrResumeNotFound)
}

func TestResumeService_UpdateCVReplacesFile(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()
	_, err := svc.Create(ctx, candidate("cand-1"), newResumeRequest())
	require.NoError(t, err)

	first, err := svc.UpdateCV(ctx, candidate("cand-1"), &dto.FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("one")})
	require.NoError(t, err)
	require.NotNil(t, first.CVFile)
	firstKey := *first.CVFile
	assert.Regexp(t, `^cvs/`+first.ID+`/[0-9a-f-]+\.pdf$`, firstKey)

	second, err := svc.UpdateCV(ctx, candidate("cand-1"), &dto.FileUpload{Filename: "CV.PDF", ContentType: "application/pdf", Data: []byte("two")})
	require.NoError(t, err)
	assert.NotEqual(t, firstKey, *second.CVFile)

	assert.Contains(t, env.storage.deleted, firstKey)
	assert.NotContains(t, env.storage.files, firstKey)
	assert.Equal(t, []byte("two"), env.storage.files[*second.CVFile])
}

func TestResumeService_UpdateCVRollsBackFile(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()

	_, err := svc.UpdateCV(ctx, candidate("cand-1"), &dto.FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("x")})
	require.ErrorIs(t, err, apperrors.ErrResumeNotFound)
	assert.Empty(t, env.storage.files)

	_, err = svc.Create(ctx, candidate("cand-1"), newResumeRequest())
	require.NoError(t, err)
	env.tx.commitErr = errBoom
	_, err = svc.UpdateCV(ctx, candidate("cand-1"), &dto.FileUpload{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("x")})
	require.Error(t, err)
	assert.Empty(t, env.storage.files, "uploaded file must be removed when the update is rolled back")

	stored, err := svc.GetMine(ctx, candidate("cand-1"))
	require.NoError(t, err)
	assert.Nil(t, stored.CVFile)
}

func TestResumeService_ListAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.resumeService()
	ctx := context.Background()
	for _, id := range []string{"cand-1", "cand-2"} {
		_, err := svc.Create(ctx, candidate(id), newResumeRequest())
		require.NoError(t, err)
	}

	page, err := svc.ListAdmin(ctx, moderator, &dto.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 2)

	_, err = svc.ListAdmin(ctx, candidate("cand-1"), &dto.PageQuery{})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
}
