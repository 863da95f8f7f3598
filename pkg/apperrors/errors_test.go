package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrVacancyNotFound, KindNotFound},
		{ErrNotCompanyOwner, KindForbidden},
		{ErrAlreadyApplied, KindConflict},
		{ErrResumeAlreadyExists, KindConflict},
		{ErrResumeNotFound, KindNotFound},
		{NewUnauthorizedError("no token"), KindUnauthorized},
		{ErrIllegalTransition("vacancy", "ARCHIVED", "approve"), KindBadRequest},
		{ErrTooManyRequests, KindBadRequest},
		{DatabaseError(errors.New("timeout")), KindInternal},
		{errors.New("plain"), KindInternal},
		{fmt.Errorf("wrapped: %w", ErrCompanyNotFound), KindNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), tt.err.Error())
	}
}

func TestWithDetailsKeepsSentinel(t *testing.T) {
	detailed := ErrCompanyNotApproved.WithDetails(map[string]string{"companyId": "c-1"})

	assert.Nil(t, ErrCompanyNotApproved.Details)
	assert.ErrorIs(t, detailed, ErrCompanyNotApproved)
	assert.NotErrorIs(t, detailed, ErrCreateCompanyFirst)

	wrapped := ErrVacancyNotFound.WithError(errors.New("record not found"))
	assert.ErrorIs(t, wrapped, ErrVacancyNotFound)
	assert.Contains(t, wrapped.Error(), "record not found")
}

func TestIllegalTransitionDetails(t *testing.T) {
	err := ErrIllegalTransition("company", "REJECTED", "verify")

	assert.Equal(t, CodeInvalidStatus, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "Cannot verify from status REJECTED", err.Message)
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	HandleError(c, err)
	return w
}

func TestHandleError(t *testing.T) {
	t.Cleanup(func() { SetDebug(false) })

	w := respond(ErrIllegalTransition("vacancy", "DRAFT", "approve"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code    string                 `json:"code"`
			Kind    string                 `json:"kind"`
			Domain  string                 `json:"domain"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CodeInvalidStatus), body.Error.Code)
	assert.Equal(t, string(KindBadRequest), body.Error.Kind)
	assert.Equal(t, "vacancy", body.Error.Domain)
	assert.Equal(t, "approve", body.Error.Details["action"])

	internal := InternalError(errors.New("pq: password authentication failed")).
		WithDetails(map[string]string{"query": "SELECT 1"})

	SetDebug(false)
	w = respond(internal)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "SELECT 1")
	assert.NotContains(t, w.Body.String(), "password")

	SetDebug(true)
	w = respond(internal)
	assert.Contains(t, w.Body.String(), "SELECT 1")

	w = respond(errors.New("unexpected"))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"Internal"`)
}
