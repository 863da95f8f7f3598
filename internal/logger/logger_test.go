package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_AddsRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production", "info")

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	CtxInfo(ctx, "vacancy published", "vacancy_id", "v-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "vacancy published", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "v-1", entry["vacancy_id"])
}

func TestInit_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production", "warn")

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDBLog_SlowAndFailed(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "production", "info")

	DBLog("SELECT 1", 1, 2*time.Second, true, nil)
	assert.Contains(t, buf.String(), "slow database operation")

	buf.Reset()
	DBLog("SELECT 1", 0, time.Millisecond, false, errors.New("boom"))
	assert.Contains(t, buf.String(), "database operation failed")
	assert.Contains(t, buf.String(), "boom")
}
