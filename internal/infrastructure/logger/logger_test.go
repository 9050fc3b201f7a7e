package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskboard/core/internal/infrastructure/config"
)

func newObserved() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestNew(t *testing.T) {
	log, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, log)

	_, err = New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestWithFieldsAndComponent(t *testing.T) {
	log, logs := newObserved()

	log.WithComponent("tasks").WithRequestID("req-1").Infow("hello", "k", "v")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "tasks", ctx["component"])
	assert.Equal(t, "req-1", ctx["request_id"])
	assert.Equal(t, "v", ctx["k"])
}

func TestLogStoreFailure(t *testing.T) {
	log, logs := newObserved()

	log.LogStoreFailure("create task", errors.New("connection refused"))

	entries := logs.FilterMessage("Store operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "create task", entries[0].ContextMap()["operation"])
}

func TestLogHTTPRequest(t *testing.T) {
	log, logs := newObserved()

	log.LogHTTPRequest("GET", "/api/tasks", "req-2", "127.0.0.1", 200, 1.5)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", ctx["method"])
	assert.EqualValues(t, 200, ctx["status_code"])
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Infow("discarded")
	})
}
