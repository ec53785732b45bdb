package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Success(t *testing.T) {
	logger := New("test-package")

	assert.NotNil(t, logger)
	assert.IsType(t, &SlogLogger{}, logger)
}

func TestNewWithConfig_JSONFormat(t *testing.T) {
	config := Config{
		Name:   "test-service",
		Format: FormatJSON,
		Level:  slog.LevelDebug,
	}

	logger := NewWithConfig(config)

	assert.NotNil(t, logger)
	assert.IsType(t, &SlogLogger{}, logger)
}

func TestNewWithConfig_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "test-service",
		Format: FormatJSON,
		Level:  slog.LevelInfo,
		Writer: &buf,
	})

	logger.Info("hello", "key", "value")

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"key":"value"`)
	assert.Contains(t, out, `"package":"test-service"`)
}

func TestTraceFromContext_ExtractsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{
		Name:   "traced",
		Format: FormatJSON,
		Writer: &buf,
	})

	ctx := ContextWithTraceID(context.Background(), "trace-123")
	logger.TraceFromContext(ctx).Info("test message")

	out := buf.String()
	assert.Contains(t, out, "test message")
	assert.Contains(t, out, "traceID")
	assert.Contains(t, out, "trace-123")
}

func TestTraceFromContext_NoTraceID(t *testing.T) {
	logger := NewWithContext(context.Background(), "test-service")

	assert.NotNil(t, logger)
	assert.IsType(t, &SlogLogger{}, logger)
}

func TestTraceIDFromContext(t *testing.T) {
	assert.Equal(t, "", TraceIDFromContext(context.Background()))

	ctx := ContextWithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceIDFromContext(ctx))
}

func TestError_ReturnsError(t *testing.T) {
	logger := New("test")

	err := logger.Error("something failed", "key", "value")

	assert.Error(t, err)
	assert.Equal(t, "something failed", err.Error())
}

func TestErrorWithType_WrapsSentinel(t *testing.T) {
	logger := New("test")
	sentinel := errors.New("validation error")

	err := logger.ErrorWithType(sentinel, "name is required")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, sentinel))
	assert.Contains(t, err.Error(), "name is required")
}

func TestErr_PassesThroughError(t *testing.T) {
	logger := New("test")
	cause := errors.New("db down")

	err := logger.Err("query failed", cause, "table", "tracks")

	assert.Equal(t, cause, err)
}

func TestErrMsg_ReturnsError(t *testing.T) {
	logger := New("test")

	err := logger.ErrMsg("plain failure")

	assert.Error(t, err)
	assert.Equal(t, "plain failure", err.Error())
}

func TestChainMethods(t *testing.T) {
	logger := New("test")

	assert.NotNil(t, logger.With("key1", "value1"))
	assert.NotNil(t, logger.File("track.controller.go"))
	assert.NotNil(t, logger.Function("Create"))
	assert.NotNil(t, logger.WithTraceID("id"))
}

func TestTimer_ReturnsStopFunc(t *testing.T) {
	logger := New("test")

	stop := logger.Timer("operation")

	assert.NotNil(t, stop)
	stop()
}
