package oteladapters_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/uifilter-go/testutil/helper"
	"github.com/AntonStoeckl/uifilter-go/uifilter/oteladapters"
)

func Test_SlogBridgeLogger_CorrelatesRecordsWithTheActiveSpan(t *testing.T) {
	recorder := &logRecorder{}
	logger := oteladapters.NewSlogBridgeLogger("uifilter", otelslog.WithLoggerProvider(recorder))

	tracerProvider := sdktrace.NewTracerProvider()
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	ctx, span := tracerProvider.Tracer("test").Start(context.Background(), "uifilter.find")
	logger.InfoContext(ctx, "uifilter operation: records found", "record_count", 3)
	span.End()

	emitted := recorder.emitted()
	require.Len(t, emitted, 1)

	assert.Equal(t, "uifilter operation: records found", emitted[0].record.Body().AsString())
	assert.Equal(t, log.SeverityInfo, emitted[0].record.Severity())
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(emitted[0].ctx).TraceID())
	assert.Equal(t, int64(3), attributesOf(emitted[0].record)["record_count"].AsInt64())
}

func Test_SlogBridgeLogger_AllLevels(t *testing.T) {
	recorder := &logRecorder{}
	logger := oteladapters.NewSlogBridgeLogger("uifilter", otelslog.WithLoggerProvider(recorder))
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message")
	logger.InfoContext(ctx, "info message")
	logger.WarnContext(ctx, "warn message")
	logger.ErrorContext(ctx, "error message")

	emitted := recorder.emitted()
	require.Len(t, emitted, 4)
	assert.Equal(t, log.SeverityDebug, emitted[0].record.Severity())
	assert.Equal(t, log.SeverityInfo, emitted[1].record.Severity())
	assert.Equal(t, log.SeverityWarn, emitted[2].record.Severity())
	assert.Equal(t, log.SeverityError, emitted[3].record.Severity())
}

func Test_SlogBridgeLoggerWithHandler(t *testing.T) {
	logHandler := helper.NewTestLogHandler(false)
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(logHandler)

	logger.ErrorContext(context.Background(), "failed to find records", "error", "database is down")

	assert.True(t, logHandler.HasErrorLogWithMessage("failed to find records").
		WithStringAttr("error", "database is down").
		Assert())
}

func Test_OTelLogger_EmitsTypedAttributes(t *testing.T) {
	recorder := &logRecorder{}
	logger := oteladapters.NewOTelLogger(recorder)

	logger.WarnContext(context.Background(), "compiled query plan",
		"predicate", "(name LIKE \"%bolt%\")",
		"record_count", int64(2),
		"page_size", 10,
		"duration_ms", 1.25,
		"sorted", true,
		"error", errors.New("boom"),
		"level", slog.LevelWarn,
		"dangling",
	)

	emitted := recorder.emitted()
	require.Len(t, emitted, 1)

	record := emitted[0].record
	assert.Equal(t, log.SeverityWarn, record.Severity())
	assert.Equal(t, "compiled query plan", record.Body().AsString())
	assert.False(t, record.Timestamp().IsZero())

	attrs := attributesOf(record)
	assert.Len(t, attrs, 7)
	assert.Equal(t, "(name LIKE \"%bolt%\")", attrs["predicate"].AsString())
	assert.Equal(t, int64(2), attrs["record_count"].AsInt64())
	assert.Equal(t, int64(10), attrs["page_size"].AsInt64())
	assert.InDelta(t, 1.25, attrs["duration_ms"].AsFloat64(), 0.0001)
	assert.True(t, attrs["sorted"].AsBool())
	assert.Equal(t, "boom", attrs["error"].AsString())
	assert.Equal(t, "WARN", attrs["level"].AsString())
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	recorder := &logRecorder{}
	logger := oteladapters.NewOTelLogger(recorder)
	ctx := context.Background()

	logger.DebugContext(ctx, "debug message", 42, "non-string key is skipped")
	logger.InfoContext(ctx, "info message")
	logger.ErrorContext(ctx, "error message")

	emitted := recorder.emitted()
	require.Len(t, emitted, 3)
	assert.Equal(t, log.SeverityDebug, emitted[0].record.Severity())
	assert.Empty(t, attributesOf(emitted[0].record))
	assert.Equal(t, log.SeverityInfo, emitted[1].record.Severity())
	assert.Equal(t, log.SeverityError, emitted[2].record.Severity())
}
