package oteladapters_test

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/embedded"
)

type emittedRecord struct {
	ctx    context.Context
	record log.Record
}

// logRecorder is a log.LoggerProvider and log.Logger that keeps every emitted record.
type logRecorder struct {
	embedded.LoggerProvider
	embedded.Logger

	mu      sync.Mutex
	records []emittedRecord
}

func (r *logRecorder) Logger(_ string, _ ...log.LoggerOption) log.Logger {
	return r
}

func (r *logRecorder) Emit(ctx context.Context, record log.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, emittedRecord{ctx: ctx, record: record})
}

func (r *logRecorder) Enabled(_ context.Context, _ log.EnabledParameters) bool {
	return true
}

func (r *logRecorder) emitted() []emittedRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]emittedRecord(nil), r.records...)
}

func attributesOf(record log.Record) map[string]log.Value {
	attrs := make(map[string]log.Value)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value
		return true
	})

	return attrs
}
