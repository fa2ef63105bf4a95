package uifilter

import (
	"context"
	"fmt"
	"time"
)

const (
	metricOperationDuration = "uifilter_operation_duration_seconds"
	metricRecordsReturned   = "uifilter_records_returned"
	metricOperationErrors   = "uifilter_operation_errors_total"
	spanNamePrefix          = "uifilter."
	spanAttrOperation       = "operation"
	spanAttrErrorType       = "error_type"
	spanAttrRecordCount     = "record_count"
	spanAttrDurationMS      = "duration_ms"
	labelStatus             = "status"
	statusSuccess           = "success"
	statusError             = "error"
)

// operationObserver encapsulates the tracing span and metrics of one Service operation.
type operationObserver struct {
	s         *Service
	ctx       context.Context
	operation string
	span      SpanContext
	start     time.Time
}

// startOperation starts a span (if tracing is configured) and the operation timer.
func (s *Service) startOperation(ctx context.Context, operation string) (*operationObserver, context.Context) {
	var span SpanContext

	if s.tracingCollector != nil {
		ctx, span = s.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, map[string]string{
			spanAttrOperation: operation,
		})
	}

	return &operationObserver{
		s:         s,
		ctx:       ctx,
		operation: operation,
		span:      span,
		start:     time.Now(),
	}, ctx
}

// finishSuccess records duration and record count and returns the elapsed time.
func (o *operationObserver) finishSuccess(recordCount int) time.Duration {
	duration := time.Since(o.start)

	o.s.recordDuration(o.ctx, o.operation, statusSuccess, duration)
	o.s.recordValue(o.ctx, metricRecordsReturned, float64(recordCount), o.operation)

	if o.span != nil {
		attrs := map[string]string{
			spanAttrRecordCount: fmt.Sprintf("%d", recordCount),
			spanAttrDurationMS:  fmt.Sprintf("%.2f", toMilliseconds(duration)),
		}
		o.span.SetStatus(statusSuccess)
		o.s.tracingCollector.FinishSpan(o.span, statusSuccess, attrs)
	}

	return duration
}

// finishError records the failure under errorType.
func (o *operationObserver) finishError(errorType string) {
	duration := time.Since(o.start)

	o.s.recordDuration(o.ctx, o.operation, statusError, duration)
	o.s.incrementErrors(o.ctx, o.operation, errorType)

	if o.span != nil {
		o.span.SetStatus(statusError)
		o.span.AddAttribute(spanAttrErrorType, errorType)
		o.s.tracingCollector.FinishSpan(o.span, statusError, map[string]string{spanAttrErrorType: errorType})
	}
}

func (s *Service) recordDuration(ctx context.Context, operation, status string, duration time.Duration) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if contextual, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
		return
	}

	s.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
}

func (s *Service) recordValue(ctx context.Context, metric string, value float64, operation string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: statusSuccess}

	if contextual, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	s.metricsCollector.RecordValue(metric, value, labels)
}

func (s *Service) incrementErrors(ctx context.Context, operation, errorType string) {
	if s.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: statusError, spanAttrErrorType: errorType}

	if contextual, ok := s.metricsCollector.(ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metricOperationErrors, labels)
		return
	}

	s.metricsCollector.IncrementCounter(metricOperationErrors, labels)
}

// logPlanContext logs the compiled plan at debug level to both configured loggers.
func (s *Service) logPlanContext(ctx context.Context, plan QueryPlan) {
	if s.logger == nil && s.contextualLogger == nil {
		return
	}

	predicate := predicateMatchesAll
	if plan.Predicate != nil {
		predicate = plan.Predicate.String()
	}

	pageIndex, pageSize := noPageWindow, noPageWindow
	if plan.Page != nil {
		pageIndex, pageSize = plan.Page.Index, plan.Page.Size
	}

	args := []any{
		logAttrPredicate, predicate,
		logAttrSort, plan.Sort.String(),
		logAttrPageIndex, pageIndex,
		logAttrPageSize, pageSize,
	}

	if s.logger != nil {
		s.logger.Debug(logMsgPlanCompiled, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.DebugContext(ctx, logMsgPlanCompiled, args...)
	}
}

// logOperationContext logs operational information at info level to both configured loggers.
func (s *Service) logOperationContext(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information at error level to both configured loggers.
func (s *Service) logErrorContext(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(message, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}
