package uifilter

import (
	"context"
	"errors"
	"time"
)

const (
	logMsgCompileFailed  = "failed to compile filter"
	logMsgFindFailed     = "failed to find records"
	logMsgCountFailed    = "failed to count records"
	logMsgPlanCompiled   = "compiled query plan"
	logMsgRecordsFound   = "records found"
	logMsgRecordsCounted = "records counted"
	logMsgPageFound      = "page found"
	logMsgOperation      = "uifilter operation: "
	logAttrError         = "error"
	logAttrPredicate     = "predicate"
	logAttrSort          = "sort"
	logAttrPageIndex     = "page_index"
	logAttrPageSize      = "page_size"
	logAttrRecordCount   = "record_count"
	logAttrTotalRecords  = "total_records"
	logAttrDurationMS    = "duration_ms"
	logAttrFieldCount    = "field_count"
	operationFind        = "find"
	operationCount       = "count"
	operationFindPage    = "find_page"
	errorTypeCompile     = "compile_error"
	errorTypeExecutor    = "executor_error"
	predicateMatchesAll  = "<all>"
	noPageWindow         = -1
)

// Service answers UI filter requests: it compiles a Filter into a QueryPlan and hands it to a QueryExecutor.
//
// The global search attributes and the default sort field are fixed per Service,
// so a Service can be shared across concurrent requests.
type Service struct {
	executor         QueryExecutor
	resolver         FieldResolver
	compiler         *PredicateCompiler
	defaultSortField string
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// Option defines a functional option for configuring a Service.
type Option func(*Service) error

// WithGlobalAttributes sets the attributes a global search fans out to.
func WithGlobalAttributes(attributes ...string) Option {
	return func(s *Service) error {
		s.compiler.SetGlobalAttributes(attributes...)
		return nil
	}
}

// WithDefaultSortField sets the field to sort on ascending when a Filter has no sort criteria.
func WithDefaultSortField(field string) Option {
	return func(s *Service) error {
		s.defaultSortField = field
		return nil
	}
}

// WithLogger sets the logger for the Service.
//
// Debug level: compiled plans (development use)
// Info level: record counts and durations (production-safe)
// Error level: compilation and executor failures.
func WithLogger(logger Logger) Option {
	return func(s *Service) error {
		s.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Service.
// It receives the same messages as Logger, together with the request context for trace correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *Service) error {
		s.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Service.
func WithMetrics(collector MetricsCollector) Option {
	return func(s *Service) error {
		s.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Service.
func WithTracing(collector TracingCollector) Option {
	return func(s *Service) error {
		s.tracingCollector = collector
		return nil
	}
}

// NewService creates a Service on top of executor, resolving fields with resolver.
func NewService(executor QueryExecutor, resolver FieldResolver, options ...Option) (*Service, error) {
	if executor == nil {
		return nil, ErrNilQueryExecutor
	}

	if resolver == nil {
		return nil, ErrNilFieldResolver
	}

	s := &Service{
		executor: executor,
		resolver: resolver,
		compiler: NewPredicateCompiler(),
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Compiler returns the PredicateCompiler of the Service.
func (s *Service) Compiler() *PredicateCompiler {
	return s.compiler
}

// BuildSort converts the sort criteria of filter, falling back to the default sort field.
func (s *Service) BuildSort(filter Filter) SortSpec {
	return BuildSort(filter, s.defaultSortField)
}

// Compile compiles filter into a QueryPlan without executing it.
func (s *Service) Compile(filter Filter) (QueryPlan, error) {
	return CompilePlan(s.compiler, filter, s.resolver, s.defaultSortField)
}

// FindByFilter returns the records matching filter, sorted and paginated as the filter requests.
func (s *Service) FindByFilter(ctx context.Context, filter Filter) (Records, error) {
	observer, ctx := s.startOperation(ctx, operationFind)

	records, errorType, err := s.find(ctx, filter)
	if err != nil {
		observer.finishError(errorType)
		return nil, err
	}

	duration := observer.finishSuccess(len(records))
	s.logOperationContext(ctx, logMsgRecordsFound,
		logAttrRecordCount, len(records),
		logAttrDurationMS, toMilliseconds(duration))

	return records, nil
}

// CountByFilter returns the number of records matching filter, ignoring its pagination.
// A UI needs it to know how many pages are available.
func (s *Service) CountByFilter(ctx context.Context, filter Filter) (int64, error) {
	observer, ctx := s.startOperation(ctx, operationCount)

	count, errorType, err := s.count(ctx, filter)
	if err != nil {
		observer.finishError(errorType)
		return 0, err
	}

	duration := observer.finishSuccess(int(count))
	s.logOperationContext(ctx, logMsgRecordsCounted,
		logAttrTotalRecords, count,
		logAttrDurationMS, toMilliseconds(duration))

	return count, nil
}

// FindPage returns the requested page of records together with the total number of matching records.
//
// It is observed as one find_page operation: the find and count it runs do not emit spans or metrics of their own.
func (s *Service) FindPage(ctx context.Context, filter Filter) (Result, error) {
	observer, ctx := s.startOperation(ctx, operationFindPage)

	records, errorType, err := s.find(ctx, filter)
	if err != nil {
		observer.finishError(errorType)
		return Result{}, err
	}

	total, errorType, err := s.count(ctx, filter)
	if err != nil {
		observer.finishError(errorType)
		return Result{}, err
	}

	duration := observer.finishSuccess(len(records))
	s.logOperationContext(ctx, logMsgPageFound,
		logAttrRecordCount, len(records),
		logAttrTotalRecords, total,
		logAttrDurationMS, toMilliseconds(duration))

	return Result{Records: records, TotalRecords: total}, nil
}

// find compiles and runs filter; on failure it also returns the error type to observe.
func (s *Service) find(ctx context.Context, filter Filter) (Records, string, error) {
	plan, err := s.compile(ctx, filter)
	if err != nil {
		return nil, errorTypeCompile, err
	}

	records, err := s.executor.Find(ctx, plan)
	if err != nil {
		s.logErrorContext(ctx, logMsgFindFailed, err)
		return nil, errorTypeExecutor, errors.Join(ErrQueryingRecordsFailed, err)
	}

	return records, "", nil
}

func (s *Service) count(ctx context.Context, filter Filter) (int64, string, error) {
	predicate, err := s.compiler.Compile(filter, s.resolver)
	if err != nil {
		s.logErrorContext(ctx, logMsgCompileFailed, err, logAttrFieldCount, len(filter.FieldCriteria()))
		return 0, errorTypeCompile, err
	}

	count, err := s.executor.Count(ctx, predicate)
	if err != nil {
		s.logErrorContext(ctx, logMsgCountFailed, err)
		return 0, errorTypeExecutor, errors.Join(ErrCountingRecordsFailed, err)
	}

	return count, "", nil
}

func (s *Service) compile(ctx context.Context, filter Filter) (QueryPlan, error) {
	plan, err := s.Compile(filter)
	if err != nil {
		s.logErrorContext(ctx, logMsgCompileFailed, err, logAttrFieldCount, len(filter.FieldCriteria()))
		return QueryPlan{}, err
	}

	s.logPlanContext(ctx, plan)

	return plan, nil
}

func toMilliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
