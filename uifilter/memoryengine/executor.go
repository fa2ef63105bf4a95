package memoryengine

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

const (
	logMsgPlanEvaluated = "evaluated plan for: "
	logAttrPredicate    = "predicate"
	logAttrScanned      = "scanned_records"
	logAttrMatched      = "matched_records"
	logAttrReturned     = "returned_records"
	logActionFind       = "find"
	logActionCount      = "count"
	ctxCheckInterval    = 256
)

// Executor is a uifilter.QueryExecutor over records held in memory.
//
// The records are copied on the way in and on the way out, so neither the caller
// nor the consumers of results can change the stored data.
type Executor struct {
	mu               sync.RWMutex
	records          uifilter.Records
	logger           uifilter.Logger
	contextualLogger uifilter.ContextualLogger
}

// NewExecutor creates a new Executor holding a copy of records.
func NewExecutor(records uifilter.Records, options ...Option) (*Executor, error) {
	executor := &Executor{records: cloneRecords(records)}

	for _, option := range options {
		if err := option(executor); err != nil {
			return nil, err
		}
	}

	return executor, nil
}

// Replace swaps the stored records for a copy of records.
func (e *Executor) Replace(records uifilter.Records) {
	cloned := cloneRecords(records)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = cloned
}

// Insert appends copies of records to the stored records.
func (e *Executor) Insert(records ...uifilter.Record) {
	cloned := cloneRecords(records)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.records = append(e.records, cloned...)
}

// Len returns the number of stored records.
func (e *Executor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.records)
}

// Find returns the records matching plan.Predicate, ordered by plan.Sort and limited to plan.Page.
func (e *Executor) Find(ctx context.Context, plan uifilter.QueryPlan) (uifilter.Records, error) {
	matched, scanned, err := e.filter(ctx, plan.Predicate)
	if err != nil {
		return nil, err
	}

	sortRecords(matched, plan.Sort)
	page := paginate(matched, plan.Page)

	e.logEvaluation(ctx, logActionFind, plan.Predicate, scanned, len(matched), logAttrReturned, len(page))

	return cloneRecords(page), nil
}

// Count returns the number of records matching predicate.
func (e *Executor) Count(ctx context.Context, predicate uifilter.Predicate) (int64, error) {
	matched, scanned, err := e.filter(ctx, predicate)
	if err != nil {
		return 0, err
	}

	e.logEvaluation(ctx, logActionCount, predicate, scanned, len(matched))

	return int64(len(matched)), nil
}

// filter returns the stored records matching predicate and the number of scanned records.
func (e *Executor) filter(ctx context.Context, predicate uifilter.Predicate) (uifilter.Records, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	matched := make(uifilter.Records, 0)

	for i, record := range e.records {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, i, err
			}
		}

		ok, err := Matches(predicate, record)
		if err != nil {
			return nil, i, err
		}

		if ok {
			matched = append(matched, record)
		}
	}

	return matched, len(e.records), nil
}

func (e *Executor) logEvaluation(
	ctx context.Context,
	action string,
	predicate uifilter.Predicate,
	scanned int,
	matched int,
	extra ...any,
) {

	args := []any{logAttrPredicate, describe(predicate), logAttrScanned, scanned, logAttrMatched, matched}
	args = append(args, extra...)

	if e.logger != nil {
		e.logger.Debug(logMsgPlanEvaluated+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgPlanEvaluated+action, args...)
	}
}

func paginate(records uifilter.Records, page *uifilter.PageWindow) uifilter.Records {
	if page == nil {
		return records
	}

	offset := page.Offset()
	if offset >= len(records) {
		return uifilter.Records{}
	}

	end := min(offset+page.Size, len(records))

	return records[offset:end]
}

func cloneRecords(records uifilter.Records) uifilter.Records {
	cloned := make(uifilter.Records, 0, len(records))
	for _, record := range records {
		cloned = append(cloned, maps.Clone(record))
	}

	return slices.Clip(cloned)
}

func describe(predicate uifilter.Predicate) string {
	if predicate == nil {
		return "<none>"
	}

	return predicate.String()
}
