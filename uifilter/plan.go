package uifilter

import (
	"context"
	"fmt"
)

// Record is a single result row, keyed by field name.
type Record = map[string]any

// Records is an alias type for a slice of Record.
type Records = []Record

// QueryPlan is the compiled, backend-neutral form of a Filter.
type QueryPlan struct {
	// Predicate restricts the result; nil matches everything.
	Predicate Predicate

	// Sort orders the result.
	Sort SortSpec

	// Page selects one page of the result; nil means the full result.
	Page *PageWindow
}

// CompilePlan compiles filter into a QueryPlan.
//
// Every requested sort field must be known to resolver. The defaultSortField is configured by the
// caller, not the UI, and is used as given.
func CompilePlan(
	compiler *PredicateCompiler,
	filter Filter,
	resolver FieldResolver,
	defaultSortField string,
) (QueryPlan, error) {

	predicate, err := compiler.Compile(filter, resolver)
	if err != nil {
		return QueryPlan{}, err
	}

	for _, sc := range filter.SortCriteria() {
		if resolver == nil {
			return QueryPlan{}, ErrNilFieldResolver
		}

		if _, ok := resolver.ResolveField(sc.Field()); !ok {
			return QueryPlan{}, fmt.Errorf("%w: sort field %q", ErrFieldResolution, sc.Field())
		}
	}

	plan := QueryPlan{
		Predicate: predicate,
		Sort:      BuildSort(filter, defaultSortField),
	}

	if page, ok := ResolvePagination(filter); ok {
		plan.Page = &page
	}

	return plan, nil
}

// QueryExecutor runs compiled plans against a data source.
type QueryExecutor interface {
	// Find returns the records matching plan.Predicate, ordered by plan.Sort and limited to plan.Page.
	Find(ctx context.Context, plan QueryPlan) (Records, error)

	// Count returns the number of records matching predicate, ignoring pagination.
	Count(ctx context.Context, predicate Predicate) (int64, error)
}

// Result holds one page of records together with the total number of matching records.
type Result struct {
	Records      Records
	TotalRecords int64
}
