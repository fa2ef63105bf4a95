// Package uifilter compiles declarative UI filter requests into backend-neutral query plans.
//
// A Filter carries what a data table widget asks for: a pagination window, an ordered list of
// sort fields, and per-field filter criteria, optionally including a "global search" field.
// The package turns it into:
//   - a Predicate: a boolean expression tree of Conjunction, Disjunction and Comparison nodes
//   - a SortSpec: the ordered sort specification
//   - an optional PageWindow: page index and size
//
// It never executes queries. Executors such as postgresengine and memoryengine lower the
// compiled QueryPlan into their own query form. Fields are typed by a FieldResolver, which
// classifies each field as text, ordered or opaque; the category decides which match modes
// are legal and whether comparisons fold case.
//
// Common usage pattern:
//
//	filter := uifilter.BuildFilter().
//		WithOffset(20).
//		WithPageSize(10).
//		AddSortField("name", 1).
//		AddFilter("name",
//			uifilter.Criterion("James").WithMatchMode(uifilter.MatchStartsWith).WithOperator(uifilter.OperatorAnd),
//			uifilter.Criterion("Morrison").WithMatchMode(uifilter.MatchEndsWith)).
//		WithGlobalFieldName("global").
//		MustFinalize()
//
//	service, err := uifilter.NewService(executor, resolver,
//		uifilter.WithGlobalAttributes("name", "power", "alterEgo"),
//		uifilter.WithDefaultSortField("id"),
//		uifilter.WithLogger(slog.Default()),
//	)
//
//	result, err := service.FindPage(ctx, filter)
package uifilter
