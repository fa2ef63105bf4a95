package uifilter_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/AntonStoeckl/uifilter-go/uifilter" //nolint:revive
)

func heroResolver() FieldResolver {
	return StaticFieldResolver{
		"name":     CategoryText,
		"power":    CategoryText,
		"alterEgo": CategoryText,
		"state":    CategoryText,
		"age":      CategoryOrdered,
		"birthday": CategoryOrdered,
		"id":       CategoryOpaque,
		"status":   CategoryOpaque,
	}
}

//nolint:funlen
func Test_CompilePredicate_Produces_ExpectedTree(t *testing.T) {
	heroID := uuid.New()

	tests := []struct {
		name             string
		filter           Filter
		globalAttributes []string
		expected         Predicate
	}{
		{
			name:     "empty_filter_matches_everything",
			filter:   BuildFilter().WithPageSize(10).MustFinalize(),
			expected: nil,
		},
		{
			name: "several_values_on_one_field_default_to_or_contains",
			filter: BuildFilter().
				AddFilter("state",
					Criterion("Massachusetts"),
					Criterion("Connecticut"),
					Criterion("Rhode Island")).
				MustFinalize(),
			expected: And(Or(
				CompareFolded("state", OpLike, "%massachusetts%"),
				CompareFolded("state", OpLike, "%connecticut%"),
				CompareFolded("state", OpLike, "%rhode island%"),
			)),
		},
		{
			name: "and_operator_on_one_field",
			filter: BuildFilter().
				AddFilter("name",
					Criterion("James").WithMatchMode(MatchStartsWith).WithOperator(OperatorAnd),
					Criterion("Morrison").WithMatchMode(MatchEndsWith).WithOperator(OperatorAnd)).
				MustFinalize(),
			expected: And(And(
				CompareFolded("name", OpLike, "james%"),
				CompareFolded("name", OpLike, "%morrison"),
			)),
		},
		{
			name: "first_set_operator_decides_the_group",
			filter: BuildFilter().
				AddFilter("name",
					Criterion("a"),
					Criterion("b").WithOperator(OperatorAnd),
					Criterion("c").WithOperator(OperatorOr)).
				MustFinalize(),
			expected: And(And(
				CompareFolded("name", OpLike, "%a%"),
				CompareFolded("name", OpLike, "%b%"),
				CompareFolded("name", OpLike, "%c%"),
			)),
		},
		{
			name: "fields_are_anded_in_insertion_order",
			filter: BuildFilter().
				AddFilter("age", Criterion(21).WithMatchMode(MatchGte)).
				AddFilter("status", Criterion("ACTIVE")).
				MustFinalize(),
			expected: And(
				Or(Compare("age", OpGte, 21)),
				Or(Compare("status", OpEq, "ACTIVE")),
			),
		},
		{
			name: "global_search_fans_out_over_attributes",
			filter: BuildFilter().
				WithGlobalFieldName("search").
				AddFilter("search", Criterion("bolt")).
				MustFinalize(),
			globalAttributes: []string{"name", "power"},
			expected: And(Or(Or(
				CompareFolded("name", OpLike, "%bolt%"),
				CompareFolded("power", OpLike, "%bolt%"),
			))),
		},
		{
			name: "global_search_ignores_criterion_operator_inside_fan_out",
			filter: BuildFilter().
				WithGlobalFieldName("global").
				AddFilter("global",
					Criterion("bolt").WithOperator(OperatorAnd),
					Criterion("thunder").WithOperator(OperatorAnd)).
				MustFinalize(),
			globalAttributes: []string{"name", "power"},
			expected: And(And(
				Or(
					CompareFolded("name", OpLike, "%bolt%"),
					CompareFolded("power", OpLike, "%bolt%"),
				),
				Or(
					CompareFolded("name", OpLike, "%thunder%"),
					CompareFolded("power", OpLike, "%thunder%"),
				),
			)),
		},
		{
			name: "global_field_without_attributes_is_skipped",
			filter: BuildFilter().
				WithGlobalFieldName("global").
				AddFilter("global", Criterion("bolt")).
				AddFilter("age", Criterion(30)).
				MustFinalize(),
			expected: And(Or(Compare("age", OpEq, 30))),
		},
		{
			name: "only_global_field_without_attributes_matches_everything",
			filter: BuildFilter().
				WithGlobalFieldName("global").
				AddFilter("global", Criterion("bolt")).
				MustFinalize(),
			expected: nil,
		},
		{
			name: "text_between_is_lower_cased_and_unordered_bounds_kept",
			filter: BuildFilter().
				AddFilter("name", Criterion([]any{"b", "A"}).WithMatchMode(MatchBetween)).
				MustFinalize(),
			expected: And(Or(CompareFolded("name", OpBetween, "b", "a"))),
		},
		{
			name: "text_in_normalizes_members",
			filter: BuildFilter().
				AddFilter("state", Criterion([]string{"Maine", "VERMONT"}).WithMatchMode(MatchIn)).
				MustFinalize(),
			expected: And(Or(CompareFolded("state", OpIn, "maine", "vermont"))),
		},
		{
			name: "text_equals_and_not_contains",
			filter: BuildFilter().
				AddFilter("alterEgo",
					Criterion("Bruce Wayne").WithMatchMode(MatchEquals),
					Criterion("Joker").WithMatchMode(MatchNotContains)).
				MustFinalize(),
			expected: And(Or(
				CompareFolded("alterEgo", OpEq, "bruce wayne"),
				CompareFolded("alterEgo", OpNotLike, "%joker%"),
			)),
		},
		{
			name: "ordered_between_and_in",
			filter: BuildFilter().
				AddFilter("age",
					Criterion([]any{18, 65}).WithMatchMode(MatchBetween),
					Criterion([]int{70, 80}).WithMatchMode(MatchIn)).
				MustFinalize(),
			expected: And(Or(
				Compare("age", OpBetween, 18, 65),
				Compare("age", OpIn, 70, 80),
			)),
		},
		{
			name: "opaque_uuid_is_a_scalar",
			filter: BuildFilter().
				AddFilter("id", Criterion(heroID).WithMatchMode(MatchNotEquals)).
				MustFinalize(),
			expected: And(Or(Compare("id", OpNe, heroID))),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			predicate, err := CompilePredicate(tc.filter, heroResolver(), tc.globalAttributes...)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, predicate)
		})
	}
}

func Test_CompilePredicate_Fails(t *testing.T) {
	tests := []struct {
		name        string
		filter      Filter
		expectedErr error
	}{
		{
			name:        "unknown_field",
			filter:      BuildFilter().AddFilter("nickname", Criterion("x")).MustFinalize(),
			expectedErr: ErrFieldResolution,
		},
		{
			name: "unknown_global_attribute",
			filter: BuildFilter().
				WithGlobalFieldName("global").
				AddFilter("global", Criterion("x")).
				MustFinalize(),
			expectedErr: ErrFieldResolution,
		},
		{
			name:        "contains_on_ordered_field",
			filter:      BuildFilter().AddFilter("age", Criterion(3).WithMatchMode(MatchContains)).MustFinalize(),
			expectedErr: ErrUnsupportedMatchMode,
		},
		{
			name:        "lt_on_opaque_field",
			filter:      BuildFilter().AddFilter("status", Criterion("A").WithMatchMode(MatchLt)).MustFinalize(),
			expectedErr: ErrUnsupportedMatchMode,
		},
		{
			name:        "between_on_opaque_field",
			filter:      BuildFilter().AddFilter("id", Criterion([]any{1, 2}).WithMatchMode(MatchBetween)).MustFinalize(),
			expectedErr: ErrUnsupportedMatchMode,
		},
		{
			name:        "between_with_one_bound",
			filter:      BuildFilter().AddFilter("age", Criterion([]any{1}).WithMatchMode(MatchBetween)).MustFinalize(),
			expectedErr: ErrValueShape,
		},
		{
			name:        "between_with_scalar",
			filter:      BuildFilter().AddFilter("age", Criterion(1).WithMatchMode(MatchBetween)).MustFinalize(),
			expectedErr: ErrValueShape,
		},
		{
			name:        "in_with_scalar",
			filter:      BuildFilter().AddFilter("state", Criterion("Maine").WithMatchMode(MatchIn)).MustFinalize(),
			expectedErr: ErrValueShape,
		},
		{
			name:        "equals_with_list",
			filter:      BuildFilter().AddFilter("age", Criterion([]any{1, 2})).MustFinalize(),
			expectedErr: ErrValueShape,
		},
		{
			name: "one_bad_field_aborts_everything",
			filter: BuildFilter().
				AddFilter("name", Criterion("ok")).
				AddFilter("age", Criterion("x").WithMatchMode(MatchStartsWith)).
				MustFinalize(),
			expectedErr: ErrUnsupportedMatchMode,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			predicate, err := CompilePredicate(tc.filter, heroResolver(), "nickname")
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, predicate)
		})
	}
}

func Test_CompilePredicate_NilResolver(t *testing.T) {
	_, err := CompilePredicate(BuildFilter().AddFilter("name", Criterion("x")).MustFinalize(), nil)
	assert.ErrorIs(t, err, ErrNilFieldResolver)

	predicate, err := CompilePredicate(BuildFilter().MustFinalize(), nil)
	require.NoError(t, err)
	assert.Nil(t, predicate)
}

func Test_PredicateCompiler_GlobalAttributes(t *testing.T) {
	compiler := NewPredicateCompiler("name", "", "power", "name")
	assert.Equal(t, []string{"name", "power"}, compiler.GlobalAttributes())

	attrs := compiler.GlobalAttributes()
	attrs[0] = "changed"
	assert.Equal(t, []string{"name", "power"}, compiler.GlobalAttributes())

	filter := BuildFilter().
		WithGlobalFieldName("global").
		AddFilter("global", Criterion("bolt")).
		MustFinalize()

	predicate, err := compiler.Compile(filter, heroResolver())
	require.NoError(t, err)
	assert.Equal(t, `(((lower(name) LIKE "%bolt%" OR lower(power) LIKE "%bolt%")))`, predicate.String())

	compiler.SetGlobalAttributes()
	predicate, err = compiler.Compile(filter, heroResolver())
	require.NoError(t, err)
	assert.Nil(t, predicate)
}

func Test_PredicateCompiler_ConcurrentCompileAndReconfigure(t *testing.T) {
	compiler := NewPredicateCompiler("name", "power")
	filter := BuildFilter().
		WithGlobalFieldName("global").
		AddFilter("global", Criterion("bolt")).
		MustFinalize()

	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			predicate, err := compiler.Compile(filter, heroResolver())
			assert.NoError(t, err)

			// Either snapshot is valid, but never a mix of both.
			outer := predicate.(*Conjunction).Children[0].(*Disjunction).Children[0].(*Disjunction)
			assert.Contains(t, []int{1, 2}, len(outer.Children))
		}()

		go func() {
			defer wg.Done()

			if i%2 == 0 {
				compiler.SetGlobalAttributes("alterEgo")
			} else {
				compiler.SetGlobalAttributes("name", "power")
			}
		}()
	}

	wg.Wait()
}

func Test_ChainFieldResolvers_FirstMatchWins(t *testing.T) {
	heroes := StaticFieldResolver{"name": CategoryText, "id": CategoryOpaque}
	teams := StaticFieldResolver{"name": CategoryOpaque, "founded": CategoryOrdered}

	resolver := ChainFieldResolvers(nil, heroes, teams)

	category, ok := resolver.ResolveField("name")
	assert.True(t, ok)
	assert.Equal(t, CategoryText, category)

	category, ok = resolver.ResolveField("founded")
	assert.True(t, ok)
	assert.Equal(t, CategoryOrdered, category)

	_, ok = resolver.ResolveField("unknown")
	assert.False(t, ok)
}

func Test_Predicate_StringAndWalk(t *testing.T) {
	predicate := And(
		Or(CompareFolded("name", OpLike, "%bolt%"), Compare("age", OpBetween, 18, 65)),
		Compare("status", OpIn, "A", "B"),
	)

	assert.Equal(t,
		`((lower(name) LIKE "%bolt%" OR age BETWEEN 18 AND 65) AND status IN ("A", "B"))`,
		predicate.String())

	var fields []string
	Walk(predicate, func(p Predicate) bool {
		if c, ok := p.(*Comparison); ok {
			fields = append(fields, c.Field)
		}

		return true
	})
	assert.Equal(t, []string{"name", "age", "status"}, fields)

	visited := 0
	Walk(predicate, func(Predicate) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)

	Walk(nil, func(Predicate) bool {
		t.Fatal("nil predicate must not be visited")
		return true
	})
}

func Test_CompilePlan_ResolvesSortFields(t *testing.T) {
	compiler := NewPredicateCompiler()

	tests := []struct {
		name        string
		filter      Filter
		resolver    FieldResolver
		expectedErr error
	}{
		{
			name:        "unknown_sort_field",
			filter:      BuildFilter().AddSortField("age", -1).AddSortField("doesNotExist", 1).MustFinalize(),
			resolver:    heroResolver(),
			expectedErr: ErrFieldResolution,
		},
		{
			name:        "sort_without_resolver",
			filter:      BuildFilter().AddSortField("age", -1).MustFinalize(),
			expectedErr: ErrNilFieldResolver,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := CompilePlan(compiler, tc.filter, tc.resolver, "")
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Equal(t, QueryPlan{}, plan)
		})
	}

	t.Run("known_sort_fields", func(t *testing.T) {
		filter := BuildFilter().AddSortField("age", -1).AddSortField("name", 1).MustFinalize()

		plan, err := CompilePlan(compiler, filter, heroResolver(), "id")
		require.NoError(t, err)
		assert.Equal(t, "age DESC, name ASC", plan.Sort.String())
	})
}
