package memoryengine_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/uifilter-go/testutil/helper"
	. "github.com/AntonStoeckl/uifilter-go/uifilter" //nolint:revive
	"github.com/AntonStoeckl/uifilter-go/uifilter/memoryengine"
)

func givenHeroService(t *testing.T, options ...memoryengine.Option) (*Service, Records) {
	heroes := helper.GivenHeroes(t)

	executor, err := memoryengine.NewExecutor(heroes, options...)
	require.NoError(t, err)

	service, err := NewService(
		executor,
		helper.HeroResolver(),
		WithGlobalAttributes(helper.HeroGlobalAttributes()...),
		WithDefaultSortField(helper.FieldName),
	)
	require.NoError(t, err)

	return service, heroes
}

//nolint:funlen
func Test_Service_With_MemoryEngine_FindByFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{
			name:     "empty_filter_returns_all_records_sorted_by_default_field",
			filter:   BuildFilter().MustFinalize(),
			expected: []string{"Atlas", "Aurora", "Blaze", "Bolt", "Frost", "Night Owl", "Quicksilver", "Thunderbolt"},
		},
		{
			name: "several_states_match_any",
			filter: BuildFilter().
				AddFilter(helper.FieldState,
					Criterion("Massachusetts"),
					Criterion("Connecticut"),
					Criterion("Rhode Island")).
				MustFinalize(),
			expected: []string{"Aurora", "Bolt", "Night Owl", "Quicksilver", "Thunderbolt"},
		},
		{
			name: "starts_with_and_ends_with_on_one_field",
			filter: BuildFilter().
				AddFilter(helper.FieldAlterEgo,
					Criterion("James").WithMatchMode(MatchStartsWith).WithOperator(OperatorAnd),
					Criterion("Morrison").WithMatchMode(MatchEndsWith)).
				MustFinalize(),
			expected: []string{"Thunderbolt"},
		},
		{
			name: "global_search_is_case_insensitive_across_attributes",
			filter: BuildFilter().
				WithGlobalFieldName("global").
				AddFilter("global", Criterion("JAMES")).
				MustFinalize(),
			expected: []string{"Quicksilver", "Thunderbolt"},
		},
		{
			name: "text_equals_ignores_case",
			filter: BuildFilter().
				AddFilter(helper.FieldName, Criterion("BOLT").WithMatchMode(MatchEquals)).
				MustFinalize(),
			expected: []string{"Bolt"},
		},
		{
			name: "not_contains_excludes_matches",
			filter: BuildFilter().
				AddFilter(helper.FieldName, Criterion("o").WithMatchMode(MatchNotContains)).
				MustFinalize(),
			expected: []string{"Atlas", "Blaze", "Quicksilver"},
		},
		{
			name: "ordered_between_is_inclusive",
			filter: BuildFilter().
				AddFilter(helper.FieldAge, Criterion([]any{30, 41}).WithMatchMode(MatchBetween)).
				MustFinalize(),
			expected: []string{"Blaze", "Frost", "Thunderbolt"},
		},
		{
			name: "date_given_as_string_compares_with_time_values",
			filter: BuildFilter().
				AddFilter(helper.FieldBirthday, Criterion("1970-01-01").WithMatchMode(MatchLt)).
				MustFinalize(),
			expected: []string{"Atlas"},
		},
		{
			name: "opaque_in_list",
			filter: BuildFilter().
				AddFilter(helper.FieldStatus, Criterion([]any{"RETIRED", "MISSING"}).WithMatchMode(MatchIn)).
				MustFinalize(),
			expected: []string{"Atlas", "Blaze", "Night Owl"},
		},
		{
			name: "fields_are_combined_with_and",
			filter: BuildFilter().
				AddFilter(helper.FieldStatus, Criterion("ACTIVE")).
				AddFilter(helper.FieldAge, Criterion(30).WithMatchMode(MatchLt)).
				MustFinalize(),
			expected: []string{"Aurora", "Bolt", "Quicksilver"},
		},
		{
			name: "explicit_descending_sort",
			filter: BuildFilter().
				AddFilter(helper.FieldState, Criterion("Connecticut").WithMatchMode(MatchEquals)).
				AddSortField(helper.FieldAge, -1).
				MustFinalize(),
			expected: []string{"Thunderbolt", "Aurora"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := givenHeroService(t)

			records, err := service.FindByFilter(context.Background(), tc.filter)

			require.NoError(t, err)
			assert.Equal(t, tc.expected, helper.Names(records))
		})
	}
}

func Test_Service_With_MemoryEngine_FindPage(t *testing.T) {
	service, _ := givenHeroService(t)

	filter := BuildFilter().
		WithOffset(3).
		WithPageSize(3).
		AddSortField(helper.FieldAge, 0).
		MustFinalize()

	result, err := service.FindPage(context.Background(), filter)

	require.NoError(t, err)
	assert.Equal(t, []string{"Blaze", "Frost", "Bolt"}, helper.Names(result.Records))
	assert.Equal(t, int64(8), result.TotalRecords)
}

func Test_Service_With_MemoryEngine_PageBeyondTheEnd(t *testing.T) {
	service, _ := givenHeroService(t)

	result, err := service.FindPage(context.Background(), BuildFilter().WithOffset(20).WithPageSize(10).MustFinalize())

	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, int64(8), result.TotalRecords)
}

func Test_Service_With_MemoryEngine_MatchesOpaqueUUID(t *testing.T) {
	service, heroes := givenHeroService(t)
	wanted := heroes[4]

	records, err := service.FindByFilter(
		context.Background(),
		BuildFilter().AddFilter(helper.FieldID, Criterion(wanted[helper.FieldID])).MustFinalize(),
	)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, wanted[helper.FieldID], records[0][helper.FieldID])
	assert.Equal(t, "Blaze", records[0][helper.FieldName])
}

func Test_Executor_Count(t *testing.T) {
	executor, err := memoryengine.NewExecutor(helper.GivenHeroes(t))
	require.NoError(t, err)

	all, err := executor.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(8), all)

	massachusetts, err := executor.Count(context.Background(), CompareFolded(helper.FieldState, OpEq, "massachusetts"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), massachusetts)
}

func Test_Executor_RecordsAreIsolated(t *testing.T) {
	heroes := helper.GivenHeroes(t)

	executor, err := memoryengine.NewExecutor(heroes)
	require.NoError(t, err)

	heroes[0][helper.FieldName] = "Changed"

	found, err := executor.Find(context.Background(), QueryPlan{Predicate: CompareFolded(helper.FieldName, OpEq, "bolt")})
	require.NoError(t, err)
	require.Len(t, found, 1)

	found[0][helper.FieldName] = "Changed again"

	again, err := executor.Find(context.Background(), QueryPlan{Predicate: CompareFolded(helper.FieldName, OpEq, "bolt")})
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "Bolt", again[0][helper.FieldName])
}

func Test_Executor_ReplaceAndInsert(t *testing.T) {
	executor, err := memoryengine.NewExecutor(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, executor.Len())

	heroes := helper.GivenHeroes(t)
	executor.Replace(heroes[:2])
	assert.Equal(t, 2, executor.Len())

	executor.Insert(heroes[2], heroes[3])
	assert.Equal(t, 4, executor.Len())

	count, err := executor.Count(context.Background(), Compare(helper.FieldAge, OpGt, 40))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func Test_Executor_StopsOnCanceledContext(t *testing.T) {
	executor, err := memoryengine.NewExecutor(helper.GivenHeroes(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = executor.Find(ctx, QueryPlan{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = executor.Count(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_Executor_FailsOnMalformedPredicate(t *testing.T) {
	executor, err := memoryengine.NewExecutor(helper.GivenHeroes(t))
	require.NoError(t, err)

	_, err = executor.Find(context.Background(), QueryPlan{Predicate: Compare(helper.FieldAge, OpBetween, 30)})
	assert.ErrorIs(t, err, memoryengine.ErrUnsupportedPredicate)

	_, err = executor.Count(context.Background(), Compare(helper.FieldAge, ComparisonOperator("regex"), ".*"))
	assert.ErrorIs(t, err, memoryengine.ErrUnsupportedPredicate)
}

func Test_Executor_LogsEvaluatedPlans(t *testing.T) {
	logHandler := helper.NewTestLogHandler(false)
	contextualLogger := helper.NewContextualLoggerSpy(true)

	executor, err := memoryengine.NewExecutor(
		helper.GivenHeroes(t),
		memoryengine.WithLogger(slog.New(logHandler)),
		memoryengine.WithContextualLogger(contextualLogger),
	)
	require.NoError(t, err)

	_, err = executor.Find(context.Background(), QueryPlan{
		Predicate: Compare(helper.FieldAge, OpGt, 40),
		Page:      &PageWindow{Index: 0, Size: 2},
	})
	require.NoError(t, err)

	assert.True(t, logHandler.HasDebugLogWithMessage("evaluated plan for: find").
		WithStringAttr("predicate", "age > 40").
		WithAttr("scanned_records").
		WithAttr("matched_records").
		WithAttr("returned_records").
		Assert())
	assert.True(t, contextualLogger.HasLog("debug", "evaluated plan for: find"))
}
