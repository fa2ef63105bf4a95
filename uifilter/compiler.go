package uifilter

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync/atomic"
)

// PredicateCompiler turns the field criteria of a Filter into a Predicate.
//
// It holds the set of attributes a global search fans out to. The set is an immutable snapshot
// which SetGlobalAttributes replaces atomically, so one compiler can be shared by concurrent
// requests; each compilation works on the snapshot that was current when it started.
type PredicateCompiler struct {
	globalAttributes atomic.Pointer[[]string]
}

// NewPredicateCompiler creates a PredicateCompiler with the given global search attributes.
func NewPredicateCompiler(globalAttributes ...string) *PredicateCompiler {
	pc := &PredicateCompiler{}
	pc.SetGlobalAttributes(globalAttributes...)

	return pc
}

// SetGlobalAttributes replaces the global search attributes.
//
// Empty names are dropped and duplicates are removed, keeping the first occurrence.
// Calling it without arguments disables global search: the global field then contributes nothing.
func (pc *PredicateCompiler) SetGlobalAttributes(attributes ...string) {
	sanitized := make([]string, 0, len(attributes))
	for _, attr := range attributes {
		if attr == "" || slices.Contains(sanitized, attr) {
			continue
		}

		sanitized = append(sanitized, attr)
	}

	pc.globalAttributes.Store(&sanitized)
}

// GlobalAttributes returns a copy of the current global search attributes.
func (pc *PredicateCompiler) GlobalAttributes() []string {
	if attrs := pc.globalAttributes.Load(); attrs != nil {
		return slices.Clone(*attrs)
	}

	return nil
}

// Compile builds the Predicate for filter. It returns nil if the filter does not restrict anything.
func (pc *PredicateCompiler) Compile(filter Filter, resolver FieldResolver) (Predicate, error) {
	var globalAttributes []string
	if attrs := pc.globalAttributes.Load(); attrs != nil {
		globalAttributes = *attrs
	}

	return CompilePredicate(filter, resolver, globalAttributes...)
}

// CompilePredicate builds the Predicate for filter against resolver, expanding the global search
// field (if any) into the given attributes.
//
// The result is the conjunction of one predicate per filtered field, or nil when no field contributes.
// Any resolution, match mode or value shape error aborts the whole compilation.
func CompilePredicate(filter Filter, resolver FieldResolver, globalAttributes ...string) (Predicate, error) {
	if len(filter.FieldCriteria()) == 0 {
		return nil, nil
	}

	if resolver == nil {
		return nil, ErrNilFieldResolver
	}

	outer := make([]Predicate, 0, len(filter.FieldCriteria()))

	for _, fc := range filter.FieldCriteria() {
		fieldPredicate, err := compileField(filter, fc, resolver, globalAttributes)
		if err != nil {
			return nil, err
		}

		if fieldPredicate != nil {
			outer = append(outer, fieldPredicate)
		}
	}

	if len(outer) == 0 {
		return nil, nil
	}

	return And(outer...), nil
}

func compileField(
	filter Filter,
	fc FieldCriteria,
	resolver FieldResolver,
	globalAttributes []string,
) (Predicate, error) {

	isGlobal := filter.IsGlobalField(fc.Field())
	if isGlobal && len(globalAttributes) == 0 {
		return nil, nil
	}

	inner := make([]Predicate, 0, len(fc.Criteria()))

	for _, criterion := range fc.Criteria() {
		var p Predicate
		var err error

		if isGlobal {
			p, err = buildGlobal(globalAttributes, criterion, resolver)
		} else {
			p, err = buildSimple(fc.Field(), criterion, resolver)
		}

		if err != nil {
			return nil, err
		}

		inner = append(inner, p)
	}

	if len(inner) == 0 {
		return nil, nil
	}

	if groupOperator(fc.Criteria()) == OperatorAnd {
		return And(inner...), nil
	}

	return Or(inner...), nil
}

// groupOperator returns the first operator set on any criterion, defaulting to or.
func groupOperator(criteria []FilterCriterion) Operator {
	for _, c := range criteria {
		if c.Operator().IsSet() {
			return c.Operator()
		}
	}

	return OperatorOr
}

// buildGlobal ORs the criterion over all global attributes, whatever operator the criterion carries.
func buildGlobal(attributes []string, criterion FilterCriterion, resolver FieldResolver) (Predicate, error) {
	globals := make([]Predicate, 0, len(attributes))

	for _, attr := range attributes {
		p, err := buildSimple(attr, criterion, resolver)
		if err != nil {
			return nil, err
		}

		globals = append(globals, p)
	}

	return Or(globals...), nil
}

func buildSimple(field string, criterion FilterCriterion, resolver FieldResolver) (Predicate, error) {
	category, ok := resolver.ResolveField(field)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrFieldResolution, field)
	}

	mode := criterion.MatchMode()
	if !mode.IsSet() {
		mode = defaultMatchMode(category)
	}

	switch category {
	case CategoryText:
		return buildTextComparison(field, mode, criterion.Value())
	case CategoryOrdered:
		return buildOrderedComparison(field, mode, criterion.Value())
	case CategoryOpaque:
		return buildOpaqueComparison(field, mode, criterion.Value())
	default:
		return nil, fmt.Errorf("%w: %q resolved to %s", ErrFieldResolution, field, category)
	}
}

func defaultMatchMode(category FieldValueCategory) MatchMode {
	if category == CategoryText {
		return MatchContains
	}

	return MatchEquals
}

func buildTextComparison(field string, mode MatchMode, value any) (Predicate, error) {
	switch mode {
	case MatchBetween:
		pair, err := pairValue(field, mode, value)
		if err != nil {
			return nil, err
		}

		low, lowErr := textValue(field, mode, pair[0])
		high, highErr := textValue(field, mode, pair[1])
		if lowErr != nil || highErr != nil {
			return nil, shapeError(field, mode, "two text bounds")
		}

		return CompareFolded(field, OpBetween, low, high), nil

	case MatchIn:
		members, err := listValue(field, mode, value)
		if err != nil {
			return nil, err
		}

		folded := make([]any, 0, len(members))
		for _, m := range members {
			s, textErr := textValue(field, mode, m)
			if textErr != nil {
				return nil, textErr
			}

			folded = append(folded, s)
		}

		return CompareFolded(field, OpIn, folded...), nil

	default:
	}

	s, err := textValue(field, mode, value)
	if err != nil {
		return nil, err
	}

	switch mode {
	case MatchEquals:
		return CompareFolded(field, OpEq, s), nil
	case MatchNotEquals:
		return CompareFolded(field, OpNe, s), nil
	case MatchContains:
		return CompareFolded(field, OpLike, LikeWildcard+s+LikeWildcard), nil
	case MatchNotContains:
		return CompareFolded(field, OpNotLike, LikeWildcard+s+LikeWildcard), nil
	case MatchStartsWith:
		return CompareFolded(field, OpLike, s+LikeWildcard), nil
	case MatchEndsWith:
		return CompareFolded(field, OpLike, LikeWildcard+s), nil
	case MatchLt:
		return CompareFolded(field, OpLt, s), nil
	case MatchLte:
		return CompareFolded(field, OpLte, s), nil
	case MatchGt:
		return CompareFolded(field, OpGt, s), nil
	case MatchGte:
		return CompareFolded(field, OpGte, s), nil
	default:
		return nil, unsupportedError(field, mode, CategoryText)
	}
}

func buildOrderedComparison(field string, mode MatchMode, value any) (Predicate, error) {
	switch mode {
	case MatchBetween:
		pair, err := pairValue(field, mode, value)
		if err != nil {
			return nil, err
		}

		return Compare(field, OpBetween, pair[0], pair[1]), nil

	case MatchIn:
		members, err := listValue(field, mode, value)
		if err != nil {
			return nil, err
		}

		return Compare(field, OpIn, members...), nil

	case MatchEquals, MatchNotEquals, MatchLt, MatchLte, MatchGt, MatchGte:
		if !isScalar(value) {
			return nil, shapeError(field, mode, "a single value")
		}

		return Compare(field, scalarOperators[mode], value), nil

	default:
		return nil, unsupportedError(field, mode, CategoryOrdered)
	}
}

func buildOpaqueComparison(field string, mode MatchMode, value any) (Predicate, error) {
	switch mode {
	case MatchIn:
		members, err := listValue(field, mode, value)
		if err != nil {
			return nil, err
		}

		return Compare(field, OpIn, members...), nil

	case MatchEquals, MatchNotEquals:
		if !isScalar(value) {
			return nil, shapeError(field, mode, "a single value")
		}

		return Compare(field, scalarOperators[mode], value), nil

	default:
		return nil, unsupportedError(field, mode, CategoryOpaque)
	}
}

var scalarOperators = map[MatchMode]ComparisonOperator{
	MatchEquals:    OpEq,
	MatchNotEquals: OpNe,
	MatchLt:        OpLt,
	MatchLte:       OpLte,
	MatchGt:        OpGt,
	MatchGte:       OpGte,
}

/***** value shapes *****/

func pairValue(field string, mode MatchMode, value any) ([]any, error) {
	list, ok := asList(value)
	if !ok || len(list) != 2 || list[0] == nil || list[1] == nil {
		return nil, shapeError(field, mode, "exactly two bounds")
	}

	return list, nil
}

func listValue(field string, mode MatchMode, value any) ([]any, error) {
	list, ok := asList(value)
	if !ok {
		return nil, shapeError(field, mode, "a list of values")
	}

	return list, nil
}

// textValue lower-cases a scalar text operand. Numbers and booleans are accepted in their printed form.
func textValue(field string, mode MatchMode, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.ToLower(v), nil
	case fmt.Stringer:
		return strings.ToLower(v.String()), nil
	default:
	}

	if !isScalar(value) {
		return "", shapeError(field, mode, "a single text value")
	}

	return strings.ToLower(fmt.Sprint(value)), nil
}

func isScalar(value any) bool {
	if value == nil {
		return false
	}

	if _, isList := asList(value); isList {
		return false
	}

	return reflect.ValueOf(value).Kind() != reflect.Map
}

// asList converts slices and arrays (except byte slices) into []any.
func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil, []byte, string:
		return nil, false
	case []any:
		return v, true
	case []string:
		list := make([]any, len(v))
		for i := range v {
			list[i] = v[i]
		}

		return list, true
	default:
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false // fixed-size byte arrays (e.g. UUIDs) are scalars
	}

	list := make([]any, rv.Len())
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}

	return list, true
}

func shapeError(field string, mode MatchMode, expected string) error {
	return fmt.Errorf("%w: %s on %q requires %s", ErrValueShape, mode, field, expected)
}

func unsupportedError(field string, mode MatchMode, category FieldValueCategory) error {
	return fmt.Errorf("%w: %s on %s field %q", ErrUnsupportedMatchMode, mode, category, field)
}
