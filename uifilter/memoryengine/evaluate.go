package memoryengine

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// dateLayouts are tried, in order, when a string operand is compared with a time.Time value.
var dateLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

// Matches reports whether record satisfies predicate. A nil predicate matches every record.
func Matches(predicate uifilter.Predicate, record uifilter.Record) (bool, error) {
	switch node := predicate.(type) {
	case nil:
		return true, nil

	case *uifilter.Conjunction:
		for _, child := range node.Children {
			ok, err := Matches(child, record)
			if err != nil || !ok {
				return false, err
			}
		}

		return true, nil

	case *uifilter.Disjunction:
		for _, child := range node.Children {
			ok, err := Matches(child, record)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil

	case *uifilter.Comparison:
		return matchesComparison(node, record)

	default:
		return false, fmt.Errorf("%w: unknown node %T", ErrUnsupportedPredicate, predicate)
	}
}

func matchesComparison(c *uifilter.Comparison, record uifilter.Record) (bool, error) {
	value, exists := record[c.Field]
	if !exists || value == nil {
		return false, nil
	}

	if c.CaseInsensitive {
		value = strings.ToLower(textOf(value))
	}

	switch c.Operator {
	case uifilter.OpEq:
		return equalValues(value, c.Operand()), nil
	case uifilter.OpNe:
		return c.Operand() != nil && !equalValues(value, c.Operand()), nil
	case uifilter.OpLike:
		return matchLike(textOf(value), textOf(c.Operand())), nil
	case uifilter.OpNotLike:
		return !matchLike(textOf(value), textOf(c.Operand())), nil
	case uifilter.OpLt:
		return holds(value, c.Operand(), func(r int) bool { return r < 0 }), nil
	case uifilter.OpLte:
		return holds(value, c.Operand(), func(r int) bool { return r <= 0 }), nil
	case uifilter.OpGt:
		return holds(value, c.Operand(), func(r int) bool { return r > 0 }), nil
	case uifilter.OpGte:
		return holds(value, c.Operand(), func(r int) bool { return r >= 0 }), nil

	case uifilter.OpBetween:
		if len(c.Operands) != 2 {
			return false, fmt.Errorf("%w: %s on %q needs two operands", ErrUnsupportedPredicate, c.Operator, c.Field)
		}

		return holds(value, c.Operands[0], func(r int) bool { return r >= 0 }) &&
			holds(value, c.Operands[1], func(r int) bool { return r <= 0 }), nil

	case uifilter.OpIn:
		for _, member := range c.Operands {
			if equalValues(value, member) {
				return true, nil
			}
		}

		return false, nil

	default:
		return false, fmt.Errorf("%w: operator %q", ErrUnsupportedPredicate, c.Operator)
	}
}

// holds compares value with operand and applies check to the result. Incomparable values never hold.
func holds(value, operand any, check func(int) bool) bool {
	result, ok := compareValues(value, operand)
	return ok && check(result)
}

// compareValues returns -1, 0 or 1 and false if the values are not comparable.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return compareOrdered(fa, fb), true
		}

		return 0, false
	}

	if isTime(a) || isTime(b) {
		ta, okA := toTime(a)
		tb, okB := toTime(b)

		if !okA || !okB {
			return 0, false
		}

		return ta.Compare(tb), true
	}

	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb), true
		}
	}

	return 0, false
}

func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return false
	}

	if result, ok := compareValues(a, b); ok {
		return result == 0
	}

	if ua, ok := toUUID(a); ok {
		if ub, ok := toUUID(b); ok {
			return ua == ub
		}
	}

	return reflect.DeepEqual(a, b)
}

func compareOrdered(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func isTime(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

// toTime accepts time.Time values and strings in one of the dateLayouts.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true

	case string:
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}

	return time.Time{}, false
}

func toUUID(v any) (uuid.UUID, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, true
	case string:
		parsed, err := uuid.Parse(id)
		return parsed, err == nil
	default:
		return uuid.Nil, false
	}
}

func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// matchLike matches s against a LIKE pattern: % matches any sequence of characters, _ exactly one.
func matchLike(s, pattern string) bool {
	text, pat := []rune(s), []rune(pattern)
	ti, pi := 0, 0
	starPi, starTi := -1, 0

	for ti < len(text) {
		switch {
		case pi < len(pat) && (pat[pi] == '_' || pat[pi] == text[ti]):
			ti++
			pi++

		case pi < len(pat) && pat[pi] == '%':
			starPi, starTi = pi, ti
			pi++

		case starPi >= 0:
			starTi++
			ti = starTi
			pi = starPi + 1

		default:
			return false
		}
	}

	for pi < len(pat) && pat[pi] == '%' {
		pi++
	}

	return pi == len(pat)
}
