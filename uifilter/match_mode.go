package uifilter

import (
	"fmt"
)

// MatchMode is the comparison requested by a single FilterCriterion.
// The zero value means "not set": the compiler then picks contains for text fields and equals otherwise.
type MatchMode string

const (
	MatchEquals      MatchMode = "equals"
	MatchNotEquals   MatchMode = "notEquals"
	MatchContains    MatchMode = "contains"
	MatchNotContains MatchMode = "notContains"
	MatchStartsWith  MatchMode = "startsWith"
	MatchEndsWith    MatchMode = "endsWith"
	MatchLt          MatchMode = "lt"
	MatchLte         MatchMode = "lte"
	MatchGt          MatchMode = "gt"
	MatchGte         MatchMode = "gte"
	MatchBetween     MatchMode = "between"
	MatchIn          MatchMode = "in"
)

// matchModeAliases maps the date and generic names some table widgets send onto the closed set of modes.
var matchModeAliases = map[string]MatchMode{
	"after":      MatchGt,
	"dateAfter":  MatchGt,
	"before":     MatchLt,
	"dateBefore": MatchLt,
	"is":         MatchEquals,
	"dateIs":     MatchEquals,
	"isNot":      MatchNotEquals,
	"dateIsNot":  MatchNotEquals,
}

// ParseMatchMode converts a wire name into a MatchMode.
//
// The empty string yields the unset MatchMode. Widget aliases (after, dateBefore, isNot, ...) are normalized.
func ParseMatchMode(name string) (MatchMode, error) {
	if name == "" {
		return "", nil
	}

	mode := MatchMode(name)
	if mode.IsValid() {
		return mode, nil
	}

	if alias, ok := matchModeAliases[name]; ok {
		return alias, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMatchMode, name)
}

// IsValid reports whether m is one of the defined match modes.
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchEquals, MatchNotEquals, MatchContains, MatchNotContains, MatchStartsWith, MatchEndsWith,
		MatchLt, MatchLte, MatchGt, MatchGte, MatchBetween, MatchIn:
		return true
	default:
		return false
	}
}

// IsSet reports whether a match mode was supplied.
func (m MatchMode) IsSet() bool {
	return m != ""
}

func (m MatchMode) String() string {
	return string(m)
}

// Operator is the boolean operator used to combine several criteria of one field.
// The zero value means the criterion casts no vote.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
)

// ParseOperator converts a wire name into an Operator. The empty string yields the unset Operator.
func ParseOperator(name string) (Operator, error) {
	switch Operator(name) {
	case "", OperatorAnd, OperatorOr:
		return Operator(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, name)
	}
}

// IsSet reports whether an operator was supplied.
func (o Operator) IsSet() bool {
	return o != ""
}

func (o Operator) String() string {
	return string(o)
}
