package uifilter

import (
	"fmt"
	"strings"
)

// Predicate is a backend-neutral boolean expression over named fields.
//
// The tree only consists of *Conjunction, *Disjunction and *Comparison nodes.
// Executors lower it into their native query form; a nil Predicate matches everything.
type Predicate interface {
	fmt.Stringer
	isPredicate()
}

// ComparisonOperator is the operator of a Comparison leaf.
type ComparisonOperator string

const (
	OpEq      ComparisonOperator = "eq"
	OpNe      ComparisonOperator = "ne"
	OpLike    ComparisonOperator = "like"
	OpNotLike ComparisonOperator = "notLike"
	OpLt      ComparisonOperator = "lt"
	OpLte     ComparisonOperator = "lte"
	OpGt      ComparisonOperator = "gt"
	OpGte     ComparisonOperator = "gte"
	OpBetween ComparisonOperator = "between"
	OpIn      ComparisonOperator = "in"
)

var comparisonSymbols = map[ComparisonOperator]string{
	OpEq:      "=",
	OpNe:      "<>",
	OpLike:    "LIKE",
	OpNotLike: "NOT LIKE",
	OpLt:      "<",
	OpLte:     "<=",
	OpGt:      ">",
	OpGte:     ">=",
	OpBetween: "BETWEEN",
	OpIn:      "IN",
}

// LikeWildcard matches any sequence of characters in OpLike and OpNotLike patterns.
const LikeWildcard = "%"

/***** Conjunction *****/

// Conjunction is satisfied when all children are satisfied.
type Conjunction struct {
	Children []Predicate
}

// And creates a Conjunction of the given predicates.
func And(children ...Predicate) *Conjunction {
	return &Conjunction{Children: children}
}

func (*Conjunction) isPredicate() {}

func (c *Conjunction) String() string {
	return joinChildren(c.Children, " AND ")
}

/***** Disjunction *****/

// Disjunction is satisfied when at least one child is satisfied.
type Disjunction struct {
	Children []Predicate
}

// Or creates a Disjunction of the given predicates.
func Or(children ...Predicate) *Disjunction {
	return &Disjunction{Children: children}
}

func (*Disjunction) isPredicate() {}

func (d *Disjunction) String() string {
	return joinChildren(d.Children, " OR ")
}

/***** Comparison *****/

// Comparison compares a field against its operands.
//
// OpBetween carries two operands (inclusive bounds), OpIn carries the list members,
// all other operators carry exactly one operand.
// When CaseInsensitive is set, the field value must be lower-cased before comparing;
// the operands are already lower-cased.
type Comparison struct {
	Field           string
	Operator        ComparisonOperator
	Operands        []any
	CaseInsensitive bool
}

// Compare creates a Comparison leaf.
func Compare(field string, operator ComparisonOperator, operands ...any) *Comparison {
	return &Comparison{Field: field, Operator: operator, Operands: operands}
}

// CompareFolded creates a case-insensitive Comparison leaf.
func CompareFolded(field string, operator ComparisonOperator, operands ...any) *Comparison {
	return &Comparison{Field: field, Operator: operator, Operands: operands, CaseInsensitive: true}
}

func (*Comparison) isPredicate() {}

// Operand returns the single operand of a scalar comparison.
func (c *Comparison) Operand() any {
	if len(c.Operands) == 0 {
		return nil
	}

	return c.Operands[0]
}

func (c *Comparison) String() string {
	field := c.Field
	if c.CaseInsensitive {
		field = "lower(" + field + ")"
	}

	symbol := comparisonSymbols[c.Operator]

	switch c.Operator {
	case OpBetween:
		if len(c.Operands) == 2 {
			return fmt.Sprintf("%s %s %s AND %s", field, symbol, formatOperand(c.Operands[0]), formatOperand(c.Operands[1]))
		}

	case OpIn:
		members := make([]string, 0, len(c.Operands))
		for _, o := range c.Operands {
			members = append(members, formatOperand(o))
		}

		return fmt.Sprintf("%s %s (%s)", field, symbol, strings.Join(members, ", "))

	default:
	}

	return fmt.Sprintf("%s %s %s", field, symbol, formatOperand(c.Operand()))
}

func formatOperand(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprintf("%v", v)
}

func joinChildren(children []Predicate, separator string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		parts = append(parts, child.String())
	}

	return "(" + strings.Join(parts, separator) + ")"
}

// Walk visits p and all of its descendants depth-first, parents before children.
// Returning false from fn skips the children of the visited node.
func Walk(p Predicate, fn func(Predicate) bool) {
	if p == nil || !fn(p) {
		return
	}

	switch node := p.(type) {
	case *Conjunction:
		for _, child := range node.Children {
			Walk(child, fn)
		}

	case *Disjunction:
		for _, child := range node.Children {
			Walk(child, fn)
		}

	default:
	}
}
