package postgresengine

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

const (
	sqlFuncLower = "LOWER"
	sqlFalse     = "FALSE"
)

// column is what a comparison can be lowered onto: a plain identifier or LOWER(identifier).
type column interface {
	exp.Comparable
	exp.Inable
	exp.Likeable
	exp.Rangeable
}

// ToSelectSQL lowers plan into the SELECT statement Find would run.
func (e *Executor) ToSelectSQL(plan uifilter.QueryPlan) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).From(e.table())

	if len(e.selectedFields) > 0 {
		selectColumns := make([]any, 0, len(e.selectedFields))
		for _, field := range e.selectedFields {
			selectColumns = append(selectColumns, goqu.I(e.columnFor(field)))
		}

		selectStmt = selectStmt.Select(selectColumns...)
	}

	selectStmt, whereErr := e.addWhereClause(plan.Predicate, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	if !plan.Sort.IsUnsorted() {
		orders := make([]exp.OrderedExpression, 0, len(plan.Sort.Orders))
		for _, o := range plan.Sort.Orders {
			if o.Ascending {
				orders = append(orders, goqu.I(e.columnFor(o.Field)).Asc())
			} else {
				orders = append(orders, goqu.I(e.columnFor(o.Field)).Desc())
			}
		}

		selectStmt = selectStmt.Order(orders...)
	}

	if plan.Page != nil {
		selectStmt = selectStmt.
			Limit(uint(plan.Page.Size)).
			Offset(uint(plan.Page.Offset()))
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// ToCountSQL lowers predicate into the SELECT COUNT(*) statement Count would run.
func (e *Executor) ToCountSQL(predicate uifilter.Predicate) (sqlQueryString, error) {
	countStmt := goqu.Dialect(dialectPostgres).
		From(e.table()).
		Select(goqu.COUNT(goqu.Star()))

	countStmt, whereErr := e.addWhereClause(predicate, countStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := countStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (e *Executor) table() exp.IdentifierExpression {
	if e.schema != "" {
		return goqu.S(e.schema).Table(e.tableName)
	}

	return goqu.T(e.tableName)
}

func (e *Executor) addWhereClause(predicate uifilter.Predicate, stmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if predicate == nil {
		return stmt, nil
	}

	where, lowerErr := e.lowerPredicate(predicate)
	if lowerErr != nil {
		return nil, lowerErr
	}

	return stmt.Where(where), nil
}

func (e *Executor) lowerPredicate(predicate uifilter.Predicate) (exp.Expression, error) {
	switch node := predicate.(type) {
	case *uifilter.Conjunction:
		children, err := e.lowerChildren(node.Children)
		if err != nil {
			return nil, err
		}

		return goqu.And(children...), nil

	case *uifilter.Disjunction:
		children, err := e.lowerChildren(node.Children)
		if err != nil {
			return nil, err
		}

		return goqu.Or(children...), nil

	case *uifilter.Comparison:
		return e.lowerComparison(node)

	default:
		return nil, fmt.Errorf("%w: unknown node %T", ErrUnsupportedPredicate, predicate)
	}
}

func (e *Executor) lowerChildren(children []uifilter.Predicate) ([]exp.Expression, error) {
	expressions := make([]exp.Expression, 0, len(children))

	for _, child := range children {
		expression, err := e.lowerPredicate(child)
		if err != nil {
			return nil, err
		}

		expressions = append(expressions, expression)
	}

	return expressions, nil
}

func (e *Executor) lowerComparison(c *uifilter.Comparison) (exp.Expression, error) {
	var col column = goqu.I(e.columnFor(c.Field))
	if c.CaseInsensitive {
		col = goqu.Func(sqlFuncLower, goqu.I(e.columnFor(c.Field)))
	}

	switch c.Operator {
	case uifilter.OpEq:
		return col.Eq(c.Operand()), nil
	case uifilter.OpNe:
		return col.Neq(c.Operand()), nil
	case uifilter.OpLike:
		return col.Like(c.Operand()), nil
	case uifilter.OpNotLike:
		return col.NotLike(c.Operand()), nil
	case uifilter.OpLt:
		return col.Lt(c.Operand()), nil
	case uifilter.OpLte:
		return col.Lte(c.Operand()), nil
	case uifilter.OpGt:
		return col.Gt(c.Operand()), nil
	case uifilter.OpGte:
		return col.Gte(c.Operand()), nil

	case uifilter.OpBetween:
		if len(c.Operands) != 2 {
			return nil, fmt.Errorf("%w: %s on %q needs two operands", ErrUnsupportedPredicate, c.Operator, c.Field)
		}

		return col.Between(goqu.Range(c.Operands[0], c.Operands[1])), nil

	case uifilter.OpIn:
		if len(c.Operands) == 0 {
			return goqu.L(sqlFalse), nil // nothing is a member of the empty list
		}

		return col.In(c.Operands...), nil

	default:
		return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedPredicate, c.Operator)
	}
}
