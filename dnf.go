package cursorable

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	tCond struct {
		Expr     string
		Value    any
		Operator Operator
	}

	// tGroup is a list of conditions joined by AND.
	tGroup []tCond

	// tPosition represents a cursor's boundary filter in disjunctive normal
	// form (DNF). Each group is joined by OR and each condition within a
	// group by AND:
	//
	//	position = G1 OR G2 ... OR Gn, where Gi = Ki1 AND Ki2 ... AND Kim.
	//
	// For a cursor over columns (c1, c2, c3) with strict operators (o1, o2, o3)
	// the filter expands to
	//
	//	(c1 o1 v1) OR (c1 = v1 AND c2 o2 v2) OR (c1 = v1 AND c2 = v2 AND c3 o3 v3)
	//
	// which is the lexicographic "row tuple strictly after cursor tuple"
	// comparison. Independent per-column inequalities would skip or duplicate
	// rows whenever an earlier column ties between two rows.
	tPosition []tGroup
)

// positionFilter expands the payload into the DNF boundary filter, taking
// the strict operator of each column from the effective sort key, i.e. the
// directions actually used in the query after any backward flipping.
// effective must be positionally aligned with the payload.
func (p CursorPayload) positionFilter(effective SortKey) tPosition {
	if p.IsEmpty() {
		return nil
	}

	position := make(tPosition, 0, len(p))
	for i := range p {
		group := make(tGroup, 0, i+1)

		// Tie-break: all preceding columns pinned to equality.
		for j := 0; j < i; j++ {
			group = append(group, tCond{
				Expr:     p[j].Sort.expr(),
				Value:    p[j].Value,
				Operator: operatorEq,
			})
		}

		group = append(group, tCond{
			Expr:     p[i].Sort.expr(),
			Value:    p[i].Value,
			Operator: effective[i].Direction.ForOperator(),
		})

		position = append(position, group)
	}

	return position
}

// apply injects the boundary filter into a gorm query. An empty payload
// leaves the query untouched.
func (p CursorPayload) apply(db *gorm.DB, effective SortKey) *gorm.DB {
	exp := p.positionFilter(effective).toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// PositionSQL renders the boundary filter as a raw SQL condition with "?"
// placeholders, for callers embedding it into hand-written queries.
//
// Usage:
//
//	cond, args := payload.PositionSQL(key.Effective(false))
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", cond)
func (p CursorPayload) PositionSQL(effective SortKey) (string, []driver.Value) {
	return p.positionFilter(effective).toSQLClause()
}

// toGORMExpression converts a condition of the form Operator(Expr, Value)
// into an SQL condition "Expr Operator ?" represented as a clause.Expression.
func (c tCond) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition to the SQL form "Expr Operator ?" with a
// corresponding placeholder value.
//
// Example:
//
//	tCond = { Expr: "id", Operator: ">", Value: 123 }
//
// Result:
//
//	("id > ?", 123)
func (c tCond) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Expr, c.Operator), c.Value
}

// toGORMExpression converts a group (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3".
func (g tGroup) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(g))
	for _, cond := range g {
		andExpressions = append(andExpressions, cond.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a group (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding placeholder values.
//
// Example:
//
//	tGroup = {
//		{Expr: "id", Operator: ">", Value: 5},
//		{Expr: "name", Operator: "<", Value: "abc"},
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (g tGroup) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(g))
	andValues := make([]driver.Value, 0, len(g))

	for _, cond := range g {
		andClause, andValue := cond.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// toGORMExpression converts the DNF into a clause.Expression, joining groups
// with OR. Returns nil for an empty filter.
func (p tPosition) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(p))

	for _, group := range p {
		andExpression := group.toGORMExpression()
		if andExpression == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpression)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// toSQLClause converts the DNF into an SQL condition, joining groups with OR.
//
// Example:
//
//	tPosition = {
//		{{Expr: "id", Operator: "<", Value: 10}},
//		{{Expr: "id", Operator: "=", Value: 10}, {Expr: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
func (p tPosition) toSQLClause() (string, []driver.Value) {
	orClauses := make([]string, 0, len(p))
	values := make([]driver.Value, 0, len(p))

	for _, group := range p {
		orClause, orValues := group.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}
