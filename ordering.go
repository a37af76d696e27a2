package cursorable

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (d Direction) Valid() bool {
	return d == DirectionASC || d == DirectionDESC
}

// Flipped returns the opposite direction.
func (d Direction) Flipped() Direction {
	switch d {
	case DirectionASC:
		return DirectionDESC
	case DirectionDESC:
		return DirectionASC
	default:
		panic(fmt.Errorf("cannot flip direction '%s'", d))
	}
}

// ForOperator returns the strict comparison operator matching the direction:
// the next row in ASC order is fetched with ">", in DESC order with "<".
func (d Direction) ForOperator() Operator {
	switch d {
	case DirectionASC:
		return OperatorGT
	case DirectionDESC:
		return OperatorLT
	default:
		panic(fmt.Errorf("cannot map direction '%s' to operator", d))
	}
}

// ColumnSort defines one axis of a composite sort order.
type ColumnSort struct {
	// Column is the database column name. May be qualified ("orders.id").
	Column string
	// Direction is the base sort direction, as seen by forward pagination.
	Direction Direction
	// Reversible marks a column whose query direction may be flipped for
	// backward pagination, so the tail of the forward order can be fetched
	// with a plain ORDER BY + LIMIT instead of a full reverse scan.
	Reversible bool
	// Timestamp marks a column whose cursor values should be re-parsed into
	// time.Time after the JSON round trip.
	Timestamp bool
	// Modifier is an optional SQL function wrapped around the column in
	// ORDER BY and position filters, e.g. "lower" -> lower(name).
	Modifier string
}

// SortKey is an ordered, non-empty list of column sorts defining a composite
// (lexicographic) total order over rows. Sort keys are registered once at
// engine setup and are immutable afterwards.
type SortKey []ColumnSort

type (
	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

// expr returns the SQL expression for the column, applying the modifier when
// one is set.
func (c ColumnSort) expr() string {
	if c.Modifier != "" {
		return fmt.Sprintf("%s(%s)", c.Modifier, c.Column)
	}

	return c.Column
}

// effective returns the direction actually used in the query: backward
// pagination flips reversible columns, non-reversible columns keep their
// base direction regardless.
func (c ColumnSort) effective(backward bool) Direction {
	if backward && c.Reversible {
		return c.Direction.Flipped()
	}

	return c.Direction
}

func (c ColumnSort) validate() error {
	if !c.Direction.Valid() {
		return fmt.Errorf("invalid sort direction '%s'", c.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column
	// names and modifiers.
	if !lo.Every(_availableColumnNameSymbols, []rune(c.Column)) {
		return fmt.Errorf("sort column name contains forbidden symbols '%s'", c.Column)
	}
	if c.Modifier != "" && !lo.Every(lo.AlphanumericCharset, []rune(c.Modifier)) {
		return fmt.Errorf("sort column modifier contains forbidden symbols '%s'", c.Modifier)
	}

	return nil
}

// Effective returns the sort key as queried: for backward pagination every
// reversible column's direction is flipped.
func (k SortKey) Effective(backward bool) SortKey {
	if !backward {
		return k
	}

	ret := make(SortKey, len(k))
	for i, c := range k {
		c.Direction = c.effective(backward)
		ret[i] = c
	}

	return ret
}

// Columns returns the column names of the sort key, in order.
func (k SortKey) Columns() []string {
	return lo.Map(k, func(c ColumnSort, _ int) string { return c.Column })
}

// ToSQLSlice converts the sort key to a slice of strings in the form
// "<column_expr> <direction>" suitable for SQL query builders.
//
// Example: for [{"a", ASC}, {"b", DESC}] returns ["a ASC", "b DESC"].
func (k SortKey) ToSQLSlice() []string {
	ret := make([]string, 0, len(k))
	for _, c := range k {
		ret = append(ret, fmt.Sprintf("%s %s", c.expr(), c.Direction))
	}

	return ret
}

// ToSQL converts the sort key to a single string
// "<column_1> <direction_1>, <column_2> <direction_2>" suitable for embedding
// into an SQL query.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", key.ToSQL())
func (k SortKey) ToSQL() string {
	return strings.Join(k.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query.
func (k SortKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Order(k.ToSQL())
}

func (k SortKey) validate() error {
	if len(k) == 0 {
		return fmt.Errorf("empty sort key")
	}

	var err error
	for _, c := range k {
		err = c.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds a SortKey from a list of strings in the format
// "column asc|desc". Column aliases are resolved via ColumnMapping; parsed
// columns are marked reversible so the key supports backward pagination.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (SortKey, error) {
	ret := make(SortKey, 0, len(stringsOrderings))
	aliases := lo.Keys(columnMapping)

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Split(strings.TrimSpace(stringOrdering), " ")
		if len(cutStringOrdering) != 2 {
			return nil, fmt.Errorf("invalid ordering string format '%s'", stringOrdering)
		}

		columnAlias := cutStringOrdering[0]
		direction := Direction(strings.ToUpper(cutStringOrdering[1]))
		columnName := columnMapping[columnAlias]
		if columnName == "" {
			return nil, fmt.Errorf("invalid column alias. closest: '%s'", closestAlias(columnAlias, aliases))
		}

		ret = append(ret, ColumnSort{
			Column:     columnName,
			Direction:  direction,
			Reversible: true,
		})
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
