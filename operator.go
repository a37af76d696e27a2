package cursorable

import "fmt"

// Operator defines a comparison operator for position filtering by column.
// Used when building the lexicographic boundary conditions of a cursor.
type Operator string

func (o Operator) Valid() bool {
	return o == OperatorLT || o == OperatorGT
}

// ForDirection returns the sort direction a strict boundary operator
// corresponds to: rows strictly after the boundary in ASC order are fetched
// with ">", in DESC order with "<".
func (o Operator) ForDirection() Direction {
	switch o {
	case OperatorGT:
		return DirectionASC
	case OperatorLT:
		return DirectionDESC
	default:
		panic(fmt.Errorf("cannot map operator '%s' to direction", o))
	}
}

const (
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"

	// operatorEq is the equality operator. It is private because we use it
	// ONLY for the tie-breaking conjuncts of a position filter.
	operatorEq Operator = "="
)
