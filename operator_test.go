package cursorable

import "testing"

func Test_Operator_Valid_And_ForDirection(t *testing.T) {
	tests := []struct {
		name      string
		in        Operator
		valid     bool
		direction Direction
	}{
		{"GT valid maps to ASC", OperatorGT, true, DirectionASC},
		{"LT valid maps to DESC", OperatorLT, true, DirectionDESC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Valid(); got != tt.valid {
				t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
			}
			if got := tt.in.ForDirection(); got != tt.direction {
				t.Errorf("%s: ForDirection=%v want %v", tt.name, got, tt.direction)
			}
		})
	}
}

func Test_Operator_Eq_Invalid(t *testing.T) {
	if operatorEq.Valid() {
		t.Errorf("equality operator must not be valid for boundary conditions")
	}
}
