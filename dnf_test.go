package cursorable

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func Test_tCond_toGORMExpression(t *testing.T) {
	tests := []struct {
		name     string
		cond     tCond
		wantSQL  string
		wantVars []interface{}
	}{
		{
			name:     "string less than",
			cond:     tCond{Expr: "name", Operator: OperatorLT, Value: "abc"},
			wantSQL:  "name < ?",
			wantVars: []interface{}{"abc"},
		},
		{
			name:     "integer greater than",
			cond:     tCond{Expr: "id", Operator: OperatorGT, Value: 10},
			wantSQL:  "id > ?",
			wantVars: []interface{}{10},
		},
		{
			name:     "modifier expression",
			cond:     tCond{Expr: "lower(name)", Operator: OperatorGT, Value: "abc"},
			wantSQL:  "lower(name) > ?",
			wantVars: []interface{}{"abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := tt.cond.toGORMExpression()
			clauseExpr := expr.(clause.Expr)

			if clauseExpr.SQL != tt.wantSQL {
				t.Errorf("unexpected SQL: got %s, want %s", clauseExpr.SQL, tt.wantSQL)
			}

			require.Equal(t, tt.wantVars, clauseExpr.Vars)
		})
	}
}

func Test_tGroup_toSQLClause(t *testing.T) {
	tests := []struct {
		name     string
		group    tGroup
		wantSQL  string
		wantVars []driver.Value
	}{
		{
			name: "two conditions joined by AND",
			group: tGroup{
				{Expr: "id", Operator: OperatorGT, Value: 5},
				{Expr: "name", Operator: OperatorLT, Value: "abc"},
			},
			wantSQL:  "(id > ? AND name < ?)",
			wantVars: []driver.Value{5, "abc"},
		},
		{
			name:     "empty group",
			group:    tGroup{},
			wantSQL:  "",
			wantVars: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotVars := tt.group.toSQLClause()
			if gotSQL != tt.wantSQL {
				t.Errorf("unexpected SQL: got %s, want %s", gotSQL, tt.wantSQL)
			}
			require.Equal(t, tt.wantVars, gotVars)
		})
	}
}

func Test_tPosition_toSQLClause(t *testing.T) {
	tests := []struct {
		name     string
		position tPosition
		wantSQL  string
		wantVars []driver.Value
	}{
		{
			name: "lexicographic two-column boundary",
			position: tPosition{
				{{Expr: "id", Operator: OperatorLT, Value: 10}},
				{
					{Expr: "id", Operator: operatorEq, Value: 10},
					{Expr: "name", Operator: OperatorLT, Value: "abc"},
				},
			},
			wantSQL:  "((id < ?) OR (id = ? AND name < ?))",
			wantVars: []driver.Value{10, 10, "abc"},
		},
		{
			name:     "empty position is always true",
			position: tPosition{},
			wantSQL:  "TRUE",
			wantVars: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotVars := tt.position.toSQLClause()
			if gotSQL != tt.wantSQL {
				t.Errorf("unexpected SQL: got %s, want %s", gotSQL, tt.wantSQL)
			}
			require.Equal(t, tt.wantVars, gotVars)
		})
	}
}

func Test_tPosition_toGORMExpression(t *testing.T) {
	tests := []struct {
		name     string
		position tPosition
		wantNil  bool
	}{
		{
			name: "non-empty position",
			position: tPosition{
				{{Expr: "id", Operator: OperatorGT, Value: 5}},
				{
					{Expr: "id", Operator: operatorEq, Value: 5},
					{Expr: "name", Operator: OperatorGT, Value: "abc"},
				},
			},
			wantNil: false,
		},
		{
			name:     "empty position",
			position: tPosition{},
			wantNil:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := tt.position.toGORMExpression()
			if (expr == nil) != tt.wantNil {
				t.Errorf("unexpected expression result: got %v, want nil=%v", expr, tt.wantNil)
			}
		})
	}
}

func Test_CursorPayload_positionFilter(t *testing.T) {
	key := SortKey{
		{Column: "created_at", Direction: DirectionDESC, Reversible: true},
		{Column: "id", Direction: DirectionDESC, Reversible: true},
	}
	payload := CursorPayload{
		{Sort: key[0], Value: "2024-01-02T03:04:05Z"},
		{Sort: key[1], Value: 16},
	}

	t.Run("forward uses base direction operators", func(t *testing.T) {
		sql, vars := payload.PositionSQL(key.Effective(false))
		require.Equal(t, "((created_at < ?) OR (created_at = ? AND id < ?))", sql)
		require.Equal(t, []driver.Value{"2024-01-02T03:04:05Z", "2024-01-02T03:04:05Z", 16}, vars)
	})

	t.Run("backward flips reversible column operators", func(t *testing.T) {
		sql, vars := payload.PositionSQL(key.Effective(true))
		require.Equal(t, "((created_at > ?) OR (created_at = ? AND id > ?))", sql)
		require.Equal(t, []driver.Value{"2024-01-02T03:04:05Z", "2024-01-02T03:04:05Z", 16}, vars)
	})

	t.Run("non-reversible column keeps its operator backward", func(t *testing.T) {
		mixed := SortKey{
			{Column: "priority", Direction: DirectionASC},
			{Column: "id", Direction: DirectionDESC, Reversible: true},
		}
		mixedPayload := CursorPayload{
			{Sort: mixed[0], Value: 3},
			{Sort: mixed[1], Value: 16},
		}

		sql, _ := mixedPayload.PositionSQL(mixed.Effective(true))
		require.Equal(t, "((priority > ?) OR (priority = ? AND id > ?))", sql)
	})

	t.Run("empty payload builds no filter", func(t *testing.T) {
		require.Nil(t, CursorPayload{}.positionFilter(key))
	})
}
