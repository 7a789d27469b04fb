package trans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExprSorts(t *testing.T) {
	x := NewVar("x", Int)
	r := NewVar("r", Rat)
	b := NewVar("b", Bool)

	for _, tt := range []struct {
		name string
		expr Expr
		sort Sort
	}{
		{"var", x, Int},
		{"primed var", x.Prime(), Int},
		{"const", Cst{Val: Int64Val(42)}, Int},
		{"and", And(b, True), Bool},
		{"empty and", And(), Bool},
		{"not", Not(b), Bool},
		{"implies", Implies(b, False), Bool},
		{"eq", Eq(x, Cst{Val: Int64Val(0)}), Bool},
		{"le", Le(x, x), Bool},
		{"add int", Add(x, Cst{Val: Int64Val(1)}), Int},
		{"add rat", Add(r, Cst{Val: Rat64Val(1, 2)}), Rat},
		{"unary minus", Sub(x), Int},
		{"div", Div(r, r), Rat},
		{"idiv", IDiv(x, x), Int},
		{"mod", Mod(x, x), Int},
		{"ite", Ite(b, x, Cst{Val: Int64Val(0)}), Int},
	} {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sort, tt.expr.Sort())
		})
	}
}

func TestExprString(t *testing.T) {
	x := NewVar("x", Int)
	e := Implies(Ge(x, Cst{Val: Int64Val(0)}), Eq(x.Prime(), Add(x, Cst{Val: Int64Val(1)})))
	assert.Equal(t, "(=> (>= x 0) (= x' (+ x 1)))", e.String())
}

func TestValEqual(t *testing.T) {
	require.True(t, Int64Val(3).Equal(Int64Val(3)))
	require.False(t, Int64Val(3).Equal(Int64Val(4)))
	require.False(t, Int64Val(3).Equal(Rat64Val(3, 1)))
	require.True(t, Rat64Val(1, 2).Equal(Rat64Val(2, 4)))
	require.True(t, BoolVal(true).Equal(BoolVal(true)))
	require.False(t, BoolVal(true).Equal(BoolVal(false)))
}

func TestValString(t *testing.T) {
	assert.Equal(t, "true", BoolVal(true).String())
	assert.Equal(t, "-3", Int64Val(-3).String())
	assert.Equal(t, "1/2", Rat64Val(1, 2).String())
	assert.Equal(t, "2", Rat64Val(4, 2).String())
}
