package smt

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinduct/kinduct/pkg/trans"
)

func readAll(t *testing.T, src string) sexpr {
	t.Helper()
	sx, err := readSExpr(bufio.NewReader(strings.NewReader(src)))
	require.NoError(t, err)
	return sx
}

func TestReadSExpr(t *testing.T) {
	sx := readAll(t, "((|x@0| 1) (|r@0| (- (/ 1 2))))")
	list, ok := sx.([]sexpr)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "(|x@0| 1)", sexprString(list[0]))
	assert.Equal(t, "(|r@0| (- (/ 1 2)))", sexprString(list[1]))
}

func TestReadSExprMultiline(t *testing.T) {
	sx := readAll(t, "((|x@0| 1)\n (|y@0|\n  true))")
	assert.Equal(t, "((|x@0| 1) (|y@0| true))", sexprString(sx))
}

func TestReadSExprUnbalanced(t *testing.T) {
	_, err := readSExpr(bufio.NewReader(strings.NewReader(") nope")))
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}

func TestParseValueResponse(t *testing.T) {
	queries := []ValueQuery{
		{Symbol: "|x@0|", Sort: trans.Int},
		{Symbol: "|r@0|", Sort: trans.Rat},
		{Symbol: "|b@0|", Sort: trans.Bool},
	}
	sx := readAll(t, "((|x@0| (- 3)) (|r@0| (- (/ 1 2))) (|b@0| false))")
	bindings, err := parseValueResponse(sx, queries)
	require.NoError(t, err)
	require.Len(t, bindings, 3)
	assert.True(t, bindings[0].Val.Equal(trans.Int64Val(-3)))
	assert.True(t, bindings[1].Val.Equal(trans.Rat64Val(-1, 2)))
	assert.True(t, bindings[2].Val.Equal(trans.BoolVal(false)))
}

func TestParseValueResponseUnquotedEcho(t *testing.T) {
	// Solvers may echo plain symbols without the quoting pipes.
	bindings, err := parseValueResponse(
		readAll(t, "((x@0 1))"),
		[]ValueQuery{{Symbol: "|x@0|", Sort: trans.Int}},
	)
	require.NoError(t, err)
	require.Len(t, bindings, 1)
	assert.True(t, bindings[0].Val.Equal(trans.Int64Val(1)))
}

func TestParseValueResponseMismatch(t *testing.T) {
	queries := []ValueQuery{{Symbol: "|x@0|", Sort: trans.Int}}

	for _, tt := range []struct {
		name string
		src  string
	}{
		{"wrong symbol", "((|y@0| 1))"},
		{"missing entry", "()"},
		{"extra entry", "((|x@0| 1) (|x@1| 2))"},
		{"not a pair", "((|x@0| 1 2))"},
		{"bad literal", "((|x@0| frob))"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseValueResponse(readAll(t, tt.src), queries)
			var perr *ProtocolError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseRatForms(t *testing.T) {
	for _, tt := range []struct {
		src  string
		want trans.Val
	}{
		{"0", trans.Rat64Val(0, 1)},
		{"5", trans.Rat64Val(5, 1)},
		{"1.5", trans.Rat64Val(3, 2)},
		{"(/ 1 2)", trans.Rat64Val(1, 2)},
		{"(/ 1.0 2.0)", trans.Rat64Val(1, 2)},
		{"(- (/ 7 2))", trans.Rat64Val(-7, 2)},
		{"(- 4)", trans.Rat64Val(-4, 1)},
	} {
		t.Run(tt.src, func(t *testing.T) {
			val, err := parseVal(readAll(t, tt.src), trans.Rat)
			require.NoError(t, err)
			assert.True(t, val.Equal(tt.want), "got %s", val)
		})
	}
}

func TestParseRatDivisionByZero(t *testing.T) {
	_, err := parseVal(readAll(t, "(/ 1 0)"), trans.Rat)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
}
