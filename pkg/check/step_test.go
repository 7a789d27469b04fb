package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"
)

func TestStepAllInductive(t *testing.T) {
	sys := frozenSys(t, trans.PO{Name: "p", Def: trans.Eq(xVar(), intCst(1))})
	solver := newFakeSolver(t, smt.Unsat)

	s := newStep(sys, solver, Config{})
	require.NoError(t, s.prepare())
	res, err := s.Check()
	require.NoError(t, err)

	assert.Equal(t, 1, res.Width)
	assert.Equal(t, []string{"p"}, res.OkayNames())

	// Width 1 unrolls steps 0 and 1, one transition, the hypothesis at
	// step 0 and the joint query at step 1.
	assert.Equal(t, []string{"x@0", "x@1"}, solver.declared)
	assert.Equal(t, []string{
		"(= |x@1| |x@0|)",   // transition 0 -> 1
		"(= |x@0| 1)",       // induction hypothesis at 0
		"(not (= |x@1| 1))", // joint query at 1
	}, solver.asserts)
	solver.requireBalanced()
}

func TestStepNotInductive(t *testing.T) {
	sys := counterSys(t, trans.PO{Name: "p", Def: trans.Lt(xVar(), intCst(3))})
	solver := newFakeSolver(t, smt.Sat, smt.Sat)
	solver.values = func(step int) []trans.Val {
		return []trans.Val{trans.Int64Val(int64(step) + 2)}
	}

	s := newStep(sys, solver, Config{})
	require.NoError(t, s.prepare())
	res, err := s.Check()
	require.NoError(t, err)

	cex := res.Cex("p")
	require.NotNil(t, cex)
	require.Len(t, cex.Trace, 2)
	assert.Equal(t, 0, cex.Trace[0].Step)
	assert.Equal(t, 1, cex.Trace[1].Step)
	assert.True(t, cex.Trace[0].Values[0].Val.Equal(trans.Int64Val(2)))
	assert.True(t, cex.Trace[1].Values[0].Val.Equal(trans.Int64Val(3)))

	assert.Equal(t, []int{0, 1}, solver.valueSteps)
	solver.requireBalanced()
}

func TestStepWiderUnrolling(t *testing.T) {
	sys := counterSys(t, trans.PO{Name: "p", Def: trans.Ge(xVar(), intCst(0))})
	solver := newFakeSolver(t, smt.Unsat)

	s := newStep(sys, solver, Config{InductionWidth: 3})
	require.NoError(t, s.prepare())
	res, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Width)

	assert.Equal(t, []string{"x@0", "x@1", "x@2", "x@3"}, solver.declared)
	assert.Equal(t, []string{
		"(= |x@1| (+ |x@0| 1))",
		"(= |x@2| (+ |x@1| 1))",
		"(= |x@3| (+ |x@2| 1))",
		"(>= |x@0| 0)",
		"(>= |x@1| 0)",
		"(>= |x@2| 0)",
		"(not (>= |x@3| 0))",
	}, solver.asserts)
	solver.requireBalanced()
}

func TestStepCexSpansWidth(t *testing.T) {
	sys := counterSys(t, trans.PO{Name: "p", Def: trans.Lt(xVar(), intCst(3))})
	solver := newFakeSolver(t, smt.Sat, smt.Sat)
	solver.values = func(step int) []trans.Val {
		return []trans.Val{trans.Int64Val(int64(step) + 1)}
	}

	s := newStep(sys, solver, Config{InductionWidth: 2})
	require.NoError(t, s.prepare())
	res, err := s.Check()
	require.NoError(t, err)

	cex := res.Cex("p")
	require.NotNil(t, cex)
	require.Len(t, cex.Trace, 3)
	for i, state := range cex.Trace {
		assert.Equal(t, i, state.Step)
	}
	solver.requireBalanced()
}

func TestStepUnknownLeavesOpen(t *testing.T) {
	sys := counterSys(t, trans.PO{Name: "p", Def: trans.Lt(xVar(), intCst(3))})
	solver := newFakeSolver(t, smt.Unknown)

	s := newStep(sys, solver, Config{})
	require.NoError(t, s.prepare())
	res, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, []string{"p"}, res.OkayNames())
	solver.requireBalanced()
}
