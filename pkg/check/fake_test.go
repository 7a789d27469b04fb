package check

import (
	"fmt"
	"testing"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"

	"github.com/stretchr/testify/require"
)

// fakeSolver is a scripted stand-in for a solver session. CheckSat answers
// are consumed from a queue; model values come from the values function.
// Every request is recorded so tests can assert on the emitted dialogue and
// on push/pop balance.
type fakeSolver struct {
	t      *testing.T
	sats   []smt.Result
	values func(step int) []trans.Val

	logic      string
	declared   []string
	asserts    []string
	valueSteps []int
	frames     int
	pushes     int
	pops       int
	closed     bool
}

func newFakeSolver(t *testing.T, sats ...smt.Result) *fakeSolver {
	return &fakeSolver{t: t, sats: sats}
}

func (f *fakeSolver) SetLogic(logic string) error {
	f.logic = logic
	return nil
}

func (f *fakeSolver) Declare(id string, sort trans.Sort, step int) error {
	f.declared = append(f.declared, fmt.Sprintf("%s@%d", id, step))
	return nil
}

func (f *fakeSolver) Assert(body string) error {
	f.asserts = append(f.asserts, body)
	return nil
}

func (f *fakeSolver) Push(n int) error {
	f.frames += n
	f.pushes += n
	return nil
}

func (f *fakeSolver) Pop(n int) error {
	if n > f.frames {
		f.t.Fatalf("pop of %d frames but only %d are open", n, f.frames)
	}
	f.frames -= n
	f.pops += n
	return nil
}

func (f *fakeSolver) CheckSat() (smt.Result, error) {
	if len(f.sats) == 0 {
		f.t.Fatal("unexpected check-sat request")
	}
	r := f.sats[0]
	f.sats = f.sats[1:]
	return r, nil
}

func (f *fakeSolver) StepValues(decls []trans.Decl, step int) ([]trans.Val, error) {
	if f.values == nil {
		f.t.Fatal("unexpected get-value request")
	}
	f.valueSteps = append(f.valueSteps, step)
	vals := f.values(step)
	if len(vals) != len(decls) {
		f.t.Fatalf("scripted %d values for %d declarations", len(vals), len(decls))
	}
	return vals, nil
}

func (f *fakeSolver) Close() error {
	f.closed = true
	return nil
}

// requireBalanced asserts the push/pop invariant: every opened frame was
// closed again and the scripted answers were all consumed.
func (f *fakeSolver) requireBalanced() {
	require.Equal(f.t, 0, f.frames, "assertion stack not balanced")
	require.Equal(f.t, f.pushes, f.pops, "push count does not match pop count")
	require.Empty(f.t, f.sats, "scripted check-sat answers left over")
}

func intCst(i int64) trans.Expr { return trans.Cst{Val: trans.Int64Val(i)} }

// counterSys is the incrementing counter: init x = 0, trans x' = x + 1,
// with the given proof obligations.
func counterSys(t *testing.T, pos ...trans.PO) *trans.System {
	t.Helper()
	x := trans.NewVar("x", trans.Int)
	sys, err := trans.NewSystem(
		[]trans.Decl{{ID: "x", Sort: trans.Int}},
		trans.Eq(x, intCst(0)),
		trans.Eq(x.Prime(), trans.Add(x, intCst(1))),
		pos,
	)
	require.NoError(t, err)
	return sys
}

// frozenSys keeps x at its initial value 1: init x = 1, trans x' = x.
func frozenSys(t *testing.T, pos ...trans.PO) *trans.System {
	t.Helper()
	x := trans.NewVar("x", trans.Int)
	sys, err := trans.NewSystem(
		[]trans.Decl{{ID: "x", Sort: trans.Int}},
		trans.Eq(x, intCst(1)),
		trans.Eq(x.Prime(), x),
		pos,
	)
	require.NoError(t, err)
	return sys
}

func xVar() trans.Var { return trans.NewVar("x", trans.Int) }
