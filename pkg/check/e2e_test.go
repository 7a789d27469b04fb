package check

import (
	"context"
	"os/exec"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinduct/kinduct/pkg/parse"
	"github.com/kinduct/kinduct/pkg/trans"
)

// These tests run the checkers against a real solver and are skipped when z3
// is not installed.

func requireZ3(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not in PATH")
	}
}

func parseSys(t *testing.T, src string) *trans.System {
	t.Helper()
	sys, err := parse.System(src)
	require.NoError(t, err)
	return sys
}

func runInduction(t *testing.T, sys *trans.System, cfg Config) (*BaseResult, *StepResult) {
	t.Helper()
	ctx := context.Background()

	base, err := NewBase(ctx, sys, cfg)
	require.NoError(t, err)
	defer base.Destroy()
	baseRes, err := base.Check()
	require.NoError(t, err)

	step, err := NewStep(ctx, sys, cfg)
	require.NoError(t, err)
	defer step.Destroy()
	stepRes, err := step.Check()
	require.NoError(t, err)

	return baseRes, stepRes
}

func runBmc(t *testing.T, sys *trans.System, cfg Config, seed *Seed, max int) *Result {
	t.Helper()
	bmc, err := NewBmc(context.Background(), sys, cfg, seed, &max)
	require.NoError(t, err)
	for !bmc.IsDone() {
		_, err := bmc.NextCheck()
		require.NoError(t, err)
	}
	res, err := bmc.Destroy()
	require.NoError(t, err)
	return res
}

func TestE2ETriviallySafe(t *testing.T) {
	requireZ3(t)
	sys := parseSys(t, `
		svars { x: int }
		init { x = 0 }
		trans { x' = x }
		po "p" { x = 0 }
	`)
	base, step := runInduction(t, sys, Config{})
	assert.False(t, base.HasFalsifications())
	assert.False(t, step.HasFalsifications())
}

func TestE2EBaseFalsifiable(t *testing.T) {
	requireZ3(t)
	sys := parseSys(t, `
		svars { x: int }
		init { x = 1 }
		trans { x' = x }
		po "p" { x = 0 }
	`)
	base, _ := runInduction(t, sys, Config{})

	cex := base.Cex("p")
	require.NotNil(t, cex)
	want := &Cex{Trace: []State{{
		Step:   0,
		Values: []Assignment{{ID: "x", Val: trans.Int64Val(1)}},
	}}}
	assert.Empty(t, cmp.Diff(want, cex))
}

func TestE2ENonInductiveButTrue(t *testing.T) {
	requireZ3(t)
	// Reachable states are exactly the naturals, so the obligation holds,
	// but one backward step from -1 satisfies the hypothesis vacuously.
	sys := parseSys(t, `
		svars { x: int }
		init { x = 0 }
		trans { x' = x + 1 }
		po "p" { ! (x = -1) }
	`)
	base, step := runInduction(t, sys, Config{})
	assert.False(t, base.HasFalsifications())
	assert.Equal(t, []string{"p"}, step.FalsifiedNames())
	require.Len(t, step.Cex("p").Trace, 2)

	seed, err := Merge(base, step)
	require.NoError(t, err)
	res := runBmc(t, sys, Config{}, seed, 10)
	assert.Equal(t, []string{"p"}, res.OkayNames())
}

func TestE2ECounterWraps(t *testing.T) {
	requireZ3(t)
	sys := parseSys(t, `
		svars { x: int }
		init { x = 0 }
		trans { x' = x + 1 }
		po "p" { x < 3 }
	`)
	base, step := runInduction(t, sys, Config{})
	assert.False(t, base.HasFalsifications())
	assert.Equal(t, []string{"p"}, step.FalsifiedNames())

	seed, err := Merge(base, step)
	require.NoError(t, err)
	res := runBmc(t, sys, Config{}, seed, 10)

	cex := res.Cex("p")
	require.NotNil(t, cex)
	require.Len(t, cex.Trace, 4)
	for i, state := range cex.Trace {
		assert.Equal(t, i, state.Step)
		require.Len(t, state.Values, 1)
		assert.True(t, state.Values[0].Val.Equal(trans.Int64Val(int64(i))),
			"step %d: got %s", i, state.Values[0].Val)
	}
}

func TestE2ERational(t *testing.T) {
	requireZ3(t)
	sys := parseSys(t, `
		svars { r: rat }
		init { r = 0 }
		trans { r' = r + 1/2 }
		po "p" { r >= 0 }
	`)
	base, step := runInduction(t, sys, Config{})
	assert.False(t, base.HasFalsifications())
	assert.False(t, step.HasFalsifications())
}

func TestE2ETwoPOs(t *testing.T) {
	requireZ3(t)
	sys := parseSys(t, `
		svars { x: int }
		init { x = 0 }
		trans { x' = x + 1 }
		po "good" { x >= 0 }
		po "bad" { x < 3 }
	`)
	base, step := runInduction(t, sys, Config{})
	assert.False(t, base.HasFalsifications())
	assert.Equal(t, []string{"good"}, step.OkayNames())
	assert.Equal(t, []string{"bad"}, step.FalsifiedNames())

	seed, err := Merge(base, step)
	require.NoError(t, err)
	assert.Equal(t, []string{"bad"}, seed.Result().Names())

	res := runBmc(t, sys, Config{}, seed, 10)
	assert.True(t, res.AllFalsified())
	assert.Equal(t, 3, res.Cex("bad").Depth())
}

func TestE2ESMTLogFiles(t *testing.T) {
	requireZ3(t)
	dir := t.TempDir()
	sys := parseSys(t, `
		svars { x: int }
		init { x = 0 }
		trans { x' = x }
		po "p" { x = 0 }
	`)
	runInduction(t, sys, Config{SMTLogDir: dir})

	for _, name := range []string{"base.smt2", "step.smt2"} {
		assert.FileExists(t, dir+"/"+name)
	}
}
