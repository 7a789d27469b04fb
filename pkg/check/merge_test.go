package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseStepResults(t *testing.T, names ...string) (*BaseResult, *StepResult) {
	t.Helper()
	return &BaseResult{Result: newResult(names)},
		&StepResult{Result: newResult(names), Width: 1}
}

func TestMergePartition(t *testing.T) {
	base, step := baseStepResults(t, "unsafe", "safe", "open")
	baseCex := &Cex{Trace: []State{{Step: 0}}}
	require.NoError(t, base.falsify("unsafe", baseCex))
	require.NoError(t, step.falsify("unsafe", &Cex{Trace: []State{{Step: 0}, {Step: 1}}}))
	require.NoError(t, step.falsify("open", &Cex{Trace: []State{{Step: 0}, {Step: 1}}}))

	seed, err := Merge(base, step)
	require.NoError(t, err)

	res := seed.Result()
	// `safe` passed both checkers and leaves the seed; `unsafe` keeps
	// its base counterexample; `open` is what BMC will search.
	assert.Equal(t, []string{"unsafe", "open"}, res.Names())
	assert.Equal(t, []string{"open"}, res.OkayNames())
	assert.Same(t, baseCex, res.Cex("unsafe"))
	assert.False(t, seed.AllFalsified())
}

func TestMergeAllSafe(t *testing.T) {
	base, step := baseStepResults(t, "a", "b")
	seed, err := Merge(base, step)
	require.NoError(t, err)
	assert.Empty(t, seed.Result().Names())
	assert.True(t, seed.AllFalsified())
}

func TestMergeMismatch(t *testing.T) {
	base, _ := baseStepResults(t, "a", "b")
	_, step := baseStepResults(t, "a")
	_, err := Merge(base, step)
	var ierr InternalError
	require.ErrorAs(t, err, &ierr)

	_, step = baseStepResults(t, "a", "c")
	_, err = Merge(base, step)
	require.ErrorAs(t, err, &ierr)
}

func TestResultPartitionInvariant(t *testing.T) {
	res := newResult([]string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, res.OkayNames())
	assert.Empty(t, res.FalsifiedNames())

	require.NoError(t, res.falsify("a", &Cex{Trace: []State{{Step: 0}}}))
	assert.Equal(t, []string{"b"}, res.OkayNames())
	assert.Equal(t, []string{"a"}, res.FalsifiedNames())

	// Exclusive: a name is on exactly one side.
	for _, name := range res.Names() {
		assert.NotEqual(t, res.IsOkay(name), res.Cex(name) != nil)
	}

	var ierr InternalError
	require.ErrorAs(t, res.falsify("a", &Cex{}), &ierr)
	require.ErrorAs(t, res.falsify("zap", &Cex{}), &ierr)
}
