package check

import "github.com/kinduct/kinduct/pkg/trans"

// Assignment binds one state variable to a literal.
type Assignment struct {
	ID  string
	Val trans.Val
}

// State is the full assignment of the state variables at one step of a
// counterexample trace.
type State struct {
	Step   int
	Values []Assignment
}

// Cex is a counterexample: an ordered trace of states falsifying a proof
// obligation. Base counterexamples have a single step 0 state; step
// counterexamples span steps 0..k; BMC counterexamples span steps 0..d with
// step 0 an initial state and the obligation false at step d.
type Cex struct {
	Trace []State
}

// Depth returns the step index of the last state of the trace.
func (c *Cex) Depth() int {
	return len(c.Trace) - 1
}
