package check

import "github.com/kinduct/kinduct/pkg/trans"

// Result partitions a set of proof obligations into those not (yet)
// falsified and those falsified with a counterexample. The two sides are
// exclusive and together cover the full set.
type Result struct {
	order []string
	okay  map[string]struct{}
	cexs  map[string]*Cex
}

func newResult(names []string) *Result {
	r := &Result{
		order: names,
		okay:  make(map[string]struct{}, len(names)),
		cexs:  make(map[string]*Cex),
	}
	for _, n := range names {
		r.okay[n] = struct{}{}
	}
	return r
}

// NewFullResult opens every proof obligation of a system, none falsified.
func NewFullResult(sys *trans.System) *Result {
	return newResult(sys.PONames())
}

// Names returns the full proof obligation set in source order.
func (r *Result) Names() []string { return r.order }

// IsOkay reports whether the named proof obligation has not been falsified.
func (r *Result) IsOkay(name string) bool {
	_, ok := r.okay[name]
	return ok
}

// Cex returns the counterexample recorded for a falsified proof obligation,
// or nil.
func (r *Result) Cex(name string) *Cex { return r.cexs[name] }

// OkayNames returns the not-falsified proof obligations in source order.
func (r *Result) OkayNames() []string {
	names := make([]string, 0, len(r.okay))
	for _, n := range r.order {
		if r.IsOkay(n) {
			names = append(names, n)
		}
	}
	return names
}

// FalsifiedNames returns the falsified proof obligations in source order.
func (r *Result) FalsifiedNames() []string {
	names := make([]string, 0, len(r.cexs))
	for _, n := range r.order {
		if !r.IsOkay(n) {
			names = append(names, n)
		}
	}
	return names
}

// HasFalsifications reports whether any proof obligation was falsified.
func (r *Result) HasFalsifications() bool { return len(r.cexs) > 0 }

// AllFalsified reports whether no proof obligation is left open.
func (r *Result) AllFalsified() bool { return len(r.okay) == 0 }

// falsify moves a proof obligation from the okay side to the falsified side.
func (r *Result) falsify(name string, cex *Cex) error {
	if _, ok := r.okay[name]; !ok {
		if _, done := r.cexs[name]; done {
			return internalErrorf("proof obligation %q falsified twice", name)
		}
		return internalErrorf("unknown proof obligation %q", name)
	}
	delete(r.okay, name)
	r.cexs[name] = cex
	return nil
}

// BaseResult is the verdict of the base checker: falsified proof obligations
// do not hold in the initial states.
type BaseResult struct {
	*Result
}

// StepResult is the verdict of the step checker: falsified proof obligations
// are not k-inductive. Width records the induction width k that was used.
type StepResult struct {
	*Result
	Width int
}
