package check

// Seed is the starting point of a BMC run: the proof obligations still worth
// searching, plus any counterexamples already established by the base
// checker.
type Seed struct {
	res *Result
	// clearedAtZero records that every open obligation of the seed was
	// proved at depth 0 by the base checker, so BMC can skip its depth-0
	// query outright.
	clearedAtZero bool
}

// FullSeed opens every proof obligation of the result for BMC. Used when BMC
// runs without a prior induction attempt.
func FullSeed(res *Result) *Seed {
	return &Seed{res: res}
}

// Result exposes the seed's verdict partition.
func (s *Seed) Result() *Result { return s.res }

// AllFalsified reports whether the seed leaves nothing to search.
func (s *Seed) AllFalsified() bool { return s.res.AllFalsified() }

// Merge combines base and step verdicts into a BMC seed:
//
//   - obligations falsified by base stay falsified, their base
//     counterexamples remain authoritative;
//   - obligations that passed both base and step are proved safe and leave
//     the seed entirely;
//   - obligations that passed base but failed step become the open set.
//
// Base and step must cover the same proof obligations; a mismatch is an
// internal error.
func Merge(base *BaseResult, step *StepResult) (*Seed, error) {
	bnames, snames := base.Names(), step.Names()
	if len(bnames) != len(snames) {
		return nil, internalErrorf(
			"base and step verdicts cover %d and %d proof obligations",
			len(bnames), len(snames),
		)
	}
	for i, n := range bnames {
		if snames[i] != n {
			return nil, internalErrorf(
				"base and step verdicts disagree on proof obligation %q", n,
			)
		}
	}

	var order []string
	for _, n := range bnames {
		if base.IsOkay(n) && step.IsOkay(n) {
			continue // proved safe by induction
		}
		order = append(order, n)
	}
	res := newResult(order)
	for _, n := range order {
		if cex := base.Cex(n); cex != nil {
			if err := res.falsify(n, cex); err != nil {
				return nil, err
			}
		}
	}
	return &Seed{res: res, clearedAtZero: true}, nil
}
