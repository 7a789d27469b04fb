package check

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"
)

// session is the slice of the solver gate the checkers drive. *smt.Session
// implements it; tests substitute a scripted fake.
type session interface {
	SetLogic(logic string) error
	Declare(id string, sort trans.Sort, step int) error
	Assert(body string) error
	Push(n int) error
	Pop(n int) error
	CheckSat() (smt.Result, error)
	StepValues(decls []trans.Decl, step int) ([]trans.Val, error)
	Close() error
}

var _ session = (*smt.Session)(nil)

// withFrame runs fn inside one push/pop frame. The pop happens on every exit
// path, including when fn fails.
func withFrame(s session, fn func() error) (err error) {
	if err = s.Push(1); err != nil {
		return err
	}
	defer func() {
		if perr := s.Pop(1); perr != nil && err == nil {
			err = perr
		}
	}()
	return fn()
}

// negationAt renders `(not po)` at a step index.
func negationAt(po trans.PO, step int) string {
	return "(not " + smt.ExprAt(po.Def, step) + ")"
}

// disjunction folds rendered terms into a single `(or …)` body. No terms
// denote false, a single term stands on its own.
func disjunction(terms []string) string {
	switch len(terms) {
	case 0:
		return "false"
	case 1:
		return terms[0]
	}
	return "(or " + strings.Join(terms, " ") + ")"
}

// extractTrace reads the model back from a solver in sat state, one
// get-value batch per step over steps 0..depth.
func extractTrace(s session, sys *trans.System, depth int) (*Cex, error) {
	decls := sys.Decls()
	trace := make([]State, 0, depth+1)
	for step := 0; step <= depth; step++ {
		vals, err := s.StepValues(decls, step)
		if err != nil {
			return nil, errors.Wrapf(err, "while extracting model values at step %d", step)
		}
		assigns := make([]Assignment, len(decls))
		for i, d := range decls {
			assigns[i] = Assignment{ID: d.ID, Val: vals[i]}
		}
		trace = append(trace, State{Step: step, Values: assigns})
	}
	return &Cex{Trace: trace}, nil
}
