package check

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"
)

// Bmc searches for concrete falsifying traces by unrolling the transition
// relation one step per iteration, starting from the initial states. Each
// counterexample it finds is a full trace back to an initial state.
type Bmc struct {
	sys    *trans.System
	solver session
	cfg    Config
	logger *logrus.Entry

	res   *Result
	depth int
	// max is the deepest step index still checked; nil means unbounded.
	max           *int
	skipDepthZero bool
}

// NewBmc spawns a solver session for a BMC run over the seed's open proof
// obligations. max bounds the search depth; nil means unbounded.
func NewBmc(ctx context.Context, sys *trans.System, cfg Config, seed *Seed, max *int) (*Bmc, error) {
	sess, err := smt.NewSession(ctx, cfg.smtConfig(), "bmc")
	if err != nil {
		return nil, errors.Wrap(err, "during BMC checker creation")
	}
	b := newBmc(sys, sess, cfg, seed, max)
	if err := b.solver.SetLogic(smt.LogicFor(sys)); err != nil {
		sess.Close()
		return nil, errors.Wrap(err, "during BMC checker creation")
	}
	return b, nil
}

func newBmc(sys *trans.System, solver session, cfg Config, seed *Seed, max *int) *Bmc {
	return &Bmc{
		sys:           sys,
		solver:        solver,
		cfg:           cfg,
		logger:        cfg.logger().WithField("checker", "bmc"),
		res:           seed.res,
		max:           max,
		skipDepthZero: seed.clearedAtZero,
	}
}

// Result returns the live verdict partition. Its open set shrinks as the
// search deepens.
func (b *Bmc) Result() *Result { return b.res }

// NextCheckStep returns the depth the next NextCheck call examines.
func (b *Bmc) NextCheckStep() int { return b.depth }

// IsDone reports whether the search is over: nothing left to falsify, or
// the configured maximum depth was passed.
func (b *Bmc) IsDone() bool {
	if b.res.AllFalsified() {
		return true
	}
	return b.max != nil && b.depth > *b.max
}

// NextCheck extends the unrolling by one step and looks for falsifications
// at the new depth. It reports whether any proof obligation fell.
func (b *Bmc) NextCheck() (bool, error) {
	if b.IsDone() {
		return false, nil
	}
	depth := b.depth
	found, err := b.checkAt(depth)
	if err != nil {
		return false, errors.Wrapf(err, "while checking for falsifications at depth %d", depth)
	}
	b.depth++
	return found, nil
}

func (b *Bmc) checkAt(depth int) (bool, error) {
	if depth == 0 {
		for _, d := range b.sys.Decls() {
			if err := b.solver.Declare(d.ID, d.Sort, 0); err != nil {
				return false, err
			}
		}
		if err := b.solver.Assert(smt.ExprAt(b.sys.Init(), 0)); err != nil {
			return false, err
		}
		if b.skipDepthZero {
			// The base checker already proved every open
			// obligation at depth 0; re-querying could only
			// contradict it.
			b.logger.Debug("depth 0 cleared by the base checker, skipping")
			return false, nil
		}
	} else {
		for _, d := range b.sys.Decls() {
			if err := b.solver.Declare(d.ID, d.Sort, depth); err != nil {
				return false, err
			}
		}
		if err := b.solver.Assert(smt.ExprAt(b.sys.Trans(), depth-1)); err != nil {
			return false, err
		}
	}

	found := false
	err := withFrame(b.solver, func() error {
		open := b.res.OkayNames()
		negs := make([]string, 0, len(open))
		for _, name := range open {
			po, _ := b.sys.PO(name)
			negs = append(negs, negationAt(po, depth))
		}
		if err := b.solver.Assert(disjunction(negs)); err != nil {
			return err
		}
		sat, err := b.solver.CheckSat()
		if err != nil {
			return err
		}
		switch sat {
		case smt.Unsat:
			return nil
		case smt.Unknown:
			return b.cfg.onUnknown(b.logger, "the joint BMC query")
		}

		for _, name := range open {
			po, _ := b.sys.PO(name)
			err := withFrame(b.solver, func() error {
				if err := b.solver.Assert(negationAt(po, depth)); err != nil {
					return err
				}
				sat, err := b.solver.CheckSat()
				if err != nil {
					return err
				}
				switch sat {
				case smt.Unsat:
					return nil
				case smt.Unknown:
					return b.cfg.onUnknown(b.logger, "the BMC query for `"+name+"`")
				}
				cex, err := extractTrace(b.solver, b.sys, depth)
				if err != nil {
					return err
				}
				b.logger.WithFields(logrus.Fields{"po": name, "depth": depth}).
					Debug("found a falsification")
				found = true
				return b.res.falsify(name, cex)
			})
			if err != nil {
				return errors.Wrapf(err, "while blaming proof obligation %q", name)
			}
		}
		return nil
	})
	return found, err
}

// Destroy releases the solver session and hands the final verdicts back.
func (b *Bmc) Destroy() (*Result, error) {
	return b.res, b.solver.Close()
}
