package check

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"
)

// Base proves that every proof obligation holds in the initial states. A
// falsified obligation yields a single-step counterexample.
type Base struct {
	sys    *trans.System
	solver session
	cfg    Config
	logger *logrus.Entry
}

// NewBase spawns a solver session and asserts the initial-state frame.
func NewBase(ctx context.Context, sys *trans.System, cfg Config) (*Base, error) {
	sess, err := smt.NewSession(ctx, cfg.smtConfig(), "base")
	if err != nil {
		return nil, errors.Wrap(err, "during base checker creation")
	}
	b := newBase(sys, sess, cfg)
	if err := b.prepare(); err != nil {
		sess.Close()
		return nil, errors.Wrap(err, "during base checker creation")
	}
	return b, nil
}

func newBase(sys *trans.System, solver session, cfg Config) *Base {
	return &Base{
		sys:    sys,
		solver: solver,
		cfg:    cfg,
		logger: cfg.logger().WithField("checker", "base"),
	}
}

// prepare declares the step-0 state and asserts the initial predicate.
func (b *Base) prepare() error {
	if err := b.solver.SetLogic(smt.LogicFor(b.sys)); err != nil {
		return err
	}
	for _, d := range b.sys.Decls() {
		if err := b.solver.Declare(d.ID, d.Sort, 0); err != nil {
			return err
		}
	}
	return b.solver.Assert(smt.ExprAt(b.sys.Init(), 0))
}

// Check runs the base case for every proof obligation of the system.
func (b *Base) Check() (*BaseResult, error) {
	res := &BaseResult{Result: newResult(b.sys.PONames())}
	err := withFrame(b.solver, func() error {
		// One joint query answers the global question; the per-PO
		// blame passes below only run when something can fail.
		negs := make([]string, 0, len(b.sys.POs()))
		for _, po := range b.sys.POs() {
			negs = append(negs, negationAt(po, 0))
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
			return b.cfg.onUnknown(b.logger, "the joint base query")
		}
		return b.blame(res)
	})
	if err != nil {
		return nil, errors.Wrap(err, "during base check")
	}
	return res, nil
}

// blame classifies each proof obligation separately after the joint query
// was sat, attributing a step-0 counterexample to each falsifiable one.
func (b *Base) blame(res *BaseResult) error {
	for _, po := range b.sys.POs() {
		po := po
		err := withFrame(b.solver, func() error {
			if err := b.solver.Assert(negationAt(po, 0)); err != nil {
				return err
			}
			sat, err := b.solver.CheckSat()
			if err != nil {
				return err
			}
			switch sat {
			case smt.Unsat:
				// The joint witness was forced by some other
				// obligation; this one holds on its own.
				return nil
			case smt.Unknown:
				return b.cfg.onUnknown(b.logger, "the base query for `"+po.Name+"`")
			}
			cex, err := extractTrace(b.solver, b.sys, 0)
			if err != nil {
				return err
			}
			b.logger.WithField("po", po.Name).Debug("falsified in the initial states")
			return res.falsify(po.Name, cex)
		})
		if err != nil {
			return errors.Wrapf(err, "while blaming proof obligation %q", po.Name)
		}
	}
	return nil
}

// Destroy releases the solver session.
func (b *Base) Destroy() error {
	return b.solver.Close()
}
