package check

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/smt"
	"github.com/kinduct/kinduct/pkg/trans"
)

// Step proves that every proof obligation is preserved by the transition
// relation: assuming all obligations hold at steps 0..k-1 with transitions
// between consecutive steps, each obligation must hold at step k. A
// falsified obligation yields a k+1-step counterexample.
type Step struct {
	sys    *trans.System
	solver session
	width  int
	cfg    Config
	logger *logrus.Entry
}

// NewStep spawns a solver session and asserts the unrolled induction frame.
func NewStep(ctx context.Context, sys *trans.System, cfg Config) (*Step, error) {
	sess, err := smt.NewSession(ctx, cfg.smtConfig(), "step")
	if err != nil {
		return nil, errors.Wrap(err, "during step checker creation")
	}
	s := newStep(sys, sess, cfg)
	if err := s.prepare(); err != nil {
		sess.Close()
		return nil, errors.Wrap(err, "during step checker creation")
	}
	return s, nil
}

func newStep(sys *trans.System, solver session, cfg Config) *Step {
	width := cfg.width()
	return &Step{
		sys:    sys,
		solver: solver,
		width:  width,
		cfg:    cfg,
		logger: cfg.logger().WithFields(logrus.Fields{"checker": "step", "width": width}),
	}
}

// Width returns the induction width k this checker unrolls to.
func (s *Step) Width() int { return s.width }

// prepare declares steps 0..k, chains the transition relation between
// consecutive steps, and asserts the induction hypothesis: every proof
// obligation at every step 0..k-1.
func (s *Step) prepare() error {
	if err := s.solver.SetLogic(smt.LogicFor(s.sys)); err != nil {
		return err
	}
	for step := 0; step <= s.width; step++ {
		for _, d := range s.sys.Decls() {
			if err := s.solver.Declare(d.ID, d.Sort, step); err != nil {
				return err
			}
		}
	}
	for step := 0; step < s.width; step++ {
		if err := s.solver.Assert(smt.ExprAt(s.sys.Trans(), step)); err != nil {
			return err
		}
	}
	for step := 0; step < s.width; step++ {
		for _, po := range s.sys.POs() {
			if err := s.solver.Assert(smt.ExprAt(po.Def, step)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Check runs the inductive step for every proof obligation of the system.
func (s *Step) Check() (*StepResult, error) {
	res := &StepResult{Result: newResult(s.sys.PONames()), Width: s.width}
	err := withFrame(s.solver, func() error {
		negs := make([]string, 0, len(s.sys.POs()))
		for _, po := range s.sys.POs() {
			negs = append(negs, negationAt(po, s.width))
		}
		if err := s.solver.Assert(disjunction(negs)); err != nil {
			return err
		}
		sat, err := s.solver.CheckSat()
		if err != nil {
			return err
		}
		switch sat {
		case smt.Unsat:
			return nil
		case smt.Unknown:
			return s.cfg.onUnknown(s.logger, "the joint step query")
		}
		return s.blame(res)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "during step check at width %d", s.width)
	}
	return res, nil
}

func (s *Step) blame(res *StepResult) error {
	for _, po := range s.sys.POs() {
		po := po
		err := withFrame(s.solver, func() error {
			if err := s.solver.Assert(negationAt(po, s.width)); err != nil {
				return err
			}
			sat, err := s.solver.CheckSat()
			if err != nil {
				return err
			}
			switch sat {
			case smt.Unsat:
				return nil
			case smt.Unknown:
				return s.cfg.onUnknown(s.logger, "the step query for `"+po.Name+"`")
			}
			cex, err := extractTrace(s.solver, s.sys, s.width)
			if err != nil {
				return err
			}
			s.logger.WithField("po", po.Name).Debug("not inductive at width " + strconv.Itoa(s.width))
			return res.falsify(po.Name, cex)
		})
		if err != nil {
			return errors.Wrapf(err, "while blaming proof obligation %q", po.Name)
		}
	}
	return nil
}

// Destroy releases the solver session.
func (s *Step) Destroy() error {
	return s.solver.Close()
}
