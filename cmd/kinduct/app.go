package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/check"
	"github.com/kinduct/kinduct/pkg/config"
	"github.com/kinduct/kinduct/pkg/parse"
	"github.com/kinduct/kinduct/pkg/trans"
)

// app ties one invocation together: effective configuration, verbosity, and
// where human-facing output goes.
type app struct {
	cfg    config.Config
	verb   int
	out    io.Writer
	logger *logrus.Logger
}

// newApp resolves the effective configuration: defaults, then the optional
// configuration file, then explicit flags on top.
func newApp() (*app, error) {
	cfg := config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return nil, err
		}
	}
	if flagSolverCmd != "" {
		cfg.SolverCommand = flagSolverCmd
	}
	if flagSMTLog != "" {
		cfg.SMTLogDir = flagSMTLog
	}
	if flagWidth > 0 {
		cfg.InductionWidth = flagWidth
	}
	if flagFailOnUnknown {
		cfg.FailOnUnknown = true
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if flagDebug {
		logger.SetLevel(logrus.DebugLevel)
	}

	verb := 1 + flagVerbose
	if flagQuiet {
		verb = 0
	}

	return &app{cfg: cfg, verb: verb, out: os.Stdout, logger: logger}, nil
}

func (a *app) checkConfig() check.Config {
	return check.Config{
		SolverCommand:  a.cfg.SolverCommand,
		SMTLogDir:      a.cfg.SMTLogDir,
		InductionWidth: a.cfg.InductionWidth,
		FailOnUnknown:  a.cfg.FailOnUnknown,
		Logger:         a.logger,
	}
}

// loadSystem reads and parses a system file.
func (a *app) loadSystem(path string) (*trans.System, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "while reading system file %q", path)
	}
	sys, err := parse.System(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "while parsing system file %q", path)
	}
	if a.verb >= 3 {
		fmt.Fprintln(a.out, "|===| Parsing successful:")
		renderSystem(a.out, sys, "| ")
		fmt.Fprintln(a.out, "|===|")
		fmt.Fprintln(a.out)
	}
	return sys, nil
}

// runInduction runs the base and step checkers in sequence, presenting
// counterexamples as they are found.
func (a *app) runInduction(ctx context.Context, sys *trans.System) (*check.BaseResult, *check.StepResult, error) {
	base, err := a.baseCheck(ctx, sys)
	if err != nil {
		return nil, nil, err
	}
	step, err := a.stepCheck(ctx, sys)
	if err != nil {
		return nil, nil, err
	}
	return base, step, nil
}

func (a *app) baseCheck(ctx context.Context, sys *trans.System) (*check.BaseResult, error) {
	if a.verb > 0 {
		fmt.Fprintln(a.out, "checking base case...")
	}
	checker, err := check.NewBase(ctx, sys, a.checkConfig())
	if err != nil {
		return nil, err
	}
	defer checker.Destroy()
	res, err := checker.Check()
	if err != nil {
		return nil, err
	}
	if a.verb > 0 {
		if !res.HasFalsifications() {
			fmt.Fprintln(a.out, "success: all PO(s) hold in the base state")
		} else {
			fmt.Fprintln(a.out, "failed: the following PO(s) do not hold in the base state:")
			a.presentCexs(sys, res.Result, false)
		}
		fmt.Fprintln(a.out)
	}
	return res, nil
}

func (a *app) stepCheck(ctx context.Context, sys *trans.System) (*check.StepResult, error) {
	if a.verb > 0 {
		fmt.Fprintln(a.out, "checking step case...")
	}
	checker, err := check.NewStep(ctx, sys, a.checkConfig())
	if err != nil {
		return nil, err
	}
	defer checker.Destroy()
	res, err := checker.Check()
	if err != nil {
		return nil, err
	}
	if a.verb > 0 {
		if !res.HasFalsifications() {
			fmt.Fprintln(a.out, "success: all PO(s) are inductive")
		} else {
			fmt.Fprintln(a.out, "failed: the following PO(s) are not inductive:")
			a.presentCexs(sys, res.Result, true)
		}
		fmt.Fprintln(a.out)
	}
	return res, nil
}

// runBMC drives a BMC search over the seed, presenting falsifications as
// they are found, and returns the final verdicts.
func (a *app) runBMC(ctx context.Context, sys *trans.System, seed *check.Seed, max *int) (*check.Result, error) {
	if seed.AllFalsified() {
		return seed.Result(), nil
	}

	fmt.Fprintf(a.out, "running BMC, looking for falsifications for %d PO(s)...\n",
		len(seed.Result().OkayNames()))

	bmc, err := check.NewBmc(ctx, sys, a.checkConfig(), seed, max)
	if err != nil {
		return nil, err
	}
	presented := make(map[string]bool)
	for _, name := range bmc.Result().FalsifiedNames() {
		presented[name] = true // seeded base counterexamples are not BMC news
	}

	for !bmc.IsDone() {
		depth := bmc.NextCheckStep()
		if a.verb > 0 {
			fmt.Fprintf(a.out, "checking for falsifications at depth %d\n", depth)
		}
		found, err := bmc.NextCheck()
		if err != nil {
			bmc.Destroy()
			return nil, err
		}
		if !found {
			continue
		}
		for _, name := range bmc.Result().FalsifiedNames() {
			if presented[name] {
				continue
			}
			presented[name] = true
			fmt.Fprintf(a.out, "found a falsification at depth %d:\n", depth)
			a.presentCex(sys, name, bmc.Result().Cex(name), false)
		}
	}

	return bmc.Destroy()
}
