package check

import (
	"github.com/sirupsen/logrus"

	"github.com/kinduct/kinduct/pkg/smt"
)

// Config carries the knobs shared by all checkers.
type Config struct {
	// SolverCommand is the shell-style command for the SMT solver.
	// Empty means smt.DefaultCommand.
	SolverCommand string
	// SMTLogDir, when non-empty, receives one .smt2 file per checker
	// session.
	SMTLogDir string
	// InductionWidth is the unroll depth k of the step checker. Zero
	// means the default width of 1.
	InductionWidth int
	// FailOnUnknown makes a solver `unknown` fatal instead of leaving
	// the affected proof obligations open with a warning.
	FailOnUnknown bool
	// Logger receives checker diagnostics. Defaults to the standard
	// logrus logger.
	Logger *logrus.Logger
}

func (c Config) width() int {
	if c.InductionWidth <= 0 {
		return 1
	}
	return c.InductionWidth
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}

func (c Config) smtConfig() smt.Config {
	return smt.Config{
		Command: c.SolverCommand,
		LogDir:  c.SMTLogDir,
		Logger:  c.Logger,
	}
}

// onUnknown implements the configured reaction to a solver `unknown`: fatal
// when FailOnUnknown is set, otherwise a warning while the queried proof
// obligations stay open.
func (c Config) onUnknown(logger *logrus.Entry, during string) error {
	if c.FailOnUnknown {
		return &UnknownError{During: during}
	}
	logger.WithField("during", during).Warn("solver returned unknown, proof obligations stay open")
	return nil
}
