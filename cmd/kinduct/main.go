package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kinduct/kinduct/pkg/lib/signals"
	"github.com/kinduct/kinduct/pkg/version"
)

var (
	flagConfig        string
	flagSolverCmd     string
	flagSMTLog        string
	flagWidth         int
	flagQuiet         bool
	flagVerbose       int
	flagDebug         bool
	flagFailOnUnknown bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kinduct",
		Short: "A minimal induction engine for transition systems",
		Long: `kinduct attempts to prove or disprove proof obligations over discrete
transition systems with k-induction and bounded model checking, backed by an
external SMT solver. See the demo subcommand if you are just starting out.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "YAML configuration file")
	pf.StringVar(&flagSolverCmd, "solver-cmd", "", "command to run the SMT solver (default \"z3\")")
	pf.StringVarP(&flagSMTLog, "smt-log", "l", "", "activates SMT logging in the directory specified")
	pf.IntVarP(&flagWidth, "induction-width", "k", 0, "unroll depth of the step checker (default 1)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "quiet output, hides progress lines and induction counterexamples")
	pf.CountVarP(&flagVerbose, "verbose", "v", "increases verbosity")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.BoolVar(&flagFailOnUnknown, "fail-on-unknown", false, "treat a solver `unknown` as a fatal error")

	root.AddCommand(newCheckCmd(), newBmcCmd(), newParseCmd(), newDemoCmd())
	return root
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(signals.Context()); err != nil {
		renderError(os.Stdout, err)
		os.Exit(1)
	}
}
