package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kinduct/kinduct/pkg/check"
	"github.com/kinduct/kinduct/pkg/parse"
	"github.com/kinduct/kinduct/pkg/trans"
)

// printInductionSummary renders the combined base/step verdict block.
func (a *app) printInductionSummary(sys *trans.System, base *check.BaseResult, step *check.StepResult) {
	w := a.out
	fmt.Fprintln(w, "|===| Induction attempt result")

	if base.HasFalsifications() {
		fmt.Fprintln(w, "| - the following PO(s) are falsifiable in the initial state(s)")
		for _, name := range base.FalsifiedNames() {
			fmt.Fprintf(w, "|   `%s`\n", name)
		}
	} else {
		fmt.Fprintln(w, "| - all POs hold in the initial state(s)")
	}

	fmt.Fprintln(w, "|")

	if step.HasFalsifications() {
		fmt.Fprintln(w, "| - the following PO(s) are not inductive (not preserved by the transition relation)")
		for _, name := range step.FalsifiedNames() {
			fmt.Fprintf(w, "|   `%s`\n", name)
		}
	} else {
		fmt.Fprintln(w, "| - all POs are inductive (preserved by the transition relation)")
	}

	fmt.Fprintln(w, "|")

	switch {
	case !base.HasFalsifications() && !step.HasFalsifications():
		fmt.Fprintln(w, "| - system is safe, all reachable states verify the PO(s)")
	case base.HasFalsifications():
		fmt.Fprintln(w, "| - system is unsafe, some PO(s) are falsified in the initial state(s)")
		if a.verb == 0 {
			fmt.Fprintln(w, "|   (run again without `-q` to see counterexamples)")
		}
	default:
		fmt.Fprintln(w, "| - system might be unsafe, some PO(s) are not inductive")
		if a.verb == 0 {
			fmt.Fprintln(w, "|   (run again without `-q` to see counterexamples)")
		}
	}

	// When something failed, still credit the obligations proved outright.
	if base.HasFalsifications() || step.HasFalsifications() {
		var proved []string
		for _, name := range base.Names() {
			if base.IsOkay(name) && step.IsOkay(name) {
				proved = append(proved, name)
			}
		}
		if len(proved) > 0 {
			fmt.Fprintln(w, "|")
			fmt.Fprintln(w, "| - the following PO(s) hold in the initial state(s) and are inductive")
			fmt.Fprintln(w, "|   and thus hold in all reachable states of the system:")
			for _, name := range proved {
				fmt.Fprintf(w, "|   `%s`\n", name)
			}
		}
	}

	fmt.Fprintln(w, "|===|")
}

// printBMCSummary renders the final BMC verdict block. The result carries
// both the seeded base falsifications and anything BMC found.
func (a *app) printBMCSummary(res *check.Result, max *int) {
	w := a.out
	if a.verb > 0 || res.HasFalsifications() {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "|===| BMC result")
	if open := res.OkayNames(); len(open) > 0 {
		fmt.Fprintln(w, "| - could not find falsifications for the following PO(s)")
		for _, name := range open {
			fmt.Fprintf(w, "|   `%s`\n", name)
		}
		if res.HasFalsifications() {
			fmt.Fprintln(w, "|")
		}
	}
	if res.HasFalsifications() {
		fmt.Fprintln(w, "| - found a falsification for the following PO(s)")
		for _, name := range res.FalsifiedNames() {
			fmt.Fprintf(w, "|   `%s`\n", name)
		}
	}
	fmt.Fprintln(w, "|")
	switch {
	case res.HasFalsifications():
		fmt.Fprintln(w, "| - system is unsafe")
	case max != nil:
		fmt.Fprintln(w, "| - system might be unsafe")
		fmt.Fprintf(w, "|   no falsification in %d step(s) or less was found for some POs\n", *max)
	default:
		fmt.Fprintln(w, "| - system might be unsafe")
	}
	fmt.Fprintln(w, "|===|")
}

func (a *app) presentCexs(sys *trans.System, res *check.Result, relative bool) {
	for _, name := range res.FalsifiedNames() {
		a.presentCex(sys, name, res.Cex(name), relative)
	}
}

// presentCex renders one counterexample trace. With relative labelling
// (step counterexamples) steps print as `k`, `k + 1`, …; otherwise as
// absolute indices.
func (a *app) presentCex(sys *trans.System, name string, cex *check.Cex, relative bool) {
	w := a.out
	po, ok := sys.PO(name)
	def := "?"
	if ok {
		def = po.Def.String()
	}
	fmt.Fprintf(w, "- `%s` = %s\n", name, def)
	width := sys.MaxIDLen()
	for _, state := range cex.Trace {
		fmt.Fprintf(w, "  |=| Step %s\n", stepLabel(state.Step, relative))
		for _, assign := range state.Values {
			fmt.Fprintf(w, "  | %*s = %s\n", width, assign.ID, assign.Val)
		}
	}
	fmt.Fprintln(w, "  |=|")
}

func stepLabel(step int, relative bool) string {
	if !relative {
		return fmt.Sprintf("%d", step)
	}
	if step == 0 {
		return "k"
	}
	return fmt.Sprintf("k + %d", step)
}

// renderSystem prints a parsed system back, one declaration per line.
func renderSystem(w io.Writer, sys *trans.System, prefix string) {
	fmt.Fprintf(w, "%ssvars {\n", prefix)
	for _, d := range sys.Decls() {
		fmt.Fprintf(w, "%s  %s: %s,\n", prefix, d.ID, d.Sort)
	}
	fmt.Fprintf(w, "%s}\n", prefix)
	fmt.Fprintf(w, "%sinit  %s\n", prefix, sys.Init())
	fmt.Fprintf(w, "%strans %s\n", prefix, sys.Trans())
	for _, po := range sys.POs() {
		fmt.Fprintf(w, "%spo %q %s\n", prefix, po.Name, po.Def)
	}
}

// renderError prints the failure block, with a source caret when a parse
// error is in the chain.
func renderError(w io.Writer, err error) {
	fmt.Fprintln(w, "|===| Error")
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(w, "| %s\n", line)
	}
	var perr *parse.Error
	if errors.As(err, &perr) {
		row := fmt.Sprintf("%d", perr.Row+1)
		pad := strings.Repeat(" ", len(row))
		fmt.Fprintf(w, "| %s |\n", pad)
		fmt.Fprintf(w, "| %s | %s\n", row, perr.Line)
		fmt.Fprintf(w, "| %s | %s^~~~ %s\n", pad, strings.Repeat(" ", perr.Col), perr.Msg)
	}
	fmt.Fprintln(w, "|===|")
}
